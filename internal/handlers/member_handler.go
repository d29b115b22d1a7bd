package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/membify/membify-backend/internal/dto"
	"github.com/membify/membify-backend/internal/services"
)

type MemberHandler struct {
	memberService    *services.MemberService
	communityService *services.CommunityService
}

func NewMemberHandler(memberService *services.MemberService, communityService *services.CommunityService) *MemberHandler {
	return &MemberHandler{memberService: memberService, communityService: communityService}
}

func (h *MemberHandler) List(c *fiber.Ctx) error {
	id, err := requireOwnedCommunity(c, h.communityService)
	if err != nil {
		return err
	}

	var planID *uuid.UUID
	if raw := c.Query("subscription_plan_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid subscription_plan_id",
			})
		}
		planID = &parsed
	}

	members, err := h.memberService.List(id, c.Query("filter"), planID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidFilter) || errors.Is(err, services.ErrPlanRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list members",
		})
	}
	return c.JSON(members)
}

func (h *MemberHandler) Upsert(c *fiber.Ctx) error {
	id, err := requireOwnedCommunity(c, h.communityService)
	if err != nil {
		return err
	}

	var req dto.UpsertMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	member, err := h.memberService.Upsert(id, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(member)
}

func (h *MemberHandler) Activate(c *fiber.Ctx) error {
	id, err := requireOwnedCommunity(c, h.communityService)
	if err != nil {
		return err
	}

	var req dto.ActivateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	member, err := h.memberService.Activate(id, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPlanNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrPlanInactive):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to activate member",
		})
	}
	return c.JSON(member)
}

func (h *MemberHandler) Remove(c *fiber.Ctx) error {
	id, err := requireOwnedCommunity(c, h.communityService)
	if err != nil {
		return err
	}

	memberID, err := uuid.Parse(c.Params("member_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid member id",
		})
	}

	if err := h.memberService.Remove(id, memberID); err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to remove member",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
