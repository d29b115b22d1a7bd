package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/membify/membify-backend/internal/dto"
	"github.com/membify/membify-backend/internal/services"
)

type PlanHandler struct {
	planService      *services.PlanService
	communityService *services.CommunityService
}

func NewPlanHandler(planService *services.PlanService, communityService *services.CommunityService) *PlanHandler {
	return &PlanHandler{planService: planService, communityService: communityService}
}

func (h *PlanHandler) Create(c *fiber.Ctx) error {
	id, err := requireOwnedCommunity(c, h.communityService)
	if err != nil {
		return err
	}

	var req dto.CreatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	plan, err := h.planService.Create(id, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

func (h *PlanHandler) List(c *fiber.Ctx) error {
	id, err := requireOwnedCommunity(c, h.communityService)
	if err != nil {
		return err
	}

	plans, err := h.planService.List(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list plans",
		})
	}
	return c.JSON(plans)
}

func (h *PlanHandler) Update(c *fiber.Ctx) error {
	id, err := requireOwnedCommunity(c, h.communityService)
	if err != nil {
		return err
	}

	planID, err := uuid.Parse(c.Params("plan_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid plan id",
		})
	}

	var req dto.UpdatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	plan, err := h.planService.Update(id, planID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPlanNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrInvalidInterval), errors.Is(err, services.ErrInvalidPrice):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update plan",
		})
	}
	return c.JSON(plan)
}

func (h *PlanHandler) Delete(c *fiber.Ctx) error {
	id, err := requireOwnedCommunity(c, h.communityService)
	if err != nil {
		return err
	}

	planID, err := uuid.Parse(c.Params("plan_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid plan id",
		})
	}

	if err := h.planService.Delete(id, planID); err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete plan",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
