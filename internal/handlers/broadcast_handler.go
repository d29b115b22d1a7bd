package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/membify/membify-backend/internal/dto"
	"github.com/membify/membify-backend/internal/services"
)

type BroadcastHandler struct {
	broadcastService *services.BroadcastService
	communityService *services.CommunityService
}

func NewBroadcastHandler(broadcastService *services.BroadcastService, communityService *services.CommunityService) *BroadcastHandler {
	return &BroadcastHandler{broadcastService: broadcastService, communityService: communityService}
}

func (h *BroadcastHandler) Dispatch(c *fiber.Ctx) error {
	id, err := requireOwnedCommunity(c, h.communityService)
	if err != nil {
		return err
	}

	var req dto.BroadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	result, err := h.broadcastService.Dispatch(c.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage),
			errors.Is(err, services.ErrInvalidFilter),
			errors.Is(err, services.ErrPlanRequired):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrSenderUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to send broadcast",
		})
	}

	// Zero matched recipients is a warning for the UI, not an error.
	return c.JSON(result)
}
