package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/membify/membify-backend/internal/dto"
	"github.com/membify/membify-backend/internal/services"
)

type CronHandler struct {
	expiryService    *services.ExpiryService
	communityService *services.CommunityService
}

func NewCronHandler(expiryService *services.ExpiryService, communityService *services.CommunityService) *CronHandler {
	return &CronHandler{expiryService: expiryService, communityService: communityService}
}

// CheckCommunity runs an on-demand expiry scan for one owned community.
func (h *CronHandler) CheckCommunity(c *fiber.Ctx) error {
	id, err := requireOwnedCommunity(c, h.communityService)
	if err != nil {
		return err
	}

	processed, err := h.expiryService.Scan(c.Context(), &id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Subscription check failed",
		})
	}
	return c.JSON(dto.ScanResponse{ProcessedCount: processed})
}

// CheckAll runs an on-demand expiry scan across all communities. Admin only.
func (h *CronHandler) CheckAll(c *fiber.Ctx) error {
	processed, err := h.expiryService.Scan(c.Context(), nil)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Subscription check failed",
		})
	}
	return c.JSON(dto.ScanResponse{ProcessedCount: processed})
}

// Status reports the expiry cron health derived from recent check logs.
func (h *CronHandler) Status(c *fiber.Ctx) error {
	status, err := h.expiryService.Status(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read cron status",
		})
	}
	return c.JSON(status)
}
