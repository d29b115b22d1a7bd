package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/membify/membify-backend/internal/dto"
	"github.com/membify/membify-backend/internal/services"
	"github.com/membify/membify-backend/internal/tenant"
)

type BillingHandler struct {
	billingService   *services.BillingService
	communityService *services.CommunityService
}

func NewBillingHandler(billingService *services.BillingService, communityService *services.CommunityService) *BillingHandler {
	return &BillingHandler{billingService: billingService, communityService: communityService}
}

func (h *BillingHandler) ListPaymentMethods(c *fiber.Ctx) error {
	id, err := requireOwnedCommunity(c, h.communityService)
	if err != nil {
		return err
	}

	methods, err := h.billingService.ListPaymentMethods(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list payment methods",
		})
	}
	return c.JSON(methods)
}

func (h *BillingHandler) CreatePaymentMethod(c *fiber.Ctx) error {
	id, err := requireOwnedCommunity(c, h.communityService)
	if err != nil {
		return err
	}

	var req dto.CreatePaymentMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	method, err := h.billingService.CreatePaymentMethod(id, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(method)
}

func (h *BillingHandler) TogglePaymentMethod(c *fiber.Ctx) error {
	id, err := requireOwnedCommunity(c, h.communityService)
	if err != nil {
		return err
	}

	methodID, err := uuid.Parse(c.Params("method_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid payment method id",
		})
	}

	var req dto.TogglePaymentMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	method, err := h.billingService.SetPaymentMethodActive(id, methodID, req.IsActive)
	if err != nil {
		if errors.Is(err, services.ErrPaymentMethodNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update payment method",
		})
	}
	return c.JSON(method)
}

func (h *BillingHandler) MySubscription(c *fiber.Ctx) error {
	ownerID, err := tenant.OwnerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	sub, err := h.billingService.OwnerSubscription(ownerID)
	if err != nil {
		if errors.Is(err, services.ErrNoPlatformSubscription) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load subscription",
		})
	}
	return c.JSON(sub)
}
