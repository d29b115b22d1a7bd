package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/membify/membify-backend/internal/dto"
	"github.com/membify/membify-backend/internal/services"
	"github.com/membify/membify-backend/internal/tenant"
)

type CommunityHandler struct {
	communityService *services.CommunityService
}

func NewCommunityHandler(communityService *services.CommunityService) *CommunityHandler {
	return &CommunityHandler{communityService: communityService}
}

// communityID parses the :community_id path param.
func communityID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("community_id"))
}

// requireOwnedCommunity resolves the :community_id path param and verifies
// the authenticated owner owns it. On failure it writes the HTTP response
// and returns its error, so callers can just bail out.
func requireOwnedCommunity(c *fiber.Ctx, svc *services.CommunityService) (uuid.UUID, error) {
	ownerID, err := tenant.OwnerID(c)
	if err != nil {
		return uuid.Nil, c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := communityID(c)
	if err != nil {
		return uuid.Nil, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid community id",
		})
	}

	if _, err := svc.RequireOwned(id, ownerID); err != nil {
		if resp := ownershipError(c, err); resp != nil {
			return uuid.Nil, resp
		}
		return uuid.Nil, c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return id, nil
}

// ownershipError maps community lookup failures to HTTP responses, or
// returns nil if the error is not ownership-related.
func ownershipError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrCommunityNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrNotCommunityOwner):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return nil
}

func (h *CommunityHandler) Create(c *fiber.Ctx) error {
	ownerID, err := tenant.OwnerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateCommunityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	community, err := h.communityService.Create(ownerID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(community)
}

func (h *CommunityHandler) List(c *fiber.Ctx) error {
	ownerID, err := tenant.OwnerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	communities, err := h.communityService.ListByOwner(ownerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list communities",
		})
	}
	return c.JSON(communities)
}

func (h *CommunityHandler) Update(c *fiber.Ctx) error {
	ownerID, err := tenant.OwnerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := communityID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid community id",
		})
	}

	var req dto.UpdateCommunityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	community, err := h.communityService.Update(id, ownerID, &req)
	if err != nil {
		if resp := ownershipError(c, err); resp != nil {
			return resp
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update community",
		})
	}
	return c.JSON(community)
}
