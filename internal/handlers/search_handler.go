package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/membify/membify-backend/internal/dto"
	"github.com/membify/membify-backend/internal/services"
)

type SearchHandler struct {
	eligibilityService *services.EligibilityService
}

func NewSearchHandler(eligibilityService *services.EligibilityService) *SearchHandler {
	return &SearchHandler{eligibilityService: eligibilityService}
}

// Communities is the public discovery endpoint: only communities passing
// the eligibility checks are returned.
func (h *SearchHandler) Communities(c *fiber.Ctx) error {
	includePlans := c.QueryBool("include_plans", false)

	result, err := h.eligibilityService.FilterEligible(c.Context(), c.Query("query"), includePlans)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Search failed",
		})
	}
	return c.JSON(result)
}
