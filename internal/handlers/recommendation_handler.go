package handlers

import (
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type RecommendationHandler struct {
	recommendations *services.RecommendationService
}

func NewRecommendationHandler(recommendations *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations}
}

func (h *RecommendationHandler) Generate(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}

	rec, err := h.recommendations.Generate(c.UserContext(), uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}

func (h *RecommendationHandler) Latest(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}

	rec, err := h.recommendations.Latest(c.UserContext(), uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}
