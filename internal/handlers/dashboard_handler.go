package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Summary returns the daily summary for ?date=YYYY-MM-DD, today by default.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}

	loc := h.dashboard.Location()
	date, given, err := queryDate(c, loc)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	if !given {
		date = time.Now().In(loc)
	}

	summary, err := h.dashboard.DailySummary(c.UserContext(), uid, date)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
