package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	status := fiber.StatusOK
	if err := h.ping(c); err != nil {
		dbStatus = "unhealthy: " + err.Error()
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
	})
}

func (h *HealthHandler) ping(c *fiber.Ctx) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(c.UserContext())
}
