package ratelimit

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// PerIP limits each client IP to max requests per window using a sliding
// window. A nil storage keeps counters in process memory.
func PerIP(max int, window time.Duration, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        window,
		Storage:           storage,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Error: true, Message: "Too many requests, please slow down",
			})
		},
	})
}
