package middleware

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrNoUser = errors.New("no authenticated user")

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

func claims(c *fiber.Ctx) (jwt.MapClaims, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, false
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	return mc, ok
}

// CurrentUserID returns the subject of the verified access token.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	mc, ok := claims(c)
	if !ok {
		return uuid.Nil, ErrNoUser
	}
	sub, _ := mc["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrNoUser
	}
	return id, nil
}
