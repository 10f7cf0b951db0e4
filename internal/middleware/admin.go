package middleware

import (
	"slices"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminRequired allows the request when any of these hold:
// the X-Admin-Token header matches ADMIN_TOKEN, the token's email or subject
// is listed in ADMIN_EMAILS / ADMIN_USER_IDS, or the user row has the admin
// role. It must run after JWTProtected.
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminEmails := config.SplitCSV(cfg.AdminEmails)
	adminUserIDs := config.SplitCSV(cfg.AdminUserIDs)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			return c.Next()
		}

		mc, ok := claims(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		email, _ := mc["email"].(string)
		sub, _ := mc["sub"].(string)
		if slices.Contains(adminEmails, email) || slices.Contains(adminUserIDs, sub) {
			return c.Next()
		}

		if userID, err := CurrentUserID(c); err == nil {
			var user models.User
			err := db.WithContext(c.UserContext()).Select("role").First(&user, "id = ?", userID).Error
			if err == nil && user.Role == models.RoleAdmin {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}
