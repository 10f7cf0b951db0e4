package handlers

import (
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.authService.Refresh(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	if err := h.authService.Logout(c.UserContext(), &req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}

	resp, err := h.authService.Me(c.UserContext(), uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.DeleteAccountRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
	}

	if err := h.authService.DeleteAccount(c.UserContext(), uid, req.Password); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Account deleted successfully"})
}

func (h *AuthHandler) GoogleSignIn(c *fiber.Ctx) error {
	return h.socialSignIn(c, services.SocialGoogle)
}

func (h *AuthHandler) AppleSignIn(c *fiber.Ctx) error {
	return h.socialSignIn(c, services.SocialApple)
}

func (h *AuthHandler) socialSignIn(c *fiber.Ctx, provider services.SocialProvider) error {
	var req dto.SocialSignInRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.authService.SocialSignIn(c.UserContext(), provider, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) LinkSocial(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.LinkSocialRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.authService.LinkSocial(c.UserContext(), uid, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
