package handlers

import (
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}

	resp, err := h.profiles.Get(c.UserContext(), uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.profiles.Update(c.UserContext(), uid, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// UploadPicture expects a multipart form with the image in the "file" field.
func (h *ProfileHandler) UploadPicture(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "file is required")
	}

	resp, err := h.profiles.UpdatePicture(c.UserContext(), uid, file)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
