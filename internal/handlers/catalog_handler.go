package handlers

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	catalog *services.CatalogService
}

func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// --- foods ---

func (h *CatalogHandler) ListFoods(c *fiber.Ctx) error {
	resp, err := h.catalog.ListFoods(c.UserContext(), queryInt(c, "limit"), queryInt(c, "offset"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// SearchFoods merges local and USDA matches for ?q=.
func (h *CatalogHandler) SearchFoods(c *fiber.Ctx) error {
	resp, err := h.catalog.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *CatalogHandler) GetUSDAFood(c *fiber.Ctx) error {
	fdcID, err := strconv.ParseInt(c.Params("fdcId"), 10, 64)
	if err != nil || fdcID <= 0 {
		return invalidID(c)
	}

	resp, err := h.catalog.USDAFood(c.UserContext(), fdcID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *CatalogHandler) GetFood(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "id")
	if !ok {
		return invalidID(c)
	}

	food, err := h.catalog.GetFood(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(food)
}

func (h *CatalogHandler) CreateFood(c *fiber.Ctx) error {
	var req dto.FoodRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	food, err := h.catalog.CreateFood(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(food)
}

func (h *CatalogHandler) UpdateFood(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var req dto.FoodRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	food, err := h.catalog.UpdateFood(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(food)
}

func (h *CatalogHandler) DeleteFood(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "id")
	if !ok {
		return invalidID(c)
	}

	if err := h.catalog.DeleteFood(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// --- exercises ---

func (h *CatalogHandler) ListExercises(c *fiber.Ctx) error {
	resp, err := h.catalog.ListExercises(c.UserContext(), queryInt(c, "limit"), queryInt(c, "offset"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *CatalogHandler) GetExercise(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "id")
	if !ok {
		return invalidID(c)
	}

	exercise, err := h.catalog.GetExercise(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(exercise)
}

func (h *CatalogHandler) CreateExercise(c *fiber.Ctx) error {
	var req dto.ExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	exercise, err := h.catalog.CreateExercise(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(exercise)
}

func (h *CatalogHandler) UpdateExercise(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var req dto.ExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	exercise, err := h.catalog.UpdateExercise(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(exercise)
}

func (h *CatalogHandler) DeleteExercise(c *fiber.Ctx) error {
	id, ok := pathUUID(c, "id")
	if !ok {
		return invalidID(c)
	}

	if err := h.catalog.DeleteExercise(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
