package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// LogHandler serves the meal and workout ledgers. Every call is scoped to the
// authenticated user; someone else's entry answers 404.
type LogHandler struct {
	meals    *services.MealLogService
	workouts *services.WorkoutLogService
	loc      *time.Location
}

func NewLogHandler(meals *services.MealLogService, workouts *services.WorkoutLogService, loc *time.Location) *LogHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &LogHandler{meals: meals, workouts: workouts, loc: loc}
}

func (h *LogHandler) dayFilter(c *fiber.Ctx) (*time.Time, bool) {
	date, given, err := queryDate(c, h.loc)
	if err != nil {
		return nil, false
	}
	if !given {
		return nil, true
	}
	return &date, true
}

// --- meals ---

func (h *LogHandler) CreateMeal(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}
	var req dto.CreateMealLogRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	entry, err := h.meals.Create(c.UserContext(), uid, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *LogHandler) ListMeals(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}
	day, ok := h.dayFilter(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	entries, err := h.meals.List(c.UserContext(), uid, day)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}

func (h *LogHandler) GetMeal(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return invalidID(c)
	}

	entry, err := h.meals.Get(c.UserContext(), uid, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}

func (h *LogHandler) UpdateMeal(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var req dto.UpdateMealLogRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	entry, err := h.meals.Update(c.UserContext(), uid, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}

func (h *LogHandler) DeleteMeal(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return invalidID(c)
	}

	if err := h.meals.Delete(c.UserContext(), uid, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// --- workouts ---

func (h *LogHandler) CreateWorkout(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}
	var req dto.CreateWorkoutLogRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	entry, err := h.workouts.Create(c.UserContext(), uid, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *LogHandler) ListWorkouts(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}
	day, ok := h.dayFilter(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	entries, err := h.workouts.List(c.UserContext(), uid, day)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}

func (h *LogHandler) GetWorkout(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return invalidID(c)
	}

	entry, err := h.workouts.Get(c.UserContext(), uid, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}

func (h *LogHandler) UpdateWorkout(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var req dto.UpdateWorkoutLogRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	entry, err := h.workouts.Update(c.UserContext(), uid, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}

func (h *LogHandler) DeleteWorkout(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return invalidID(c)
	}

	if err := h.workouts.Delete(c.UserContext(), uid, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
