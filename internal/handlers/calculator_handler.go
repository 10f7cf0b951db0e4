package handlers

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/calculator"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// CalculatorHandler exposes the biometric formulas without touching storage.
type CalculatorHandler struct{}

func NewCalculatorHandler() *CalculatorHandler {
	return &CalculatorHandler{}
}

func positiveQuery(c *fiber.Ctx, key string) (float64, bool) {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func (h *CalculatorHandler) BMI(c *fiber.Ctx) error {
	weight, ok := positiveQuery(c, "weight_kg")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "weight_kg must be a positive number")
	}
	height, ok := positiveQuery(c, "height_cm")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "height_cm must be a positive number")
	}

	return c.JSON(dto.BMIResponse{
		WeightKg: weight,
		HeightCm: height,
		BMI:      *calculator.BMI(&weight, &height),
	})
}

// BMR also returns TDEE when activity_level is given.
func (h *CalculatorHandler) BMR(c *fiber.Ctx) error {
	weight, ok := positiveQuery(c, "weight_kg")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "weight_kg must be a positive number")
	}
	height, ok := positiveQuery(c, "height_cm")
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "height_cm must be a positive number")
	}
	age, err := strconv.Atoi(c.Query("age"))
	if err != nil || age < 0 {
		return errorJSON(c, fiber.StatusBadRequest, "age must be a non-negative integer")
	}

	sex := calculator.ParseSex(c.Query("sex"))
	bmr := calculator.BMR(sex, weight, height, age)
	resp := dto.BMRResponse{
		Sex:      string(sex),
		WeightKg: weight,
		HeightCm: height,
		Age:      age,
		BMR:      calculator.Round2(bmr),
	}

	if raw := c.Query("activity_level"); raw != "" {
		level, err := calculator.ParseActivityLevel(raw)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		l := string(level)
		tdee := calculator.Round2(calculator.TDEE(bmr, level))
		resp.ActivityLevel = &l
		resp.TDEE = &tdee
	}
	return c.JSON(resp)
}
