package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateMealLogRequest struct {
	FoodID   uuid.UUID  `json:"food_id"`
	Quantity float64    `json:"quantity"`
	MealType string     `json:"meal_type"`
	LoggedAt *time.Time `json:"logged_at,omitempty"`
}

type UpdateMealLogRequest struct {
	FoodID   *uuid.UUID `json:"food_id,omitempty"`
	Quantity *float64   `json:"quantity,omitempty"`
	MealType *string    `json:"meal_type,omitempty"`
	LoggedAt *time.Time `json:"logged_at,omitempty"`
}

type CreateWorkoutLogRequest struct {
	ExerciseID  uuid.UUID  `json:"exercise_id"`
	DurationMin int        `json:"duration_min"`
	LoggedAt    *time.Time `json:"logged_at,omitempty"`
}

type UpdateWorkoutLogRequest struct {
	ExerciseID  *uuid.UUID `json:"exercise_id,omitempty"`
	DurationMin *int       `json:"duration_min,omitempty"`
	LoggedAt    *time.Time `json:"logged_at,omitempty"`
}

// DailySummary is the dashboard view for one calendar day.
type DailySummary struct {
	Date              string   `json:"date"`
	CaloriesConsumed  float64  `json:"calories_consumed"`
	CaloriesBurned    float64  `json:"calories_burned"`
	NetCalories       float64  `json:"net_calories"`
	TargetCalories    float64  `json:"target_calories"`
	RemainingCalories float64  `json:"remaining_calories"`
	BMI               *float64 `json:"bmi"`
	TotalProtein      float64  `json:"total_protein"`
	TotalFat          float64  `json:"total_fat"`
	TotalCarbs        float64  `json:"total_carbs"`
	TargetProtein     *float64 `json:"target_protein"`
	TargetFat         *float64 `json:"target_fat"`
	TargetCarbs       *float64 `json:"target_carbs"`
}
