package dto

import (
	"time"

	"github.com/google/uuid"
)

// UpdateProfileRequest is a partial update; nil fields are left untouched.
type UpdateProfileRequest struct {
	HeightCm       *float64 `json:"height_cm"`
	WeightKg       *float64 `json:"weight_kg"`
	TargetWeightKg *float64 `json:"target_weight_kg"`
	ActivityLevel  *string  `json:"activity_level"`
	Gender         *string  `json:"gender"`
	DateOfBirth    *string  `json:"date_of_birth"`
}

type ProfileResponse struct {
	UserID            uuid.UUID  `json:"user_id"`
	FullName          string     `json:"full_name"`
	Gender            *string    `json:"gender"`
	DateOfBirth       *time.Time `json:"date_of_birth"`
	HeightCm          *float64   `json:"height_cm"`
	WeightKg          *float64   `json:"weight_kg"`
	TargetWeightKg    *float64   `json:"target_weight_kg"`
	ActivityLevel     *string    `json:"activity_level"`
	BMI               *float64   `json:"bmi"`
	ProfilePictureURL *string    `json:"profile_picture_url"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type PictureResponse struct {
	ProfilePictureURL string `json:"profile_picture_url"`
}
