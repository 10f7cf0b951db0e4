package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserProfile holds the biometric inputs for recommendations. BMI is derived
// from the stored height and weight on every write.
type UserProfile struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	HeightCm       *float64  `json:"height_cm"`
	WeightKg       *float64  `json:"weight_kg"`
	TargetWeightKg *float64  `json:"target_weight_kg"`
	ActivityLevel  *string   `gorm:"size:20" json:"activity_level"`
	BMI            *float64  `json:"bmi"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	User           User      `gorm:"foreignKey:UserID" json:"-"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

const (
	SourcePrimary  = "primary"
	SourceFallback = "fallback"
)

// Recommendation is a generated calorie and macro plan. Only the newest row
// per user is authoritative; regeneration updates it in place.
type Recommendation struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	RecommendedCalories float64   `gorm:"not null" json:"recommended_calories"`
	RecommendedProtein  float64   `gorm:"not null" json:"recommended_protein"`
	RecommendedFat      float64   `gorm:"not null" json:"recommended_fat"`
	RecommendedCarbs    float64   `gorm:"not null" json:"recommended_carbs"`
	RecommendedExercise string    `gorm:"type:text" json:"recommended_exercise"`
	Source              string    `gorm:"size:20;not null;default:'fallback'" json:"source"`
	GeneratedAt         time.Time `gorm:"not null;index" json:"generated_at"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	User                User      `gorm:"foreignKey:UserID" json:"-"`
}

func (r *Recommendation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
