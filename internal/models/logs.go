package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealLog records an intake. TotalCalories is fixed when the entry is
// written and does not follow later catalog edits.
type MealLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index:idx_meal_logs_user_logged" json:"user_id"`
	FoodID        uuid.UUID `gorm:"type:uuid;not null;index" json:"food_id"`
	Quantity      float64   `gorm:"not null" json:"quantity"`
	MealType      string    `gorm:"size:50;not null" json:"meal_type"`
	TotalCalories float64   `gorm:"not null" json:"total_calories"`
	LoggedAt      time.Time `gorm:"not null;index:idx_meal_logs_user_logged" json:"logged_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Food          Food      `gorm:"foreignKey:FoodID" json:"food"`
}

func (m *MealLog) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type WorkoutLog struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index:idx_workout_logs_user_logged" json:"user_id"`
	ExerciseID     uuid.UUID `gorm:"type:uuid;not null;index" json:"exercise_id"`
	DurationMin    int       `gorm:"not null" json:"duration_min"`
	CaloriesBurned float64   `gorm:"not null" json:"calories_burned"`
	LoggedAt       time.Time `gorm:"not null;index:idx_workout_logs_user_logged" json:"logged_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Exercise       Exercise  `gorm:"foreignKey:ExerciseID" json:"exercise"`
}

func (w *WorkoutLog) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// OwnedBy scopes a query to rows belonging to userID.
func OwnedBy(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// LoggedBetween scopes a log query to the inclusive window [from, to].
// Bounds are compared in UTC, the zone logged_at is stored in.
func LoggedBetween(from, to time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("logged_at >= ? AND logged_at <= ?", from.UTC(), to.UTC())
	}
}
