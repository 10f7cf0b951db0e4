package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Food is a catalog item; nutrition values are per 100 g.
type Food struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null;size:255;uniqueIndex" json:"name"`
	Calories    float64   `gorm:"not null" json:"calories"`
	Protein     float64   `gorm:"not null;default:0" json:"protein"`
	Fat         float64   `gorm:"not null;default:0" json:"fat"`
	Carbs       float64   `gorm:"not null;default:0" json:"carbs"`
	PortionSize string    `gorm:"size:100" json:"portion_size,omitempty"`
	Source      string    `gorm:"size:20;default:'local'" json:"source"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (f *Food) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

type Exercise struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name                  string    `gorm:"not null;size:255;uniqueIndex" json:"name"`
	CaloriesBurnedPerHour float64   `gorm:"not null" json:"calories_burned_per_hour"`
	Type                  string    `gorm:"size:50" json:"type,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (e *Exercise) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
