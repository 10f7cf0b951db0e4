package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	ProviderEmail  = "email"
	ProviderGoogle = "google"
	ProviderApple  = "apple"
)

type User struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email             string     `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password          string     `gorm:"not null" json:"-"`
	FullName          string     `gorm:"size:255" json:"full_name"`
	Gender            *string    `gorm:"size:10" json:"gender,omitempty"`
	DateOfBirth       *time.Time `json:"date_of_birth,omitempty"`
	Role              string     `gorm:"size:20;default:'user'" json:"role"`
	GoogleID          *string    `gorm:"size:255;uniqueIndex" json:"-"`
	AppleUserID       *string    `gorm:"size:255;uniqueIndex" json:"-"`
	AuthProvider      string     `gorm:"size:50;default:'email'" json:"auth_provider"`
	ProfilePictureURL *string    `gorm:"size:1024" json:"profile_picture_url,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenHash string    `gorm:"uniqueIndex;not null;size:64" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
