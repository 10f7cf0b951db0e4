package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/calculator"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/testutil"
	"gorm.io/gorm"
)

func f64(v float64) *float64 { return &v }

func str(v string) *string { return &v }

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	}
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	dob := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	u := &models.User{
		Email:        email,
		Password:     "x",
		FullName:     "Test User",
		Gender:       str("male"),
		DateOfBirth:  &dob,
		Role:         models.RoleUser,
		AuthProvider: models.ProviderEmail,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func createProfile(t *testing.T, db *gorm.DB, u *models.User, weight, height float64, target *float64, level string) *models.UserProfile {
	t.Helper()
	p := &models.UserProfile{
		UserID:         u.ID,
		HeightCm:       &height,
		WeightKg:       &weight,
		TargetWeightKg: target,
		ActivityLevel:  &level,
		BMI:            calculator.BMI(&weight, &height),
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return p
}

func createFood(t *testing.T, db *gorm.DB, name string, kcal, protein, fat, carbs float64) *models.Food {
	t.Helper()
	f := &models.Food{Name: name, Calories: kcal, Protein: protein, Fat: fat, Carbs: carbs, Source: "local"}
	if err := db.Create(f).Error; err != nil {
		t.Fatalf("create food: %v", err)
	}
	return f
}

func createExercise(t *testing.T, db *gorm.DB, name string, perHour float64) *models.Exercise {
	t.Helper()
	e := &models.Exercise{Name: name, CaloriesBurnedPerHour: perHour}
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("create exercise: %v", err)
	}
	return e
}

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewDB(t)
}

var bg = context.Background()
