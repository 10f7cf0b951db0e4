package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrFoodNotFound    = errors.New("food not found")
	ErrMealLogNotFound = errors.New("meal log not found")
)

const minMealQuantity = 0.1

// MealCalories is the energy of quantity grams of a food given per 100 g.
func MealCalories(food *models.Food, quantity float64) float64 {
	return food.Calories / 100 * quantity
}

type MealLogService struct {
	db  *gorm.DB
	loc *time.Location
}

func NewMealLogService(db *gorm.DB, loc *time.Location) *MealLogService {
	if loc == nil {
		loc = time.UTC
	}
	return &MealLogService{db: db, loc: loc}
}

func (s *MealLogService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateMealLogRequest) (*models.MealLog, error) {
	if req.FoodID == uuid.Nil {
		return nil, invalidf("food_id is required")
	}
	if req.Quantity < minMealQuantity {
		return nil, invalidf("quantity must be at least %.1f", minMealQuantity)
	}
	mealType := strings.TrimSpace(req.MealType)
	if mealType == "" {
		return nil, invalidf("meal_type is required")
	}

	db := s.db.WithContext(ctx)
	food, err := findFood(db, req.FoodID)
	if err != nil {
		return nil, err
	}

	loggedAt := time.Now()
	if req.LoggedAt != nil {
		loggedAt = *req.LoggedAt
	}

	entry := models.MealLog{
		UserID:        userID,
		FoodID:        food.ID,
		Quantity:      req.Quantity,
		MealType:      mealType,
		TotalCalories: MealCalories(food, req.Quantity),
		LoggedAt:      loggedAt.UTC(),
	}
	if err := db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create meal log: %w", err)
	}
	entry.Food = *food
	return &entry, nil
}

// List returns the user's entries newest first, optionally limited to one
// calendar day.
func (s *MealLogService) List(ctx context.Context, userID uuid.UUID, day *time.Time) ([]models.MealLog, error) {
	q := s.db.WithContext(ctx).Scopes(models.OwnedBy(userID)).Preload("Food")
	if day != nil {
		start, end := DayWindow(*day, s.loc)
		q = q.Scopes(models.LoggedBetween(start, end))
	}

	var entries []models.MealLog
	if err := q.Order("logged_at DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list meal logs: %w", err)
	}
	return entries, nil
}

// Get returns the entry only when userID owns it. Someone else's entry is
// reported exactly like a missing one.
func (s *MealLogService) Get(ctx context.Context, userID, id uuid.UUID) (*models.MealLog, error) {
	var entry models.MealLog
	err := s.db.WithContext(ctx).Scopes(models.OwnedBy(userID)).Preload("Food").First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMealLogNotFound
		}
		return nil, fmt.Errorf("failed to load meal log: %w", err)
	}
	return &entry, nil
}

// Update edits an owned entry. Total calories are recomputed from the
// current catalog only when the food or quantity changes.
func (s *MealLogService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.UpdateMealLogRequest) (*models.MealLog, error) {
	entry, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	recompute := false
	if req.Quantity != nil {
		if *req.Quantity < minMealQuantity {
			return nil, invalidf("quantity must be at least %.1f", minMealQuantity)
		}
		recompute = *req.Quantity != entry.Quantity
		entry.Quantity = *req.Quantity
	}
	if req.FoodID != nil && *req.FoodID != entry.FoodID {
		food, err := findFood(db, *req.FoodID)
		if err != nil {
			return nil, err
		}
		entry.FoodID = food.ID
		entry.Food = *food
		recompute = true
	}
	if req.MealType != nil {
		mealType := strings.TrimSpace(*req.MealType)
		if mealType == "" {
			return nil, invalidf("meal_type must not be empty")
		}
		entry.MealType = mealType
	}
	if req.LoggedAt != nil {
		entry.LoggedAt = req.LoggedAt.UTC()
	}

	if recompute {
		if entry.Food.ID != entry.FoodID {
			return nil, ErrFoodNotFound
		}
		entry.TotalCalories = MealCalories(&entry.Food, entry.Quantity)
	}

	err = db.Model(entry).Select("FoodID", "Quantity", "MealType", "TotalCalories", "LoggedAt", "UpdatedAt").Updates(entry).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update meal log: %w", err)
	}
	return entry, nil
}

func (s *MealLogService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Scopes(models.OwnedBy(userID)).Delete(&models.MealLog{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete meal log: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMealLogNotFound
	}
	return nil
}

func findFood(db *gorm.DB, id uuid.UUID) (*models.Food, error) {
	var food models.Food
	if err := db.First(&food, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, fmt.Errorf("failed to load food: %w", err)
	}
	return &food, nil
}
