package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/provider/usda"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrCatalogNameTaken = errors.New("a catalog item with this name already exists")
	ErrCatalogInUse     = errors.New("catalog item is referenced by logs and cannot be deleted")
)

const (
	localSearchLimit = 20
	maxPageSize      = 100
	defaultPageSize  = 20
)

type CatalogService struct {
	db   *gorm.DB
	usda *usda.Client
}

// NewCatalogService wires the catalog. usdaClient may be nil, which limits
// search to local items.
func NewCatalogService(db *gorm.DB, usdaClient *usda.Client) *CatalogService {
	return &CatalogService{db: db, usda: usdaClient}
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// --- foods ---

func (s *CatalogService) ListFoods(ctx context.Context, limit, offset int) (*dto.FoodListResponse, error) {
	limit, offset = clampPage(limit, offset)
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Food{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count foods: %w", err)
	}
	var foods []models.Food
	if err := db.Order("name ASC").Limit(limit).Offset(offset).Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("failed to list foods: %w", err)
	}
	return &dto.FoodListResponse{Foods: foods, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *CatalogService) GetFood(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	return findFood(s.db.WithContext(ctx), id)
}

func validateFood(req *dto.FoodRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return invalidf("name is required")
	}
	if req.Calories < 0 || req.Protein < 0 || req.Fat < 0 || req.Carbs < 0 {
		return invalidf("nutrition values must not be negative")
	}
	return nil
}

func (s *CatalogService) CreateFood(ctx context.Context, req *dto.FoodRequest) (*models.Food, error) {
	if err := validateFood(req); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	name := strings.TrimSpace(req.Name)
	if err := ensureNameFree(db, &models.Food{}, name, uuid.Nil); err != nil {
		return nil, err
	}

	food := models.Food{
		Name:        name,
		Calories:    req.Calories,
		Protein:     req.Protein,
		Fat:         req.Fat,
		Carbs:       req.Carbs,
		PortionSize: req.PortionSize,
		Source:      "local",
	}
	if err := db.Create(&food).Error; err != nil {
		return nil, fmt.Errorf("failed to create food: %w", err)
	}
	return &food, nil
}

// UpdateFood replaces a food's values. Existing meal logs keep the calories
// they were written with.
func (s *CatalogService) UpdateFood(ctx context.Context, id uuid.UUID, req *dto.FoodRequest) (*models.Food, error) {
	if err := validateFood(req); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	food, err := findFood(db, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if err := ensureNameFree(db, &models.Food{}, name, id); err != nil {
		return nil, err
	}

	food.Name = name
	food.Calories = req.Calories
	food.Protein = req.Protein
	food.Fat = req.Fat
	food.Carbs = req.Carbs
	food.PortionSize = req.PortionSize
	if err := db.Save(food).Error; err != nil {
		return nil, fmt.Errorf("failed to update food: %w", err)
	}
	return food, nil
}

func (s *CatalogService) DeleteFood(ctx context.Context, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	if _, err := findFood(db, id); err != nil {
		return err
	}
	var refs int64
	if err := db.Model(&models.MealLog{}).Where("food_id = ?", id).Count(&refs).Error; err != nil {
		return fmt.Errorf("failed to check food references: %w", err)
	}
	if refs > 0 {
		return ErrCatalogInUse
	}
	if err := db.Delete(&models.Food{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete food: %w", err)
	}
	return nil
}

// likeEscaper makes user input match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// SearchLocal matches food names case-insensitively, capped at 20 rows.
func (s *CatalogService) SearchLocal(ctx context.Context, query string) ([]models.Food, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(query))) + "%"
	var foods []models.Food
	err := s.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern).
		Order("name ASC").
		Limit(localSearchLimit).
		Find(&foods).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search foods: %w", err)
	}
	return foods, nil
}

// Search queries the local catalog and USDA concurrently. Local results come
// first. A USDA failure or missing key leaves only local results.
func (s *CatalogService) Search(ctx context.Context, query string) (*dto.FoodSearchResponse, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, invalidf("search query must be at least 2 characters")
	}

	var (
		local  []models.Food
		remote []usda.Food
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		local, err = s.SearchLocal(gctx, query)
		return err
	})
	if s.usda.Enabled() {
		g.Go(func() error {
			foods, err := s.usda.Search(gctx, query)
			if err != nil {
				slog.Warn("usda search failed, returning local results only", "query", query, "error", err)
				return nil
			}
			remote = foods
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]dto.FoodSearchResult, 0, len(local)+len(remote))
	for i := range local {
		results = append(results, localResult(&local[i]))
	}
	for _, f := range remote {
		results = append(results, usdaResult(f))
	}
	return &dto.FoodSearchResponse{Query: query, Results: results}, nil
}

// USDAFood fetches one FoodData Central item by id.
func (s *CatalogService) USDAFood(ctx context.Context, fdcID int64) (*dto.FoodSearchResult, error) {
	if !s.usda.Enabled() {
		return nil, usda.ErrMissingAPIKey
	}
	f, err := s.usda.Get(ctx, fdcID)
	if err != nil {
		return nil, err
	}
	res := usdaResult(f)
	return &res, nil
}

func localResult(f *models.Food) dto.FoodSearchResult {
	return dto.FoodSearchResult{
		ID:       f.ID.String(),
		Name:     f.Name,
		Source:   "local",
		Unit:     "100g",
		Calories: &f.Calories,
		Protein:  &f.Protein,
		Fat:      &f.Fat,
		Carbs:    &f.Carbs,
	}
}

func usdaResult(f usda.Food) dto.FoodSearchResult {
	return dto.FoodSearchResult{
		ID:       strconv.FormatInt(f.FDCID, 10),
		Name:     f.Name,
		Source:   "usda",
		Unit:     "100g",
		Calories: f.Calories,
		Protein:  f.Protein,
		Fat:      f.Fat,
		Carbs:    f.Carbs,
		Details:  f.Details,
	}
}

// --- exercises ---

func (s *CatalogService) ListExercises(ctx context.Context, limit, offset int) (*dto.ExerciseListResponse, error) {
	limit, offset = clampPage(limit, offset)
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Exercise{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count exercises: %w", err)
	}
	var exercises []models.Exercise
	if err := db.Order("name ASC").Limit(limit).Offset(offset).Find(&exercises).Error; err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	return &dto.ExerciseListResponse{Exercises: exercises, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *CatalogService) GetExercise(ctx context.Context, id uuid.UUID) (*models.Exercise, error) {
	return findExercise(s.db.WithContext(ctx), id)
}

func validateExercise(req *dto.ExerciseRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return invalidf("name is required")
	}
	if req.CaloriesBurnedPerHour < 0 {
		return invalidf("calories_burned_per_hour must not be negative")
	}
	return nil
}

func (s *CatalogService) CreateExercise(ctx context.Context, req *dto.ExerciseRequest) (*models.Exercise, error) {
	if err := validateExercise(req); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	name := strings.TrimSpace(req.Name)
	if err := ensureNameFree(db, &models.Exercise{}, name, uuid.Nil); err != nil {
		return nil, err
	}

	exercise := models.Exercise{
		Name:                  name,
		CaloriesBurnedPerHour: req.CaloriesBurnedPerHour,
		Type:                  req.Type,
	}
	if err := db.Create(&exercise).Error; err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}
	return &exercise, nil
}

func (s *CatalogService) UpdateExercise(ctx context.Context, id uuid.UUID, req *dto.ExerciseRequest) (*models.Exercise, error) {
	if err := validateExercise(req); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	exercise, err := findExercise(db, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if err := ensureNameFree(db, &models.Exercise{}, name, id); err != nil {
		return nil, err
	}

	exercise.Name = name
	exercise.CaloriesBurnedPerHour = req.CaloriesBurnedPerHour
	exercise.Type = req.Type
	if err := db.Save(exercise).Error; err != nil {
		return nil, fmt.Errorf("failed to update exercise: %w", err)
	}
	return exercise, nil
}

func (s *CatalogService) DeleteExercise(ctx context.Context, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	if _, err := findExercise(db, id); err != nil {
		return err
	}
	var refs int64
	if err := db.Model(&models.WorkoutLog{}).Where("exercise_id = ?", id).Count(&refs).Error; err != nil {
		return fmt.Errorf("failed to check exercise references: %w", err)
	}
	if refs > 0 {
		return ErrCatalogInUse
	}
	if err := db.Delete(&models.Exercise{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete exercise: %w", err)
	}
	return nil
}

// --- seeding ---

// UpsertFood creates the food or overwrites the one with the same name.
func (s *CatalogService) UpsertFood(ctx context.Context, req *dto.FoodRequest) (created bool, err error) {
	if err := validateFood(req); err != nil {
		return false, err
	}
	db := s.db.WithContext(ctx)

	var food models.Food
	err = db.Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(req.Name))).First(&food).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		_, err = s.CreateFood(ctx, req)
		return err == nil, err
	case err != nil:
		return false, fmt.Errorf("failed to look up food: %w", err)
	}
	_, err = s.UpdateFood(ctx, food.ID, req)
	return false, err
}

// UpsertExercise creates the exercise or overwrites the one with the same name.
func (s *CatalogService) UpsertExercise(ctx context.Context, req *dto.ExerciseRequest) (created bool, err error) {
	if err := validateExercise(req); err != nil {
		return false, err
	}
	db := s.db.WithContext(ctx)

	var exercise models.Exercise
	err = db.Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(req.Name))).First(&exercise).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		_, err = s.CreateExercise(ctx, req)
		return err == nil, err
	case err != nil:
		return false, fmt.Errorf("failed to look up exercise: %w", err)
	}
	_, err = s.UpdateExercise(ctx, exercise.ID, req)
	return false, err
}

func ensureNameFree(db *gorm.DB, model interface{}, name string, except uuid.UUID) error {
	var n int64
	q := db.Model(model).Where("LOWER(name) = ?", strings.ToLower(name))
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	if err := q.Count(&n).Error; err != nil {
		return fmt.Errorf("failed to check name: %w", err)
	}
	if n > 0 {
		return ErrCatalogNameTaken
	}
	return nil
}
