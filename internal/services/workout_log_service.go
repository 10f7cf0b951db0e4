package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrExerciseNotFound   = errors.New("exercise not found")
	ErrWorkoutLogNotFound = errors.New("workout log not found")
)

// WorkoutCalories is the energy burned over durationMin minutes.
func WorkoutCalories(exercise *models.Exercise, durationMin int) float64 {
	return exercise.CaloriesBurnedPerHour / 60 * float64(durationMin)
}

type WorkoutLogService struct {
	db  *gorm.DB
	loc *time.Location
}

func NewWorkoutLogService(db *gorm.DB, loc *time.Location) *WorkoutLogService {
	if loc == nil {
		loc = time.UTC
	}
	return &WorkoutLogService{db: db, loc: loc}
}

func (s *WorkoutLogService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateWorkoutLogRequest) (*models.WorkoutLog, error) {
	if req.ExerciseID == uuid.Nil {
		return nil, invalidf("exercise_id is required")
	}
	if req.DurationMin < 1 {
		return nil, invalidf("duration_min must be at least 1")
	}

	db := s.db.WithContext(ctx)
	exercise, err := findExercise(db, req.ExerciseID)
	if err != nil {
		return nil, err
	}

	loggedAt := time.Now()
	if req.LoggedAt != nil {
		loggedAt = *req.LoggedAt
	}

	entry := models.WorkoutLog{
		UserID:         userID,
		ExerciseID:     exercise.ID,
		DurationMin:    req.DurationMin,
		CaloriesBurned: WorkoutCalories(exercise, req.DurationMin),
		LoggedAt:       loggedAt.UTC(),
	}
	if err := db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create workout log: %w", err)
	}
	entry.Exercise = *exercise
	return &entry, nil
}

func (s *WorkoutLogService) List(ctx context.Context, userID uuid.UUID, day *time.Time) ([]models.WorkoutLog, error) {
	q := s.db.WithContext(ctx).Scopes(models.OwnedBy(userID)).Preload("Exercise")
	if day != nil {
		start, end := DayWindow(*day, s.loc)
		q = q.Scopes(models.LoggedBetween(start, end))
	}

	var entries []models.WorkoutLog
	if err := q.Order("logged_at DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list workout logs: %w", err)
	}
	return entries, nil
}

func (s *WorkoutLogService) Get(ctx context.Context, userID, id uuid.UUID) (*models.WorkoutLog, error) {
	var entry models.WorkoutLog
	err := s.db.WithContext(ctx).Scopes(models.OwnedBy(userID)).Preload("Exercise").First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkoutLogNotFound
		}
		return nil, fmt.Errorf("failed to load workout log: %w", err)
	}
	return &entry, nil
}

func (s *WorkoutLogService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.UpdateWorkoutLogRequest) (*models.WorkoutLog, error) {
	entry, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	recompute := false
	if req.DurationMin != nil {
		if *req.DurationMin < 1 {
			return nil, invalidf("duration_min must be at least 1")
		}
		recompute = *req.DurationMin != entry.DurationMin
		entry.DurationMin = *req.DurationMin
	}
	if req.ExerciseID != nil && *req.ExerciseID != entry.ExerciseID {
		exercise, err := findExercise(db, *req.ExerciseID)
		if err != nil {
			return nil, err
		}
		entry.ExerciseID = exercise.ID
		entry.Exercise = *exercise
		recompute = true
	}
	if req.LoggedAt != nil {
		entry.LoggedAt = req.LoggedAt.UTC()
	}

	if recompute {
		if entry.Exercise.ID != entry.ExerciseID {
			return nil, ErrExerciseNotFound
		}
		entry.CaloriesBurned = WorkoutCalories(&entry.Exercise, entry.DurationMin)
	}

	err = db.Model(entry).Select("ExerciseID", "DurationMin", "CaloriesBurned", "LoggedAt", "UpdatedAt").Updates(entry).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update workout log: %w", err)
	}
	return entry, nil
}

func (s *WorkoutLogService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Scopes(models.OwnedBy(userID)).Delete(&models.WorkoutLog{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete workout log: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrWorkoutLogNotFound
	}
	return nil
}

func findExercise(db *gorm.DB, id uuid.UUID) (*models.Exercise, error) {
	var exercise models.Exercise
	if err := db.First(&exercise, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("failed to load exercise: %w", err)
	}
	return &exercise, nil
}
