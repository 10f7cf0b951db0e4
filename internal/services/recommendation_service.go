package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/calculator"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/provider/estimation"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrProfileIncomplete      = errors.New("profile is incomplete: height, weight, activity level and date of birth are required")
	ErrRecommendationNotFound = errors.New("no recommendation generated yet")
)

// Estimate is a calorie and macro plan tagged with the path that produced it.
type Estimate struct {
	Source   string
	Calories float64
	Protein  float64
	Fat      float64
	Carbs    float64
	Note     string
}

type RecommendationService struct {
	db        *gorm.DB
	estimator estimation.Estimator
	timeout   time.Duration
	now       func() time.Time
}

// NewRecommendationService builds the engine. A nil estimator disables the
// primary path.
func NewRecommendationService(db *gorm.DB, estimator estimation.Estimator, timeout time.Duration) *RecommendationService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RecommendationService{
		db:        db,
		estimator: estimator,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Generate computes a fresh recommendation for the user and stores it over
// the previous one.
func (s *RecommendationService) Generate(ctx context.Context, userID uuid.UUID) (*models.Recommendation, error) {
	in, err := s.planInput(ctx, userID)
	if err != nil {
		return nil, err
	}

	est := s.estimate(ctx, in)
	slog.Info("recommendation generated", "user_id", userID, "source", est.Source, "calories", est.Calories)

	return s.save(ctx, userID, est)
}

func (s *RecommendationService) planInput(ctx context.Context, userID uuid.UUID) (calculator.PlanInput, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return calculator.PlanInput{}, ErrProfileIncomplete
		}
		return calculator.PlanInput{}, fmt.Errorf("failed to load user: %w", err)
	}

	var profile models.UserProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return calculator.PlanInput{}, ErrProfileIncomplete
		}
		return calculator.PlanInput{}, fmt.Errorf("failed to load profile: %w", err)
	}

	if user.DateOfBirth == nil || profile.HeightCm == nil || profile.WeightKg == nil || profile.ActivityLevel == nil {
		return calculator.PlanInput{}, ErrProfileIncomplete
	}
	level, err := calculator.ParseActivityLevel(*profile.ActivityLevel)
	if err != nil {
		return calculator.PlanInput{}, ErrProfileIncomplete
	}

	sex := calculator.Female
	if user.Gender != nil {
		sex = calculator.ParseSex(*user.Gender)
	}

	return calculator.PlanInput{
		Sex:            sex,
		WeightKg:       *profile.WeightKg,
		HeightCm:       *profile.HeightCm,
		Age:            calculator.AgeOn(*user.DateOfBirth, s.now()),
		Activity:       level,
		TargetWeightKg: profile.TargetWeightKg,
	}, nil
}

// estimate tries the external estimator first and falls back to the local
// plan on any failure. It never returns an error.
func (s *RecommendationService) estimate(ctx context.Context, in calculator.PlanInput) Estimate {
	if s.estimator != nil {
		est, err := s.primary(ctx, in)
		if err == nil {
			return est
		}
		slog.Warn("estimation service unavailable, using local fallback", "error", err)
	}
	return fallback(in)
}

func (s *RecommendationService) primary(ctx context.Context, in calculator.PlanInput) (Estimate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.estimator.Estimate(ctx, estimation.Request{
		WeightKg:       in.WeightKg,
		HeightCm:       in.HeightCm,
		Age:            in.Age,
		Gender:         string(in.Sex),
		ActivityLevel:  string(in.Activity),
		TargetWeightKg: in.TargetWeightKg,
	})
	if err != nil {
		return Estimate{}, err
	}
	if err := resp.Validate(); err != nil {
		return Estimate{}, err
	}

	note := resp.Note
	if note == "" {
		note = calculator.ExerciseNote(calculator.GoalMaintain, false)
	}
	return Estimate{
		Source:   models.SourcePrimary,
		Calories: calculator.Round2(resp.RecommendedCalories),
		Protein:  calculator.Round1(resp.Macros.ProteinGram),
		Fat:      calculator.Round1(resp.Macros.FatGram),
		Carbs:    calculator.Round1(resp.Macros.CarbGram),
		Note:     note,
	}, nil
}

func fallback(in calculator.PlanInput) Estimate {
	plan := calculator.BuildPlan(in)
	return Estimate{
		Source:   models.SourceFallback,
		Calories: plan.Calories,
		Protein:  plan.Protein,
		Fat:      plan.Fat,
		Carbs:    plan.Carbs,
		Note:     plan.Note,
	}
}

// save writes the user's single recommendation row. The unique index on
// user_id turns concurrent first inserts into an update.
func (s *RecommendationService) save(ctx context.Context, userID uuid.UUID, est Estimate) (*models.Recommendation, error) {
	db := s.db.WithContext(ctx)
	now := s.now()

	row := models.Recommendation{
		UserID:              userID,
		RecommendedCalories: est.Calories,
		RecommendedProtein:  est.Protein,
		RecommendedFat:      est.Fat,
		RecommendedCarbs:    est.Carbs,
		RecommendedExercise: est.Note,
		Source:              est.Source,
		GeneratedAt:         now,
	}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"recommended_calories",
			"recommended_protein",
			"recommended_fat",
			"recommended_carbs",
			"recommended_exercise",
			"source",
			"generated_at",
			"updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save recommendation: %w", err)
	}

	// On conflict the row keeps its original id, so read it back.
	rec, err := latestRecommendation(db, userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("failed to save recommendation: row for user %s missing after upsert", userID)
	}
	return rec, nil
}

func (s *RecommendationService) Latest(ctx context.Context, userID uuid.UUID) (*models.Recommendation, error) {
	rec, err := latestRecommendation(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrRecommendationNotFound
	}
	return rec, nil
}

// latestRecommendation returns nil without error when the user has none.
func latestRecommendation(db *gorm.DB, userID uuid.UUID) (*models.Recommendation, error) {
	var rec models.Recommendation
	err := db.Where("user_id = ?", userID).Order("generated_at DESC").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendation: %w", err)
	}
	return &rec, nil
}
