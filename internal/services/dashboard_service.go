package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/calculator"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// DefaultTargetCalories applies when the user has no recommendation yet.
const DefaultTargetCalories = 2000.0

// DayWindow returns the inclusive bounds of date's calendar day in loc.
func DayWindow(date time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := date.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

type DashboardService struct {
	db  *gorm.DB
	loc *time.Location
}

func NewDashboardService(db *gorm.DB, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{db: db, loc: loc}
}

func (s *DashboardService) Location() *time.Location { return s.loc }

// DailySummary reduces one day of meal and workout logs against the user's
// latest recommendation. The four reads run concurrently; any failure fails
// the whole summary.
func (s *DashboardService) DailySummary(ctx context.Context, userID uuid.UUID, date time.Time) (*dto.DailySummary, error) {
	start, end := DayWindow(date, s.loc)

	var (
		meals    []models.MealLog
		workouts []models.WorkoutLog
		profile  *models.UserProfile
		rec      *models.Recommendation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := s.db.WithContext(gctx).
			Scopes(models.OwnedBy(userID), models.LoggedBetween(start, end)).
			Preload("Food").
			Find(&meals).Error
		if err != nil {
			return fmt.Errorf("load meal logs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := s.db.WithContext(gctx).
			Scopes(models.OwnedBy(userID), models.LoggedBetween(start, end)).
			Find(&workouts).Error
		if err != nil {
			return fmt.Errorf("load workout logs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var p models.UserProfile
		err := s.db.WithContext(gctx).Scopes(models.OwnedBy(userID)).First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		profile = &p
		return nil
	})
	g.Go(func() error {
		var err error
		rec, err = latestRecommendation(s.db.WithContext(gctx), userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summarize(start, meals, workouts, profile, rec), nil
}

func summarize(day time.Time, meals []models.MealLog, workouts []models.WorkoutLog, profile *models.UserProfile, rec *models.Recommendation) *dto.DailySummary {
	var consumed, protein, fat, carbs float64
	for _, m := range meals {
		consumed += m.TotalCalories
		// Macros follow the catalog as it is now; calories stay as logged.
		ratio := m.Quantity / 100
		protein += m.Food.Protein * ratio
		fat += m.Food.Fat * ratio
		carbs += m.Food.Carbs * ratio
	}

	var burned float64
	for _, w := range workouts {
		burned += w.CaloriesBurned
	}

	net := consumed - burned
	out := &dto.DailySummary{
		Date:             day.Format(time.DateOnly),
		CaloriesConsumed: calculator.Round2(consumed),
		CaloriesBurned:   calculator.Round2(burned),
		NetCalories:      calculator.Round2(net),
		TargetCalories:   DefaultTargetCalories,
		TotalProtein:     calculator.Round1(protein),
		TotalFat:         calculator.Round1(fat),
		TotalCarbs:       calculator.Round1(carbs),
	}
	if profile != nil {
		out.BMI = profile.BMI
	}
	if rec != nil {
		out.TargetCalories = rec.RecommendedCalories
		out.TargetProtein = &rec.RecommendedProtein
		out.TargetFat = &rec.RecommendedFat
		out.TargetCarbs = &rec.RecommendedCarbs
	}
	out.RemainingCalories = calculator.Round2(out.TargetCalories - net)
	return out
}
