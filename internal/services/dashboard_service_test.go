package services

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/models"
)

func TestDayWindow(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	// 20:00 UTC on Jan 1 is already Jan 2 in UTC+7.
	start, end := DayWindow(time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC), loc)

	wantStart := time.Date(2024, 1, 2, 0, 0, 0, 0, loc)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
	if !end.Equal(wantStart.Add(24*time.Hour - time.Nanosecond)) {
		t.Errorf("end = %v", end)
	}
}

func TestDailySummary_Scenario(t *testing.T) {
	db := newDB(t)
	u := createUser(t, db, "dash@example.com")
	createProfile(t, db, u, 70, 175, nil, "LIGHT")
	food := createFood(t, db, "Test Soup", 50, 2, 1, 8)
	exercise := createExercise(t, db, "Rowing", 300)

	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	at := day.Add(9 * time.Hour)

	meals := NewMealLogService(db, time.UTC)
	workouts := NewWorkoutLogService(db, time.UTC)
	if _, err := meals.Create(bg, u.ID, &dto.CreateMealLogRequest{FoodID: food.ID, Quantity: 200, MealType: "lunch", LoggedAt: &at}); err != nil {
		t.Fatalf("create meal: %v", err)
	}
	if _, err := workouts.Create(bg, u.ID, &dto.CreateWorkoutLogRequest{ExerciseID: exercise.ID, DurationMin: 30, LoggedAt: &at}); err != nil {
		t.Fatalf("create workout: %v", err)
	}

	svc := NewDashboardService(db, time.UTC)
	got, err := svc.DailySummary(bg, u.ID, day)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if got.Date != "2024-03-10" {
		t.Errorf("date = %s", got.Date)
	}
	if got.CaloriesConsumed != 100 || got.CaloriesBurned != 150 || got.NetCalories != -50 {
		t.Errorf("consumed/burned/net = %v/%v/%v, want 100/150/-50", got.CaloriesConsumed, got.CaloriesBurned, got.NetCalories)
	}
	if got.TargetCalories != DefaultTargetCalories || got.RemainingCalories != 2050 {
		t.Errorf("target/remaining = %v/%v, want 2000/2050", got.TargetCalories, got.RemainingCalories)
	}
	if got.TotalProtein != 4 || got.TotalFat != 2 || got.TotalCarbs != 16 {
		t.Errorf("macros = %v/%v/%v, want 4/2/16", got.TotalProtein, got.TotalFat, got.TotalCarbs)
	}
	if got.BMI == nil || *got.BMI != 22.86 {
		t.Errorf("bmi = %v, want 22.86", got.BMI)
	}
	if got.TargetProtein != nil || got.TargetFat != nil || got.TargetCarbs != nil {
		t.Errorf("macro targets should be null without a recommendation")
	}
}

func TestDailySummary_CaloriesFrozenMacrosLive(t *testing.T) {
	db := newDB(t)
	u := createUser(t, db, "freeze@example.com")
	food := createFood(t, db, "Oats", 50, 10, 5, 60)

	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	at := day.Add(8 * time.Hour)
	meals := NewMealLogService(db, time.UTC)
	entry, err := meals.Create(bg, u.ID, &dto.CreateMealLogRequest{FoodID: food.ID, Quantity: 200, MealType: "breakfast", LoggedAt: &at})
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}

	catalog := NewCatalogService(db, nil)
	if _, err := catalog.UpdateFood(bg, food.ID, &dto.FoodRequest{Name: "Oats", Calories: 400, Protein: 20, Fat: 5, Carbs: 60}); err != nil {
		t.Fatalf("update food: %v", err)
	}

	stored, err := meals.Get(bg, u.ID, entry.ID)
	if err != nil {
		t.Fatalf("get meal: %v", err)
	}
	if stored.TotalCalories != 100 {
		t.Errorf("stored total = %v, want 100 (frozen)", stored.TotalCalories)
	}

	got, err := NewDashboardService(db, time.UTC).DailySummary(bg, u.ID, day)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got.CaloriesConsumed != 100 {
		t.Errorf("consumed = %v, want frozen 100", got.CaloriesConsumed)
	}
	if got.TotalProtein != 40 {
		t.Errorf("protein = %v, want live 40 (20 g/100 g x 200 g)", got.TotalProtein)
	}
}

func TestDailySummary_UsesRecommendationAndWindow(t *testing.T) {
	db := newDB(t)
	u := createUser(t, db, "window@example.com")
	other := createUser(t, db, "other@example.com")
	createProfile(t, db, u, 70, 175, nil, "LIGHT")
	food := createFood(t, db, "Bread", 250, 9, 3, 49)

	rec := models.Recommendation{
		UserID:              u.ID,
		RecommendedCalories: 2400,
		RecommendedProtein:  180,
		RecommendedFat:      80,
		RecommendedCarbs:    240,
		Source:              models.SourceFallback,
		GeneratedAt:         time.Now(),
	}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("create recommendation: %v", err)
	}

	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	meals := NewMealLogService(db, time.UTC)
	addMeal := func(owner *models.User, at time.Time, qty float64) {
		t.Helper()
		if _, err := meals.Create(bg, owner.ID, &dto.CreateMealLogRequest{FoodID: food.ID, Quantity: qty, MealType: "snack", LoggedAt: &at}); err != nil {
			t.Fatalf("create meal: %v", err)
		}
	}
	addMeal(u, day, 100)                                   // first instant of the day
	addMeal(u, day.Add(24*time.Hour-time.Millisecond), 40) // last millisecond
	addMeal(u, day.Add(-time.Second), 100)                 // previous day
	addMeal(u, day.Add(24*time.Hour), 100)                 // next day
	addMeal(other, day.Add(time.Hour), 100)                // someone else

	got, err := NewDashboardService(db, time.UTC).DailySummary(bg, u.ID, day.Add(15*time.Hour))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got.CaloriesConsumed != 350 {
		t.Errorf("consumed = %v, want 350 (250 + 100)", got.CaloriesConsumed)
	}
	if got.TargetCalories != 2400 || got.RemainingCalories != 2050 {
		t.Errorf("target/remaining = %v/%v, want 2400/2050", got.TargetCalories, got.RemainingCalories)
	}
	if got.TargetProtein == nil || *got.TargetProtein != 180 || *got.TargetFat != 80 || *got.TargetCarbs != 240 {
		t.Errorf("macro targets not taken from recommendation: %+v", got)
	}
}
