package dto

import "github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/models"

type FoodRequest struct {
	Name        string  `json:"name"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Fat         float64 `json:"fat"`
	Carbs       float64 `json:"carbs"`
	PortionSize string  `json:"portion_size,omitempty"`
}

type ExerciseRequest struct {
	Name                  string  `json:"name"`
	CaloriesBurnedPerHour float64 `json:"calories_burned_per_hour"`
	Type                  string  `json:"type,omitempty"`
}

// FoodSearchResult is one row of a merged local + USDA search. ID is the
// local uuid or the FoodData Central id.
type FoodSearchResult struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Source   string             `json:"source"`
	Unit     string             `json:"unit"`
	Calories *float64           `json:"calories"`
	Protein  *float64           `json:"protein"`
	Fat      *float64           `json:"fat"`
	Carbs    *float64           `json:"carbs"`
	Details  map[string]float64 `json:"details,omitempty"`
}

type FoodSearchResponse struct {
	Query   string             `json:"query"`
	Results []FoodSearchResult `json:"results"`
}

type FoodListResponse struct {
	Foods  []models.Food `json:"foods"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

type ExerciseListResponse struct {
	Exercises []models.Exercise `json:"exercises"`
	Total     int64             `json:"total"`
	Limit     int               `json:"limit"`
	Offset    int               `json:"offset"`
}
