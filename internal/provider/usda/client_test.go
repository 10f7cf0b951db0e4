package usda

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestSearchParsesNutrientIDs(t *testing.T) {
	t.Parallel()

	queries := make(chan url.Values, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fdc/v1/foods/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		queries <- r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "foods": [
    {
      "fdcId": 171705,
      "description": "Rice, white, cooked ",
      "foodNutrients": [
        {"nutrientId": 1008, "value": 130},
        {"nutrientId": 1003, "value": 2.7},
        {"nutrientId": 1004, "value": 0.3},
        {"nutrientId": 1005, "value": 28.2},
        {"nutrientId": 1079, "value": 0.4},
        {"nutrientId": 9999, "value": 1}
      ]
    },
    {"fdcId": 2, "description": "Water", "foodNutrients": []}
  ]
}`))
	}))
	defer ts.Close()

	c := &Client{APIKey: "demo", BaseURL: ts.URL, HTTPClient: ts.Client()}

	foods, err := c.Search(context.Background(), "rice")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	q := <-queries
	gotQuery, gotType, gotKey, gotPageSize := q.Get("query"), q.Get("dataType"), q.Get("api_key"), q.Get("pageSize")
	if gotQuery != "rice" || gotType != "Foundation,SR Legacy" || gotKey != "demo" || gotPageSize != "20" {
		t.Fatalf("unexpected params query=%q dataType=%q key=%q pageSize=%q", gotQuery, gotType, gotKey, gotPageSize)
	}
	if len(foods) != 2 {
		t.Fatalf("expected 2 foods, got %d", len(foods))
	}

	rice := foods[0]
	if rice.FDCID != 171705 || rice.Name != "Rice, white, cooked" {
		t.Fatalf("unexpected item: %+v", rice)
	}
	if rice.Calories == nil || *rice.Calories != 130 {
		t.Fatalf("calories = %v, want 130", rice.Calories)
	}
	if *rice.Protein != 2.7 || *rice.Fat != 0.3 || *rice.Carbs != 28.2 {
		t.Fatalf("unexpected macros: %v %v %v", *rice.Protein, *rice.Fat, *rice.Carbs)
	}
	if rice.Details["fiber_g"] != 0.4 {
		t.Fatalf("fiber = %v, want 0.4", rice.Details["fiber_g"])
	}
	if len(rice.Details) != 1 {
		t.Fatalf("unknown nutrient ids should be ignored, got %v", rice.Details)
	}

	if foods[1].Calories != nil {
		t.Fatalf("missing nutrient should be nil, got %v", *foods[1].Calories)
	}
}

func TestSearchWithoutKey(t *testing.T) {
	t.Parallel()

	c := &Client{}
	if _, err := c.Search(context.Background(), "rice"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestSearchNon2xx(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer ts.Close()

	c := &Client{APIKey: "bad", BaseURL: ts.URL, HTTPClient: ts.Client()}
	if _, err := c.Search(context.Background(), "rice"); err == nil {
		t.Fatal("expected error for 403 response")
	}
}

func TestGetParsesDetailShape(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fdc/v1/food/171705" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
  "fdcId": 171705,
  "description": "Rice, white, cooked",
  "foodNutrients": [
    {"nutrient": {"id": 1008}, "amount": 130},
    {"nutrient": {"id": 1003}, "amount": 2.7}
  ]
}`))
	}))
	defer ts.Close()

	c := &Client{APIKey: "demo", BaseURL: ts.URL, HTTPClient: ts.Client()}
	food, err := c.Get(context.Background(), 171705)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if food.Calories == nil || *food.Calories != 130 || food.Protein == nil || *food.Protein != 2.7 {
		t.Fatalf("unexpected food: %+v", food)
	}
	if food.Fat != nil {
		t.Fatalf("fat should be nil")
	}
}
