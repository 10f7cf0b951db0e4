// Package seed loads the built-in food and exercise catalog.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/services"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type Food struct {
	Name        string  `yaml:"name"`
	Calories    float64 `yaml:"calories"`
	Protein     float64 `yaml:"protein"`
	Fat         float64 `yaml:"fat"`
	Carbs       float64 `yaml:"carbs"`
	PortionSize string  `yaml:"portion_size"`
}

type Exercise struct {
	Name                  string  `yaml:"name"`
	CaloriesBurnedPerHour float64 `yaml:"calories_burned_per_hour"`
	Type                  string  `yaml:"type"`
}

type Catalog struct {
	Foods     []Food     `yaml:"foods"`
	Exercises []Exercise `yaml:"exercises"`
}

// Report counts what a run changed.
type Report struct {
	FoodsCreated     int
	FoodsUpdated     int
	ExercisesCreated int
	ExercisesUpdated int
}

// Parse decodes a catalog file and rejects unnamed or repeated entries.
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	foods := make(map[string]bool, len(cat.Foods))
	for i, f := range cat.Foods {
		key := strings.ToLower(strings.TrimSpace(f.Name))
		if key == "" {
			return nil, fmt.Errorf("food #%d has no name", i+1)
		}
		if foods[key] {
			return nil, fmt.Errorf("food %q listed twice", f.Name)
		}
		foods[key] = true
	}
	exercises := make(map[string]bool, len(cat.Exercises))
	for i, e := range cat.Exercises {
		key := strings.ToLower(strings.TrimSpace(e.Name))
		if key == "" {
			return nil, fmt.Errorf("exercise #%d has no name", i+1)
		}
		if exercises[key] {
			return nil, fmt.Errorf("exercise %q listed twice", e.Name)
		}
		exercises[key] = true
	}
	return &cat, nil
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Run upserts every entry by name, so running it again only refreshes values.
func Run(ctx context.Context, catalog *services.CatalogService, cat *Catalog) (Report, error) {
	var r Report

	for _, f := range cat.Foods {
		created, err := catalog.UpsertFood(ctx, &dto.FoodRequest{
			Name:        f.Name,
			Calories:    f.Calories,
			Protein:     f.Protein,
			Fat:         f.Fat,
			Carbs:       f.Carbs,
			PortionSize: f.PortionSize,
		})
		if err != nil {
			return r, fmt.Errorf("seed food %q: %w", f.Name, err)
		}
		if created {
			r.FoodsCreated++
		} else {
			r.FoodsUpdated++
		}
	}

	for _, e := range cat.Exercises {
		created, err := catalog.UpsertExercise(ctx, &dto.ExerciseRequest{
			Name:                  e.Name,
			CaloriesBurnedPerHour: e.CaloriesBurnedPerHour,
			Type:                  e.Type,
		})
		if err != nil {
			return r, fmt.Errorf("seed exercise %q: %w", e.Name, err)
		}
		if created {
			r.ExercisesCreated++
		} else {
			r.ExercisesUpdated++
		}
	}

	slog.Info("catalog seeded",
		"foods_created", r.FoodsCreated, "foods_updated", r.FoodsUpdated,
		"exercises_created", r.ExercisesCreated, "exercises_updated", r.ExercisesUpdated)
	return r, nil
}
