package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/ratelimit"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Handlers groups everything Setup mounts.
type Handlers struct {
	Auth            *handlers.AuthHandler
	Health          *handlers.HealthHandler
	Profile         *handlers.ProfileHandler
	Recommendations *handlers.RecommendationHandler
	Dashboard       *handlers.DashboardHandler
	Logs            *handlers.LogHandler
	Catalog         *handlers.CatalogHandler
	Calculator      *handlers.CalculatorHandler
}

// Setup mounts the API. limiterStorage may be nil for in-memory counters.
func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, h Handlers, limiterStorage fiber.Storage) {
	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api")
	api.Use(ratelimit.PerIP(cfg.RateLimitMax, time.Minute, limiterStorage))

	api.Get("/health", h.Health.Check)

	// Auth: public, with a stricter limit.
	auth := api.Group("/auth")
	auth.Use(ratelimit.PerIP(10, time.Minute, limiterStorage))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/google", h.Auth.GoogleSignIn)
	auth.Post("/apple", h.Auth.AppleSignIn)

	jwt := middleware.JWTProtected(cfg)
	admin := middleware.AdminRequired(db, cfg)

	auth.Post("/logout", jwt, h.Auth.Logout)
	auth.Get("/me", jwt, h.Auth.Me)
	auth.Delete("/account", jwt, h.Auth.DeleteAccount)
	auth.Post("/link-social", jwt, h.Auth.LinkSocial)

	profile := api.Group("/profile", jwt)
	profile.Get("/", h.Profile.Get)
	profile.Patch("/", h.Profile.Update)
	profile.Post("/picture", h.Profile.UploadPicture)

	recs := api.Group("/recommendations", jwt)
	recs.Post("/", h.Recommendations.Generate)
	recs.Get("/latest", h.Recommendations.Latest)

	api.Get("/dashboard/summary", jwt, h.Dashboard.Summary)

	meals := api.Group("/meal-logs", jwt)
	meals.Post("/", h.Logs.CreateMeal)
	meals.Get("/", h.Logs.ListMeals)
	meals.Get("/:id", h.Logs.GetMeal)
	meals.Patch("/:id", h.Logs.UpdateMeal)
	meals.Delete("/:id", h.Logs.DeleteMeal)

	workouts := api.Group("/workout-logs", jwt)
	workouts.Post("/", h.Logs.CreateWorkout)
	workouts.Get("/", h.Logs.ListWorkouts)
	workouts.Get("/:id", h.Logs.GetWorkout)
	workouts.Patch("/:id", h.Logs.UpdateWorkout)
	workouts.Delete("/:id", h.Logs.DeleteWorkout)

	// Catalog reads are public; writes need an admin.
	foods := api.Group("/foods")
	foods.Get("/", h.Catalog.ListFoods)
	foods.Get("/search", h.Catalog.SearchFoods)
	foods.Get("/usda/:fdcId", h.Catalog.GetUSDAFood)
	foods.Get("/:id", h.Catalog.GetFood)
	foods.Post("/", jwt, admin, h.Catalog.CreateFood)
	foods.Put("/:id", jwt, admin, h.Catalog.UpdateFood)
	foods.Delete("/:id", jwt, admin, h.Catalog.DeleteFood)

	exercises := api.Group("/exercises")
	exercises.Get("/", h.Catalog.ListExercises)
	exercises.Get("/:id", h.Catalog.GetExercise)
	exercises.Post("/", jwt, admin, h.Catalog.CreateExercise)
	exercises.Put("/:id", jwt, admin, h.Catalog.UpdateExercise)
	exercises.Delete("/:id", jwt, admin, h.Catalog.DeleteExercise)

	calc := api.Group("/calculator")
	calc.Get("/bmi", h.Calculator.BMI)
	calc.Get("/bmr", h.Calculator.BMR)
}
