package handlers

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/provider/usda"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var statusByError = []struct {
	err    error
	status int
}{
	{services.ErrInvalidInput, fiber.StatusBadRequest},
	{services.ErrPasswordRequired, fiber.StatusBadRequest},
	{services.ErrInvalidPicture, fiber.StatusBadRequest},
	{services.ErrUnsupportedProvider, fiber.StatusBadRequest},

	{services.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{services.ErrInvalidToken, fiber.StatusUnauthorized},
	{services.ErrSocialVerification, fiber.StatusUnauthorized},

	{services.ErrUserNotFound, fiber.StatusNotFound},
	{services.ErrProfileNotFound, fiber.StatusNotFound},
	{services.ErrProfileIncomplete, fiber.StatusNotFound},
	{services.ErrRecommendationNotFound, fiber.StatusNotFound},
	{services.ErrFoodNotFound, fiber.StatusNotFound},
	{services.ErrExerciseNotFound, fiber.StatusNotFound},
	{services.ErrMealLogNotFound, fiber.StatusNotFound},
	{services.ErrWorkoutLogNotFound, fiber.StatusNotFound},

	{services.ErrEmailTaken, fiber.StatusConflict},
	{services.ErrSocialLinked, fiber.StatusConflict},
	{services.ErrCatalogNameTaken, fiber.StatusConflict},
	{services.ErrCatalogInUse, fiber.StatusConflict},

	{usda.ErrMissingAPIKey, fiber.StatusServiceUnavailable},
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// respondError maps a service error to its HTTP status. Unknown errors are
// logged and reported as a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return errorJSON(c, m.status, err.Error())
		}
	}

	slog.Error("request failed",
		"component", "http",
		"request_id", requestID(c),
		"action", c.Method()+" "+c.Route().Path,
		"error", err.Error(),
	)
	return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

func invalidBody(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
}

func unauthorized(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
}

// userID reads the authenticated user once; handlers pass it explicitly to
// every service call.
func userID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := middleware.CurrentUserID(c)
	return id, err == nil
}

func pathUUID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func invalidID(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusBadRequest, "Invalid id")
}

// queryDate parses ?date=YYYY-MM-DD in loc. ok is false when the parameter
// is absent.
func queryDate(c *fiber.Ctx, loc *time.Location) (t time.Time, ok bool, err error) {
	raw := c.Query("date")
	if raw == "" {
		return time.Time{}, false, nil
	}
	t, err = time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

func queryInt(c *fiber.Ctx, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

// ErrorHandler is the app-level fallback for errors no handler answered,
// including fiber's own 404/405. 5xx details are logged, never returned.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("unhandled server error",
			"component", "http",
			"request_id", requestID(c),
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		)
		message = "Internal server error"
	}
	return errorJSON(c, code, message)
}
