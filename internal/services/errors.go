package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidInput marks request validation failures. Handlers return the
// wrapped message to the client with a 400.
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// parseDate accepts YYYY-MM-DD or RFC 3339.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, invalidf("date %q must be YYYY-MM-DD", s)
	}
	return t, nil
}

func normalizeGender(s string) (string, error) {
	switch g := strings.ToLower(strings.TrimSpace(s)); g {
	case "male", "female":
		return g, nil
	}
	return "", invalidf("gender must be male or female")
}
