package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaultsAndOverrides(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRY", "bogus")
	t.Setenv("ML_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_MAX", "-5")
	t.Setenv("LOG_RETENTION_DAYS", "7")
	t.Setenv("DB_NAME", "")

	cfg := Load()
	if cfg.JWTAccessExpiry != 15*time.Minute {
		t.Errorf("JWTAccessExpiry = %v, want fallback 15m", cfg.JWTAccessExpiry)
	}
	if cfg.MLTimeout != 3*time.Second {
		t.Errorf("MLTimeout = %v, want 3s", cfg.MLTimeout)
	}
	if cfg.RateLimitMax != 60 {
		t.Errorf("RateLimitMax = %d, want fallback 60", cfg.RateLimitMax)
	}
	if cfg.LogRetentionDays != 7 {
		t.Errorf("LogRetentionDays = %d, want 7", cfg.LogRetentionDays)
	}
	if cfg.DBName != "nutritrack_db" {
		t.Errorf("DBName = %q", cfg.DBName)
	}
}

func TestSplitCSV(t *testing.T) {
	cases := map[string][]string{
		"":                nil,
		"a":               {"a"},
		" a , ,b ,":       {"a", "b"},
		"x@y.com,z@y.com": {"x@y.com", "z@y.com"},
	}
	for in, want := range cases {
		got := SplitCSV(in)
		if len(got) == 0 && len(want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("SplitCSV(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestPublicBaseURL(t *testing.T) {
	c := &Config{Port: "8080"}
	if got := c.PublicBaseURL(); got != "http://localhost:8080" {
		t.Errorf("default base = %q", got)
	}
	c.AppURL = "https://api.example.com/"
	if got := c.PublicBaseURL(); got != "https://api.example.com" {
		t.Errorf("base = %q", got)
	}
}

func TestLocation(t *testing.T) {
	if loc := (&Config{TimeZone: "Europe/Istanbul"}).Location(); loc.String() != "Europe/Istanbul" {
		t.Errorf("location = %v", loc)
	}
	if loc := (&Config{TimeZone: "Mars/Olympus"}).Location(); loc != time.UTC {
		t.Errorf("unknown zone = %v, want UTC", loc)
	}
}
