package estimation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestEstimate_ParsesResponse(t *testing.T) {
	t.Parallel()

	bodies := make(chan map[string]any, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/recommendations" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var got map[string]any
		_ = json.NewDecoder(r.Body).Decode(&got)
		bodies <- got
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"recommendedCalories": 2450.456, "macros": {"proteinGram": 150.2, "fatGram": 70, "carbGram": 300.9}, "note": "lift"}`))
	}))
	defer ts.Close()

	target := 75.0
	c := NewClient(ts.URL + "/")
	resp, err := c.Estimate(context.Background(), Request{
		WeightKg:       80,
		HeightCm:       180,
		Age:            30,
		Gender:         "male",
		ActivityLevel:  "MODERATE",
		TargetWeightKg: &target,
	})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if resp.RecommendedCalories != 2450.456 || resp.Macros.ProteinGram != 150.2 || resp.Note != "lift" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	got := <-bodies
	if got["weightKg"] != 80.0 || got["activityLevel"] != "MODERATE" || got["targetWeightKg"] != 75.0 {
		t.Fatalf("unexpected request body: %v", got)
	}
	if v, ok := got["goal"]; !ok || v != nil {
		t.Fatalf("goal should be sent as null, got %v", v)
	}
}

func TestEstimate_Failures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		status  int
		body    string
		invalid bool
	}{
		{"server error", http.StatusInternalServerError, `{"detail":"boom"}`, false},
		{"malformed json", http.StatusOK, `{"recommendedCalories":`, true},
		{"zero calories", http.StatusOK, `{"recommendedCalories": 0, "macros": {}}`, true},
		{"negative macros", http.StatusOK, `{"recommendedCalories": 2000, "macros": {"proteinGram": -1}}`, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer ts.Close()

			_, err := NewClient(ts.URL).Estimate(context.Background(), Request{})
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.invalid != errors.Is(err, ErrInvalidResponse) {
				t.Fatalf("errors.Is(ErrInvalidResponse) = %v, want %v (err: %v)", !tc.invalid, tc.invalid, err)
			}
		})
	}
}

func TestEstimate_RespectsContextDeadline(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewClient(ts.URL).Estimate(ctx, Request{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("estimate did not honour the deadline")
	}
}
