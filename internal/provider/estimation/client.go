// Package estimation calls the external calorie estimation service.
package estimation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrInvalidResponse = errors.New("estimation service returned an invalid response")

// Request is the biometric snapshot sent to the service.
type Request struct {
	WeightKg       float64  `json:"weightKg"`
	HeightCm       float64  `json:"heightCm"`
	Age            int      `json:"age"`
	Gender         string   `json:"gender"`
	ActivityLevel  string   `json:"activityLevel"`
	TargetWeightKg *float64 `json:"targetWeightKg"`
	Goal           *string  `json:"goal"`
}

type Macros struct {
	ProteinGram float64 `json:"proteinGram"`
	FatGram     float64 `json:"fatGram"`
	CarbGram    float64 `json:"carbGram"`
}

type Response struct {
	RecommendedCalories float64 `json:"recommendedCalories"`
	Macros              Macros  `json:"macros"`
	Note                string  `json:"note"`
}

// Validate rejects responses that cannot be stored as a recommendation.
func (r *Response) Validate() error {
	if r.RecommendedCalories <= 0 {
		return fmt.Errorf("%w: recommendedCalories must be positive", ErrInvalidResponse)
	}
	if r.Macros.ProteinGram < 0 || r.Macros.FatGram < 0 || r.Macros.CarbGram < 0 {
		return fmt.Errorf("%w: negative macro grams", ErrInvalidResponse)
	}
	return nil
}

// Estimator produces a calorie and macro estimate for a profile.
type Estimator interface {
	Estimate(ctx context.Context, req Request) (*Response, error)
}

// Client is the HTTP Estimator. Timeouts come from the caller's context.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Estimate(ctx context.Context, in Request) (*Response, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal estimation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/recommendations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create estimation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("estimation request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read estimation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("estimation service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}
