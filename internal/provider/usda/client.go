// Package usda searches USDA FoodData Central.
package usda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL  = "https://api.nal.usda.gov"
	defaultPageSize = 20
	searchDataTypes = "Foundation,SR Legacy"
)

// FoodData Central nutrient ids.
const (
	nutrientEnergyKcal   = 1008
	nutrientProtein      = 1003
	nutrientFat          = 1004
	nutrientCarbs        = 1005
	nutrientFiber        = 1079
	nutrientSugars       = 2000
	nutrientSaturatedFat = 1258
	nutrientCholesterol  = 1253
	nutrientSodium       = 1093
	nutrientPotassium    = 1092
	nutrientCalcium      = 1087
	nutrientIron         = 1089
)

var ErrMissingAPIKey = errors.New("missing USDA API key")

var detailNutrients = map[int64]string{
	nutrientFiber:        "fiber_g",
	nutrientSugars:       "sugar_g",
	nutrientSaturatedFat: "saturated_fat_g",
	nutrientCholesterol:  "cholesterol_mg",
	nutrientSodium:       "sodium_mg",
	nutrientPotassium:    "potassium_mg",
	nutrientCalcium:      "calcium_mg",
	nutrientIron:         "iron_mg",
}

// Food is a FoodData Central item normalised to per-100 g values. Macro
// fields are nil when the item does not report them.
type Food struct {
	FDCID    int64              `json:"fdc_id"`
	Name     string             `json:"name"`
	Calories *float64           `json:"calories"`
	Protein  *float64           `json:"protein"`
	Fat      *float64           `json:"fat"`
	Carbs    *float64           `json:"carbs"`
	Details  map[string]float64 `json:"details,omitempty"`
}

type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func (c *Client) Enabled() bool {
	return c != nil && strings.TrimSpace(c.APIKey) != ""
}

// Search runs a keyword search restricted to Foundation and SR Legacy data.
func (c *Client) Search(ctx context.Context, query string) ([]Food, error) {
	if !c.Enabled() {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("api_key", c.APIKey)
	params.Set("query", query)
	params.Set("pageSize", strconv.Itoa(defaultPageSize))
	params.Set("dataType", searchDataTypes)

	var parsed searchResponse
	if err := c.get(ctx, "/fdc/v1/foods/search", params, &parsed); err != nil {
		return nil, err
	}

	out := make([]Food, 0, len(parsed.Foods))
	for _, f := range parsed.Foods {
		out = append(out, normalize(f.FDCID, f.Description, f.FoodNutrients))
	}
	return out, nil
}

// Get fetches a single item by FoodData Central id.
func (c *Client) Get(ctx context.Context, fdcID int64) (Food, error) {
	if !c.Enabled() {
		return Food{}, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("api_key", c.APIKey)

	var parsed detailResponse
	path := "/fdc/v1/food/" + strconv.FormatInt(fdcID, 10)
	if err := c.get(ctx, path, params, &parsed); err != nil {
		return Food{}, err
	}

	nutrients := make([]searchNutrient, 0, len(parsed.FoodNutrients))
	for _, n := range parsed.FoodNutrients {
		nutrients = append(nutrients, searchNutrient{NutrientID: n.Nutrient.ID, Value: n.Amount})
	}
	return normalize(parsed.FDCID, parsed.Description, nutrients), nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create USDA request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute USDA request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read USDA response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("USDA request failed with status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode USDA response: %w", err)
	}
	return nil
}

func normalize(fdcID int64, description string, nutrients []searchNutrient) Food {
	out := Food{
		FDCID: fdcID,
		Name:  strings.TrimSpace(description),
	}
	for _, n := range nutrients {
		v := n.Value
		switch n.NutrientID {
		case nutrientEnergyKcal:
			out.Calories = &v
		case nutrientProtein:
			out.Protein = &v
		case nutrientFat:
			out.Fat = &v
		case nutrientCarbs:
			out.Carbs = &v
		default:
			if key, ok := detailNutrients[n.NutrientID]; ok {
				if out.Details == nil {
					out.Details = map[string]float64{}
				}
				out.Details[key] = v
			}
		}
	}
	return out
}

type searchResponse struct {
	Foods []searchFood `json:"foods"`
}

type searchFood struct {
	FDCID         int64            `json:"fdcId"`
	Description   string           `json:"description"`
	FoodNutrients []searchNutrient `json:"foodNutrients"`
}

type searchNutrient struct {
	NutrientID int64   `json:"nutrientId"`
	Value      float64 `json:"value"`
}

type detailResponse struct {
	FDCID         int64            `json:"fdcId"`
	Description   string           `json:"description"`
	FoodNutrients []detailNutrient `json:"foodNutrients"`
}

type detailNutrient struct {
	Nutrient struct {
		ID int64 `json:"id"`
	} `json:"nutrient"`
	Amount float64 `json:"amount"`
}
