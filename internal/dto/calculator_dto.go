package dto

type BMIResponse struct {
	WeightKg float64 `json:"weight_kg"`
	HeightCm float64 `json:"height_cm"`
	BMI      float64 `json:"bmi"`
}

type BMRResponse struct {
	Sex           string   `json:"sex"`
	WeightKg      float64  `json:"weight_kg"`
	HeightCm      float64  `json:"height_cm"`
	Age           int      `json:"age"`
	BMR           float64  `json:"bmr"`
	ActivityLevel *string  `json:"activity_level,omitempty"`
	TDEE          *float64 `json:"tdee,omitempty"`
}
