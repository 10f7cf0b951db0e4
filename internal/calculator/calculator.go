// Package calculator holds the biometric formulas used by recommendations
// and the dashboard. Everything here is pure.
package calculator

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type ActivityLevel string

const (
	Sedentary  ActivityLevel = "SEDENTARY"
	Light      ActivityLevel = "LIGHT"
	Moderate   ActivityLevel = "MODERATE"
	Active     ActivityLevel = "ACTIVE"
	VeryActive ActivityLevel = "VERY_ACTIVE"
)

// ActivityLevels lists every level from least to most active.
var ActivityLevels = []ActivityLevel{Sedentary, Light, Moderate, Active, VeryActive}

var activityMultipliers = map[ActivityLevel]float64{
	Sedentary:  1.2,
	Light:      1.375,
	Moderate:   1.55,
	Active:     1.725,
	VeryActive: 1.9,
}

func (a ActivityLevel) Valid() bool {
	_, ok := activityMultipliers[a]
	return ok
}

// Multiplier returns the TDEE factor for the level, or 0 for an unknown level.
func (a ActivityLevel) Multiplier() float64 {
	return activityMultipliers[a]
}

// IsHigh reports whether the level counts as high activity for macro policy.
func (a ActivityLevel) IsHigh() bool {
	return a == Active || a == VeryActive
}

func ParseActivityLevel(s string) (ActivityLevel, error) {
	level := ActivityLevel(strings.ToUpper(strings.TrimSpace(s)))
	if !level.Valid() {
		return "", fmt.Errorf("invalid activity level %q: must be one of SEDENTARY, LIGHT, MODERATE, ACTIVE, VERY_ACTIVE", s)
	}
	return level, nil
}

type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

// ParseSex maps a stored gender to a formula branch. Anything that is not
// "male" uses the female constant.
func ParseSex(s string) Sex {
	if strings.EqualFold(strings.TrimSpace(s), string(Male)) {
		return Male
	}
	return Female
}

// BMR is the Mifflin-St Jeor basal metabolic rate in kcal/day.
func BMR(sex Sex, weightKg, heightCm float64, ageYears int) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	if sex == Male {
		return bmr + 5
	}
	return bmr - 161
}

// TDEE scales a BMR by the activity multiplier.
func TDEE(bmr float64, level ActivityLevel) float64 {
	return bmr * level.Multiplier()
}

// BMI returns weight / height_m^2 rounded to 2 decimals, or nil when either
// input is missing or not positive.
func BMI(weightKg, heightCm *float64) *float64 {
	if weightKg == nil || heightCm == nil || *weightKg <= 0 || *heightCm <= 0 {
		return nil
	}
	heightM := *heightCm / 100
	bmi := Round2(*weightKg / (heightM * heightM))
	return &bmi
}

// AgeOn returns whole years elapsed between dob and now.
func AgeOn(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Before(dob.AddDate(age, 0, 0)) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

func Round1(v float64) float64 { return roundTo(v, 10) }

func Round2(v float64) float64 { return roundTo(v, 100) }

func roundTo(v, scale float64) float64 {
	return math.Round(v*scale) / scale
}
