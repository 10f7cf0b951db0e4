package calculator

import (
	"math"
	"testing"
	"time"
)

func ptr(v float64) *float64 { return &v }

func TestBMR_MatchesMifflinStJeor(t *testing.T) {
	cases := []struct {
		name   string
		sex    Sex
		weight float64
		height float64
		age    int
		want   float64
	}{
		{"male adult", Male, 80, 180, 30, 10*80 + 6.25*180 - 5*30 + 5},
		{"female adult", Female, 60, 165, 25, 10*60 + 6.25*165 - 5*25 - 161},
		{"male newborn age", Male, 3.5, 50, 0, 10*3.5 + 6.25*50 + 5},
		{"female senior", Female, 55, 155, 80, 10*55 + 6.25*155 - 5*80 - 161},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BMR(tc.sex, tc.weight, tc.height, tc.age)
			if got != tc.want {
				t.Errorf("BMR = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBMR_MaleFemaleGapIs166(t *testing.T) {
	m := BMR(Male, 70, 175, 40)
	f := BMR(Female, 70, 175, 40)
	if m-f != 166 {
		t.Errorf("male-female gap = %v, want 166", m-f)
	}
}

func TestTDEE_MultipliersStrictlyIncrease(t *testing.T) {
	const bmr = 1500.0
	prev := 0.0
	for _, level := range ActivityLevels {
		got := TDEE(bmr, level)
		if got != bmr*level.Multiplier() {
			t.Errorf("TDEE(%s) = %v, want %v", level, got, bmr*level.Multiplier())
		}
		if got <= prev {
			t.Errorf("TDEE(%s) = %v is not above previous level %v", level, got, prev)
		}
		prev = got
	}
}

func TestTDEE_KnownMultipliers(t *testing.T) {
	want := map[ActivityLevel]float64{
		Sedentary:  1.2,
		Light:      1.375,
		Moderate:   1.55,
		Active:     1.725,
		VeryActive: 1.9,
	}
	for level, m := range want {
		if level.Multiplier() != m {
			t.Errorf("%s multiplier = %v, want %v", level, level.Multiplier(), m)
		}
	}
}

func TestBMI(t *testing.T) {
	got := BMI(ptr(70), ptr(175))
	if got == nil || *got != 22.86 {
		t.Fatalf("BMI(70, 175) = %v, want 22.86", got)
	}

	if BMI(nil, ptr(175)) != nil {
		t.Error("expected nil BMI when weight is missing")
	}
	if BMI(ptr(70), nil) != nil {
		t.Error("expected nil BMI when height is missing")
	}
	if BMI(ptr(70), ptr(0)) != nil {
		t.Error("expected nil BMI for zero height")
	}
}

func TestParseActivityLevel(t *testing.T) {
	level, err := ParseActivityLevel(" very_active ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if level != VeryActive {
		t.Errorf("level = %s, want VERY_ACTIVE", level)
	}

	if _, err := ParseActivityLevel("couch"); err == nil {
		t.Error("expected error for unknown activity level")
	}
}

func TestParseSex(t *testing.T) {
	cases := map[string]Sex{"male": Male, "Male": Male, "MALE": Male, "female": Female, "": Female, "other": Female}
	for in, want := range cases {
		if got := ParseSex(in); got != want {
			t.Errorf("ParseSex(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestAgeOn_BirthdayCorrection(t *testing.T) {
	dob := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)

	before := time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)
	if got := AgeOn(dob, before); got != 33 {
		t.Errorf("age day before birthday = %d, want 33", got)
	}

	on := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	if got := AgeOn(dob, on); got != 34 {
		t.Errorf("age on birthday = %d, want 34", got)
	}

	future := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := AgeOn(future, on); got != 0 {
		t.Errorf("age for future dob = %d, want 0", got)
	}
}

func TestRounding(t *testing.T) {
	if Round1(12.345) != 12.3 {
		t.Errorf("Round1(12.345) = %v", Round1(12.345))
	}
	if got := Round2(22.857); math.Abs(got-22.86) > 1e-9 {
		t.Errorf("Round2(22.857) = %v", got)
	}
}
