package calculator

import (
	"math"
	"testing"
)

func TestPolicySplit_SumsToOne(t *testing.T) {
	for _, goal := range []Goal{GoalGain, GoalLoss, GoalMaintain} {
		for _, level := range ActivityLevels {
			s := PolicySplit(goal, level)
			sum := s.Protein + s.Fat + s.Carbs
			if math.Abs(sum-1.0) > 1e-9 {
				t.Errorf("%s/%s split sums to %v", goal, level, sum)
			}
		}
	}
}

func TestPolicySplit_Table(t *testing.T) {
	cases := []struct {
		goal  Goal
		level ActivityLevel
		want  MacroSplit
	}{
		{GoalGain, Active, MacroSplit{0.35, 0.25, 0.40}},
		{GoalGain, Light, MacroSplit{0.30, 0.30, 0.40}},
		{GoalLoss, VeryActive, MacroSplit{0.40, 0.25, 0.35}},
		{GoalLoss, Sedentary, MacroSplit{0.35, 0.30, 0.35}},
		{GoalMaintain, Active, MacroSplit{0.30, 0.25, 0.45}},
		{GoalMaintain, Moderate, MacroSplit{0.30, 0.30, 0.40}},
	}
	for _, tc := range cases {
		if got := PolicySplit(tc.goal, tc.level); got != tc.want {
			t.Errorf("PolicySplit(%s, %s) = %+v, want %+v", tc.goal, tc.level, got, tc.want)
		}
	}
}

func TestClassifyGoal(t *testing.T) {
	cases := []struct {
		name   string
		target *float64
		want   Goal
	}{
		{"no target", nil, GoalMaintain},
		{"within band above", ptr(70.4), GoalMaintain},
		{"within band below", ptr(69.6), GoalMaintain},
		{"gain", ptr(75), GoalGain},
		{"loss", ptr(60), GoalLoss},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyGoal(70, tc.target); got != tc.want {
				t.Errorf("ClassifyGoal = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestTargetCalories_FloorAtBMR(t *testing.T) {
	bmr := 1400.0
	tdee := 1680.0 // tdee - 500 < bmr
	if got := TargetCalories(bmr, tdee, GoalLoss); got != bmr {
		t.Errorf("loss target = %v, want floor %v", got, bmr)
	}
	if got := TargetCalories(bmr, tdee, GoalGain); got != tdee+500 {
		t.Errorf("gain target = %v, want %v", got, tdee+500)
	}
	if got := TargetCalories(bmr, tdee, GoalMaintain); got != tdee {
		t.Errorf("maintain target = %v, want %v", got, tdee)
	}
}

func TestBuildPlan_FloorNeverBelowBMR(t *testing.T) {
	// Sedentary, small frame: tdee - 500 falls under bmr.
	plan := BuildPlan(PlanInput{
		Sex:            Female,
		WeightKg:       45,
		HeightCm:       150,
		Age:            30,
		Activity:       Sedentary,
		TargetWeightKg: ptr(40),
	})
	if plan.TDEE-500 >= plan.BMR {
		t.Fatalf("fixture does not trigger the floor: tdee=%v bmr=%v", plan.TDEE, plan.BMR)
	}
	if plan.Calories != Round2(plan.BMR) {
		t.Errorf("calories = %v, want bmr %v", plan.Calories, Round2(plan.BMR))
	}
	if plan.Goal != GoalLoss {
		t.Errorf("goal = %s, want loss", plan.Goal)
	}
}

func TestBuildPlan_MacroGramsRoundTrip(t *testing.T) {
	target := 72.0
	for _, level := range ActivityLevels {
		plan := BuildPlan(PlanInput{
			Sex:            Male,
			WeightKg:       80,
			HeightCm:       180,
			Age:            35,
			Activity:       level,
			TargetWeightKg: &target,
		})
		split := PolicySplit(plan.MacroGoal, level)

		if math.Abs(plan.Protein*4/plan.Calories-split.Protein) > 0.001 {
			t.Errorf("%s protein share drifted: %v", level, plan.Protein*4/plan.Calories)
		}
		if math.Abs(plan.Protein-plan.Calories*split.Protein/4) > 0.1 {
			t.Errorf("%s protein grams %v off by more than 0.1", level, plan.Protein)
		}
		if math.Abs(plan.Fat-plan.Calories*split.Fat/9) > 0.1 {
			t.Errorf("%s fat grams %v off by more than 0.1", level, plan.Fat)
		}
		if math.Abs(plan.Carbs-plan.Calories*split.Carbs/4) > 0.1 {
			t.Errorf("%s carb grams %v off by more than 0.1", level, plan.Carbs)
		}
	}
}

func TestBuildPlan_GoalAdjustments(t *testing.T) {
	base := PlanInput{Sex: Male, WeightKg: 80, HeightCm: 180, Age: 35, Activity: Moderate}

	maintain := BuildPlan(base)
	if maintain.Calories != Round2(maintain.TDEE) {
		t.Errorf("no target: calories = %v, want tdee %v", maintain.Calories, Round2(maintain.TDEE))
	}
	if maintain.Note != ExerciseNote(GoalMaintain, false) {
		t.Errorf("unexpected note %q", maintain.Note)
	}

	gain := base
	gain.TargetWeightKg = ptr(85)
	if p := BuildPlan(gain); p.Calories != Round2(p.TDEE+500) {
		t.Errorf("gain: calories = %v, want %v", p.Calories, Round2(p.TDEE+500))
	}

	atTarget := base
	atTarget.TargetWeightKg = ptr(80.2)
	if p := BuildPlan(atTarget); p.Note != atTargetNote {
		t.Errorf("at target: note = %q", p.Note)
	}
}

func TestBuildPlan_MaintainBandStillPicksDirectionalSplit(t *testing.T) {
	cases := []struct {
		name     string
		level    ActivityLevel
		target   float64
		wantGoal Goal
	}{
		{"slight loss, normal activity", Moderate, 69.8, GoalLoss},
		{"slight loss, high activity", Active, 69.8, GoalLoss},
		{"slight gain, normal activity", Moderate, 70.3, GoalGain},
		{"slight gain, high activity", VeryActive, 70.3, GoalGain},
		{"exactly at target", Moderate, 70, GoalMaintain},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := tc.target
			plan := BuildPlan(PlanInput{
				Sex:            Male,
				WeightKg:       70,
				HeightCm:       175,
				Age:            30,
				Activity:       tc.level,
				TargetWeightKg: &target,
			})
			if plan.Goal != GoalMaintain {
				t.Errorf("calorie goal = %s, want maintain inside the band", plan.Goal)
			}
			if plan.Calories != Round2(plan.TDEE) {
				t.Errorf("calories = %v, want tdee %v", plan.Calories, Round2(plan.TDEE))
			}
			if plan.Note != atTargetNote {
				t.Errorf("note = %q", plan.Note)
			}
			if plan.MacroGoal != tc.wantGoal {
				t.Errorf("macro goal = %s, want %s", plan.MacroGoal, tc.wantGoal)
			}
			protein, fat, carbs := MacroGrams(plan.TDEE, PolicySplit(tc.wantGoal, tc.level))
			if plan.Protein != protein || plan.Fat != fat || plan.Carbs != carbs {
				t.Errorf("grams = %v/%v/%v, want %v/%v/%v", plan.Protein, plan.Fat, plan.Carbs, protein, fat, carbs)
			}
		})
	}
}

func TestBuildPlan_SlightLossProtein(t *testing.T) {
	target := 69.8
	plan := BuildPlan(PlanInput{Sex: Male, WeightKg: 70, HeightCm: 175, Age: 30, Activity: Moderate, TargetWeightKg: &target})
	// 2555.56 kcal * 0.35 / 4
	if plan.Protein != 223.6 {
		t.Errorf("protein = %v, want 223.6", plan.Protein)
	}
}

func TestMacroGoal(t *testing.T) {
	if got := MacroGoal(70, nil); got != GoalMaintain {
		t.Errorf("nil target = %s", got)
	}
	if got := MacroGoal(70, ptr(70.01)); got != GoalGain {
		t.Errorf("70.01 = %s", got)
	}
	if got := MacroGoal(70, ptr(69.99)); got != GoalLoss {
		t.Errorf("69.99 = %s", got)
	}
}
