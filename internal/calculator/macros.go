package calculator

import "math"

type Goal string

const (
	GoalGain     Goal = "gain"
	GoalLoss     Goal = "loss"
	GoalMaintain Goal = "maintain"
)

const (
	// goalAdjustment is the daily kcal surplus/deficit applied for gain/loss.
	goalAdjustment = 500.0
	// maintainBand is the target-weight distance (kg) treated as "at goal".
	maintainBand = 0.5

	kcalPerGramProtein = 4.0
	kcalPerGramFat     = 9.0
	kcalPerGramCarb    = 4.0
)

// MacroSplit is the share of calories assigned to each macro; the three
// fractions sum to 1.
type MacroSplit struct {
	Protein float64
	Fat     float64
	Carbs   float64
}

type policyKey struct {
	goal Goal
	high bool
}

var macroPolicy = map[policyKey]MacroSplit{
	{GoalGain, true}:      {Protein: 0.35, Fat: 0.25, Carbs: 0.40},
	{GoalGain, false}:     {Protein: 0.30, Fat: 0.30, Carbs: 0.40},
	{GoalLoss, true}:      {Protein: 0.40, Fat: 0.25, Carbs: 0.35},
	{GoalLoss, false}:     {Protein: 0.35, Fat: 0.30, Carbs: 0.35},
	{GoalMaintain, true}:  {Protein: 0.30, Fat: 0.25, Carbs: 0.45},
	{GoalMaintain, false}: {Protein: 0.30, Fat: 0.30, Carbs: 0.40},
}

var exerciseNotes = map[Goal]string{
	GoalGain:     "Strength training (gym) combined with a calorie surplus to build muscle.",
	GoalLoss:     "Combine cardio with a calorie deficit to burn fat effectively.",
	GoalMaintain: "Keep up your training routine to hold your weight.",
}

const atTargetNote = "You have reached your target weight! Keep it up."

// ClassifyGoal compares a target weight with the current one. A nil target
// means maintain.
func ClassifyGoal(weightKg float64, targetWeightKg *float64) Goal {
	if targetWeightKg == nil {
		return GoalMaintain
	}
	diff := *targetWeightKg - weightKg
	switch {
	case math.Abs(diff) < maintainBand:
		return GoalMaintain
	case diff > 0:
		return GoalGain
	default:
		return GoalLoss
	}
}

// MacroGoal picks the goal used for the macro split. Unlike ClassifyGoal it
// has no maintain band: any target above or below the current weight counts.
func MacroGoal(weightKg float64, targetWeightKg *float64) Goal {
	switch {
	case targetWeightKg == nil:
		return GoalMaintain
	case *targetWeightKg > weightKg:
		return GoalGain
	case *targetWeightKg < weightKg:
		return GoalLoss
	}
	return GoalMaintain
}

// PolicySplit returns the macro split for a goal and activity level.
func PolicySplit(goal Goal, level ActivityLevel) MacroSplit {
	return macroPolicy[policyKey{goal: goal, high: level.IsHigh()}]
}

// TargetCalories applies the goal adjustment to tdee and clamps the result so
// it never drops below bmr.
func TargetCalories(bmr, tdee float64, goal Goal) float64 {
	target := tdee
	switch goal {
	case GoalGain:
		target = tdee + goalAdjustment
	case GoalLoss:
		target = tdee - goalAdjustment
	}
	if target < bmr {
		target = bmr
	}
	return target
}

// MacroGrams converts a calorie target into protein/fat/carb grams, each
// rounded to one decimal.
func MacroGrams(calories float64, split MacroSplit) (protein, fat, carbs float64) {
	protein = Round1(calories * split.Protein / kcalPerGramProtein)
	fat = Round1(calories * split.Fat / kcalPerGramFat)
	carbs = Round1(calories * split.Carbs / kcalPerGramCarb)
	return protein, fat, carbs
}

// ExerciseNote returns the suggestion text for a goal. atTarget selects the
// congratulation variant used when a target weight is set and already met.
func ExerciseNote(goal Goal, atTarget bool) string {
	if goal == GoalMaintain && atTarget {
		return atTargetNote
	}
	return exerciseNotes[goal]
}

// Plan is the full deterministic recommendation for a profile.
type Plan struct {
	BMR  float64
	TDEE float64
	// Goal drives the calorie adjustment and note; MacroGoal drives the split.
	Goal      Goal
	MacroGoal Goal
	Calories  float64
	Protein   float64
	Fat       float64
	Carbs     float64
	Note      string
}

// PlanInput is a complete biometric profile.
type PlanInput struct {
	Sex            Sex
	WeightKg       float64
	HeightCm       float64
	Age            int
	Activity       ActivityLevel
	TargetWeightKg *float64
}

// BuildPlan runs the local recommendation policy. It cannot fail for a
// profile with a valid activity level.
func BuildPlan(in PlanInput) Plan {
	bmr := BMR(in.Sex, in.WeightKg, in.HeightCm, in.Age)
	tdee := TDEE(bmr, in.Activity)
	goal := ClassifyGoal(in.WeightKg, in.TargetWeightKg)
	target := TargetCalories(bmr, tdee, goal)
	macroGoal := MacroGoal(in.WeightKg, in.TargetWeightKg)
	protein, fat, carbs := MacroGrams(target, PolicySplit(macroGoal, in.Activity))

	return Plan{
		BMR:       bmr,
		TDEE:      tdee,
		Goal:      goal,
		MacroGoal: macroGoal,
		Calories:  Round2(target),
		Protein:   protein,
		Fat:       fat,
		Carbs:     carbs,
		Note:      ExerciseNote(goal, in.TargetWeightKg != nil),
	}
}
