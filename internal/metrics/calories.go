package metrics

import (
	"math"
	"strings"
)

// DefaultBodyWeightKg is assumed when the athlete's weight is not configured.
const DefaultBodyWeightKg = 70

// metValues maps an activity category to its MET (Metabolic Equivalent of
// Task) multiplier. Unknown categories fall back to defaultMET.
var metValues = map[string]float64{
	"gym":          6.0,
	"running":      9.5,
	"yoga":         3.0,
	"calisthenics": 8.0,
	"cardio":       7.0,
	"mobility":     2.5,
}

const defaultMET = 5.0

// EstimateCalories estimates the energy burned by a workout in kcal using
// the standard MET formula: MET x body weight (kg) x duration (hours),
// rounded to the nearest integer. Non-positive durations yield 0.
func EstimateCalories(durationMinutes float64, activityType string, bodyWeightKg float64) int {
	if durationMinutes <= 0 {
		return 0
	}
	if bodyWeightKg <= 0 {
		bodyWeightKg = DefaultBodyWeightKg
	}
	met, ok := metValues[strings.ToLower(activityType)]
	if !ok {
		met = defaultMET
	}
	return int(math.Round(met * bodyWeightKg * durationMinutes / 60))
}
