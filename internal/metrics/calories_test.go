package metrics

import "testing"

// TestEstimateCalories verifies the MET formula against known values and the
// fallback behavior for unknown activity types and missing weight.
func TestEstimateCalories(t *testing.T) {
	tests := []struct {
		name     string
		minutes  float64
		activity string
		weightKg float64
		want     int
	}{
		{"one hour gym at 70kg", 60, "gym", 70, 420},
		{"half hour running rounds up", 30, "running", 70, 333}, // 9.5*70*0.5 = 332.5
		{"45 min yoga", 45, "yoga", 70, 158},                    // 3*70*0.75 = 157.5
		{"unknown type uses default MET", 60, "underwater_basket_weaving", 70, 350},
		{"activity name case is ignored", 60, "Running", 70, 665},
		{"zero duration", 0, "running", 70, 0},
		{"negative duration", -15, "running", 70, 0},
		{"zero weight falls back to default", 60, "gym", 0, 420},
		{"heavier athlete burns more", 60, "gym", 90, 540},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateCalories(tt.minutes, tt.activity, tt.weightKg)
			if got != tt.want {
				t.Errorf("EstimateCalories(%v, %q, %v) = %d, want %d",
					tt.minutes, tt.activity, tt.weightKg, got, tt.want)
			}
		})
	}
}

// TestEstimateCaloriesLinear verifies the estimate scales linearly in both
// duration and weight.
func TestEstimateCaloriesLinear(t *testing.T) {
	base := EstimateCalories(30, "cardio", 60)
	if doubled := EstimateCalories(60, "cardio", 60); doubled != base*2 {
		t.Errorf("doubling duration: got %d, want %d", doubled, base*2)
	}
	if doubled := EstimateCalories(30, "cardio", 120); doubled != base*2 {
		t.Errorf("doubling weight: got %d, want %d", doubled, base*2)
	}
}
