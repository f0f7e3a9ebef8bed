package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/claude/vitalsync/internal/models"
)

func summaryWithCalories(date time.Time, active float64) models.DailyHealthSummary {
	return models.DailyHealthSummary{
		Date:     models.DayKey(date),
		Calories: &models.CalorieTotals{Active: active, Total: active * 1.4},
	}
}

// TestCalculateTrainingLoadEmptyHistory verifies an all-zero history yields
// ratio 0 and the low level, not a division blow-up.
func TestCalculateTrainingLoadEmptyHistory(t *testing.T) {
	target := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)

	load := CalculateTrainingLoad(nil, target)
	if load.AcuteLoad != 0 || load.ChronicLoad != 0 || load.Ratio != 0 {
		t.Errorf("empty history: got %+v, want zero loads and ratio", load)
	}
	if load.Level != models.LoadLow {
		t.Errorf("empty history: level = %q, want %q", load.Level, models.LoadLow)
	}
	if load.Date != "2026-03-10" {
		t.Errorf("date = %q, want 2026-03-10", load.Date)
	}
}

// TestCalculateTrainingLoadSteadyState verifies a uniform 28-day history
// gives acute == chronic and a moderate level (ratio exactly 1).
func TestCalculateTrainingLoadSteadyState(t *testing.T) {
	target := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)
	var history []models.DailyHealthSummary
	for i := 0; i < 28; i++ {
		history = append(history, summaryWithCalories(target.AddDate(0, 0, -i), 500))
	}

	load := CalculateTrainingLoad(history, target)
	if math.Abs(load.AcuteLoad-500) > 1e-9 {
		t.Errorf("acute = %v, want 500", load.AcuteLoad)
	}
	if math.Abs(load.ChronicLoad-500) > 1e-9 {
		t.Errorf("chronic = %v, want 500", load.ChronicLoad)
	}
	if math.Abs(load.Ratio-1) > 1e-9 {
		t.Errorf("ratio = %v, want 1", load.Ratio)
	}
	if load.Level != models.LoadModerate {
		t.Errorf("level = %q, want %q", load.Level, models.LoadModerate)
	}
}

// TestCalculateTrainingLoadSpike verifies a sharp training spike (ratio past
// the 1.5 cutoff) classifies as very_high.
func TestCalculateTrainingLoadSpike(t *testing.T) {
	target := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)

	// Last 7 days at 600 kcal, the 21 before at 280: acute = 600,
	// chronic = (7*600 + 21*280) / 28 = 360, ratio = 1.6666...
	var history []models.DailyHealthSummary
	for i := 0; i < 28; i++ {
		active := 280.0
		if i < 7 {
			active = 600
		}
		history = append(history, summaryWithCalories(target.AddDate(0, 0, -i), active))
	}

	load := CalculateTrainingLoad(history, target)
	if load.Level != models.LoadVeryHigh {
		t.Errorf("ratio %v: level = %q, want %q", load.Ratio, load.Level, models.LoadVeryHigh)
	}
}

// TestCalculateTrainingLoadElevated verifies a moderate spike (acute roughly
// 1.5x chronic, ratio below the 1.5 cutoff) classifies as high.
func TestCalculateTrainingLoadElevated(t *testing.T) {
	target := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)

	// Last 7 days at 490 kcal, the 21 before at 280: acute = 490,
	// chronic = (7*490 + 21*280) / 28 = 332.5, ratio ~= 1.47.
	var history []models.DailyHealthSummary
	for i := 0; i < 28; i++ {
		active := 280.0
		if i < 7 {
			active = 490
		}
		history = append(history, summaryWithCalories(target.AddDate(0, 0, -i), active))
	}

	load := CalculateTrainingLoad(history, target)
	if load.Level != models.LoadHigh {
		t.Errorf("ratio %v: level = %q, want %q", load.Ratio, load.Level, models.LoadHigh)
	}
}

// TestCalculateTrainingLoadMissingDays verifies days without a summary count
// as zero load rather than being excluded from the mean.
func TestCalculateTrainingLoadMissingDays(t *testing.T) {
	target := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)

	// Only the target day has activity: acute = 700/7, chronic = 700/28.
	history := []models.DailyHealthSummary{summaryWithCalories(target, 700)}

	load := CalculateTrainingLoad(history, target)
	if math.Abs(load.AcuteLoad-100) > 1e-9 {
		t.Errorf("acute = %v, want 100", load.AcuteLoad)
	}
	if math.Abs(load.ChronicLoad-25) > 1e-9 {
		t.Errorf("chronic = %v, want 25", load.ChronicLoad)
	}
	if math.Abs(load.Ratio-4) > 1e-9 {
		t.Errorf("ratio = %v, want 4", load.Ratio)
	}
}

// TestClassifyLoadLevel verifies the exact threshold constants, including the
// inclusive lower bounds.
func TestClassifyLoadLevel(t *testing.T) {
	tests := []struct {
		ratio float64
		want  models.LoadLevel
	}{
		{0, models.LoadLow},
		{0.79, models.LoadLow},
		{0.8, models.LoadModerate},
		{1.29, models.LoadModerate},
		{1.3, models.LoadHigh},
		{1.49, models.LoadHigh},
		{1.5, models.LoadVeryHigh},
		{2.4, models.LoadVeryHigh},
	}

	for _, tt := range tests {
		if got := classifyLoadLevel(tt.ratio); got != tt.want {
			t.Errorf("classifyLoadLevel(%v) = %q, want %q", tt.ratio, got, tt.want)
		}
	}
}
