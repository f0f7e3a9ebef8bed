package metrics

import (
	"time"

	"github.com/claude/vitalsync/internal/models"
)

// Acute and chronic windows in days, both trailing and inclusive of the
// target date. The 7:28 pairing is the standard acute:chronic workload
// ratio used to flag training spikes.
const (
	acuteWindowDays   = 7
	chronicWindowDays = 28
)

// Load-level thresholds on the acute:chronic ratio. Inclusive lower bounds;
// a ratio at or above 1.3 is the widely used marker for elevated injury risk.
const (
	moderateRatio = 0.8
	highRatio     = 1.3
	veryHighRatio = 1.5
)

// dailyLoad is the scalar used for both windows. The proxy is the day's
// active calories; days without a summary count as zero load (no activity),
// not as missing observations.
func dailyLoad(s *models.DailyHealthSummary) float64 {
	return s.ActiveCalories()
}

// CalculateTrainingLoad computes the acute (7-day) and chronic (28-day)
// trailing mean daily load ending at targetDate, their ratio, and the
// qualitative level. The result is derived fresh from the given history on
// every call; nothing is accumulated between calls.
func CalculateTrainingLoad(history []models.DailyHealthSummary, targetDate time.Time) models.TrainingLoad {
	byDate := make(map[string]*models.DailyHealthSummary, len(history))
	for i := range history {
		byDate[history[i].Date] = &history[i]
	}

	end := models.StartOfDay(targetDate)
	sumOver := func(days int) float64 {
		var sum float64
		for i := 0; i < days; i++ {
			key := models.DayKey(end.AddDate(0, 0, -i))
			if s, ok := byDate[key]; ok {
				sum += dailyLoad(s)
			}
		}
		return sum
	}

	acute := sumOver(acuteWindowDays) / acuteWindowDays
	chronic := sumOver(chronicWindowDays) / chronicWindowDays

	var ratio float64
	if chronic > 0 {
		ratio = acute / chronic
	}

	return models.TrainingLoad{
		Date:        models.DayKey(targetDate),
		AcuteLoad:   acute,
		ChronicLoad: chronic,
		Ratio:       ratio,
		Level:       classifyLoadLevel(ratio),
	}
}

// classifyLoadLevel maps a ratio to its qualitative level.
func classifyLoadLevel(ratio float64) models.LoadLevel {
	switch {
	case ratio < moderateRatio:
		return models.LoadLow
	case ratio < highRatio:
		return models.LoadModerate
	case ratio < veryHighRatio:
		return models.LoadHigh
	default:
		return models.LoadVeryHigh
	}
}
