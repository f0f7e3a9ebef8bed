package metrics

import (
	"math"
	"time"

	"github.com/claude/vitalsync/internal/models"
)

// Aggregator merges one day's raw provider samples into a DailyHealthSummary.
// Summarize is a pure function of its inputs: running it twice over the same
// samples produces a deep-equal summary, which is what lets a sync cycle
// replace a day wholesale without accumulation drift.
type Aggregator struct {
	maxHR        float64
	bodyWeightKg float64
}

// NewAggregator creates an Aggregator using the athlete's max heart rate for
// zone classification and body weight for workout calorie estimates. A
// non-positive maxHR falls back to DefaultMaxHR; a non-positive weight falls
// back to DefaultBodyWeightKg inside EstimateCalories.
func NewAggregator(maxHR, bodyWeightKg float64) *Aggregator {
	if maxHR <= 0 {
		maxHR = DefaultMaxHR
	}
	return &Aggregator{maxHR: maxHR, bodyWeightKg: bodyWeightKg}
}

// Summarize builds the summary for the calendar day containing date.
// Providers return fragmented records (per device or hour bucket), so step,
// distance, and calorie values are summed across records. A metric with no
// records at all yields a nil field: "no data" must stay distinguishable
// from an observed zero.
func (a *Aggregator) Summarize(date time.Time, raw models.RawDaySamples) models.DailyHealthSummary {
	summary := models.DailyHealthSummary{Date: models.DayKey(date)}

	if len(raw.Steps) > 0 {
		var sum float64
		for _, r := range raw.Steps {
			sum += r.Count
		}
		steps := int(math.Round(sum))
		summary.Steps = &steps
	}

	if len(raw.Distance) > 0 {
		var sum float64
		for _, r := range raw.Distance {
			sum += r.Meters
		}
		summary.DistanceMeters = &sum
	}

	if len(raw.Calories) > 0 {
		totals := models.CalorieTotals{}
		for _, r := range raw.Calories {
			totals.Active += r.Active
			totals.Total += r.Total
		}
		summary.Calories = &totals
	}

	if len(raw.HeartRate) > 0 {
		summary.HeartRate = heartRateStats(raw.HeartRate)
		summary.HeartRateZones = ClassifyZones(raw.HeartRate, a.maxHR)
	}

	if raw.RestingHR != nil {
		rhr := *raw.RestingHR
		summary.RestingHeartRate = &rhr
	}

	if len(raw.Workouts) > 0 {
		summary.Workouts = make([]models.HealthWorkout, len(raw.Workouts))
		copy(summary.Workouts, raw.Workouts)

		var minutes float64
		for i := range summary.Workouts {
			w := &summary.Workouts[i]
			minutes += w.DurationSec / 60
			// Not every source reports energy per workout.
			if w.ActiveEnergyBurned == nil {
				kcal := float64(EstimateCalories(w.DurationSec/60, w.Name, a.bodyWeightKg))
				w.ActiveEnergyBurned = &kcal
			}
		}
		summary.ActiveMinutes = &minutes
	}

	return summary
}

func heartRateStats(samples []models.HeartRateSample) *models.HeartRateStats {
	stats := models.HeartRateStats{Min: samples[0].BPM, Max: samples[0].BPM}
	var sum float64
	for _, s := range samples {
		sum += s.BPM
		if s.BPM < stats.Min {
			stats.Min = s.BPM
		}
		if s.BPM > stats.Max {
			stats.Max = s.BPM
		}
	}
	stats.Avg = sum / float64(len(samples))
	return &stats
}
