package metrics

import (
	"math"
	"time"

	"github.com/claude/vitalsync/internal/models"
)

// The streak predicates compare calendar days in local time, never elapsed
// duration: a workout at 23:59 and one at 00:01 the next day are two
// different workout days even though only minutes apart.

// IsNewWorkoutDay reports whether current falls on a different calendar day
// than the last recorded workout. A nil last means no workout has ever been
// recorded, which always counts as a new day.
func IsNewWorkoutDay(last *time.Time, current time.Time) bool {
	if last == nil {
		return true
	}
	return models.DayKey(*last) != models.DayKey(current)
}

// ShouldResetStreak reports whether the gap since the last workout breaks the
// streak. A gap of exactly one day ("worked out yesterday") preserves it;
// strictly more than one day breaks it. No prior workout never resets.
func ShouldResetStreak(last *time.Time, current time.Time) bool {
	if last == nil {
		return false
	}
	return DaysSinceLastWorkout(last, current) > 1
}

// DaysSinceLastWorkout returns the whole calendar days between the last
// workout and current (same day = 0), or +Inf when there is no last workout.
func DaysSinceLastWorkout(last *time.Time, current time.Time) float64 {
	if last == nil {
		return math.Inf(1)
	}
	// Normalize both ends to local midnight so time-of-day (and DST hour
	// shifts) cannot skew the count.
	from := models.StartOfDay(*last)
	to := models.StartOfDay(current)
	return math.Round(to.Sub(from).Hours() / 24)
}
