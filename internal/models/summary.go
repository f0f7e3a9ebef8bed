package models

import "time"

// DateLayout is the calendar-day key format used throughout the engine.
// Days are identified in local time; a workout at 23:59 and one at 00:01
// the next day belong to different keys even though minutes apart.
const DateLayout = "2006-01-02"

// DayKey returns the calendar-day key for t in t's location.
func DayKey(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Zone identifies a heart-rate training zone.
type Zone string

const (
	ZoneRest    Zone = "rest"
	ZoneFatBurn Zone = "fat_burn"
	ZoneCardio  Zone = "cardio"
	ZonePeak    Zone = "peak"
	ZoneMax     Zone = "max"
)

// ZoneBucket holds time spent in one heart-rate zone for a day.
// Buckets for a day partition [0, maxHR] with contiguous boundaries;
// Minutes and Percentage carry full precision, rounding is left to callers.
type ZoneBucket struct {
	Zone       Zone    `json:"zone"`
	MinBPM     float64 `json:"min_bpm"`
	MaxBPM     float64 `json:"max_bpm"`
	Minutes    float64 `json:"minutes"`
	Percentage float64 `json:"percentage"`
}

// HeartRateStats is the avg/min/max of a day's heart-rate samples.
type HeartRateStats struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// CalorieTotals is a day's active and total energy expenditure in kcal.
type CalorieTotals struct {
	Active float64 `json:"active"`
	Total  float64 `json:"total"`
}

// DailyHealthSummary is the merged view of one calendar day's telemetry.
// There is at most one summary per date; a sync cycle always replaces a
// day's summary wholesale, never patches it. Nil pointer fields mean "no
// data for this metric", which is distinct from an observed zero.
type DailyHealthSummary struct {
	Date string `json:"date"`

	Steps            *int            `json:"steps,omitempty"`
	DistanceMeters   *float64        `json:"distance_meters,omitempty"`
	Calories         *CalorieTotals  `json:"calories,omitempty"`
	RestingHeartRate *float64        `json:"resting_heart_rate,omitempty"`
	HeartRate        *HeartRateStats `json:"heart_rate,omitempty"`
	HeartRateZones   []ZoneBucket    `json:"heart_rate_zones,omitempty"`
	Workouts         []HealthWorkout `json:"workouts,omitempty"`
	ActiveMinutes    *float64        `json:"active_minutes,omitempty"`
}

// ActiveCalories returns the day's active energy in kcal, 0 when absent.
func (s *DailyHealthSummary) ActiveCalories() float64 {
	if s == nil || s.Calories == nil {
		return 0
	}
	return s.Calories.Active
}

// LoadLevel is the qualitative reading of an acute:chronic load ratio.
type LoadLevel string

const (
	LoadLow      LoadLevel = "low"
	LoadModerate LoadLevel = "moderate"
	LoadHigh     LoadLevel = "high"
	LoadVeryHigh LoadLevel = "very_high"
)

// TrainingLoad is the acute/chronic training load picture for one date.
// It is recomputed from summary history on every request, never stored
// incrementally.
type TrainingLoad struct {
	Date        string    `json:"date"`
	AcuteLoad   float64   `json:"acute_load"`
	ChronicLoad float64   `json:"chronic_load"`
	Ratio       float64   `json:"ratio"`
	Level       LoadLevel `json:"level"`
}

// LiveSessionState is the session-relative view during an active workout.
// Values are deltas against the baseline captured at session start.
type LiveSessionState struct {
	Steps          int     `json:"steps"`
	DistanceMeters float64 `json:"distance_meters"`
	StepsPerMinute float64 `json:"steps_per_minute"`
	PaceMinPerKm   float64 `json:"pace_min_per_km"`
}

// StreakState is the workout streak bookkeeping published by the coordinator.
type StreakState struct {
	Current         int        `json:"current"`
	Longest         int        `json:"longest"`
	LastWorkoutDate *time.Time `json:"last_workout_date,omitempty"`
}
