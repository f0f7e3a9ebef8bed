package models

import (
	"time"

	"github.com/google/uuid"
)

// PermissionState is the grant status for one health data type.
type PermissionState string

const (
	PermissionGranted       PermissionState = "granted"
	PermissionDenied        PermissionState = "denied"
	PermissionNotDetermined PermissionState = "not_determined"
)

// PermissionStatus reports per-type read permissions from the health provider.
type PermissionStatus struct {
	Steps     PermissionState `json:"steps"`
	Distance  PermissionState `json:"distance"`
	Calories  PermissionState `json:"calories"`
	HeartRate PermissionState `json:"heart_rate"`
	Workouts  PermissionState `json:"workouts"`
}

// AllGranted reports whether every data type is readable.
func (p PermissionStatus) AllGranted() bool {
	return p.Steps == PermissionGranted &&
		p.Distance == PermissionGranted &&
		p.Calories == PermissionGranted &&
		p.HeartRate == PermissionGranted &&
		p.Workouts == PermissionGranted
}

// StepsRecord is one step-count fragment from the provider. A single day may
// be split across many records (per source device or hour bucket), so
// consumers sum Count across records rather than taking any one of them.
type StepsRecord struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Count float64   `json:"count"`
}

// DistanceRecord is one walking/running distance fragment in meters.
type DistanceRecord struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Meters float64   `json:"meters"`
}

// CaloriesRecord is one energy-expenditure fragment in kcal.
type CaloriesRecord struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Active float64   `json:"active"`
	Total  float64   `json:"total"`
}

// HeartRateSample is a single timestamped heart-rate reading.
type HeartRateSample struct {
	Time time.Time `json:"time"`
	BPM  float64   `json:"bpm"`
}

// HealthWorkout is a completed workout as reported by the provider.
type HealthWorkout struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	DurationSec float64   `json:"duration_sec"`

	ActiveEnergyBurned *float64 `json:"active_energy_burned,omitempty"`
	DistanceMeters     *float64 `json:"distance_meters,omitempty"`
	AvgHeartRate       *float64 `json:"avg_heart_rate,omitempty"`
	MaxHeartRate       *float64 `json:"max_heart_rate,omitempty"`
}

// RawDaySamples bundles everything the provider returned for one calendar day.
type RawDaySamples struct {
	Steps     []StepsRecord
	Distance  []DistanceRecord
	Calories  []CaloriesRecord
	HeartRate []HeartRateSample
	Workouts  []HealthWorkout
	RestingHR *float64
}
