// Package provider defines the boundary to the external health data source.
// The engine consumes this interface; it never talks to a platform SDK
// directly, which is what lets tests substitute scripted providers.
package provider

import (
	"context"
	"time"

	"github.com/claude/vitalsync/internal/models"
)

// DataType names one readable category of health data.
type DataType string

const (
	TypeSteps     DataType = "steps"
	TypeDistance  DataType = "distance"
	TypeCalories  DataType = "calories"
	TypeHeartRate DataType = "heart_rate"
	TypeWorkouts  DataType = "workouts"
)

// AllDataTypes lists every category the engine reads.
var AllDataTypes = []DataType{TypeSteps, TypeDistance, TypeCalories, TypeHeartRate, TypeWorkouts}

// HealthProvider supplies raw time-ranged telemetry. All ranges are
// half-open [start, end). Implementations return transport errors as-is;
// the caller decides whether a failure aborts a sync cycle or is skipped.
type HealthProvider interface {
	// IsAvailable reports whether the platform has a health integration at
	// all. A false return is terminal: the engine never retries.
	IsAvailable(ctx context.Context) bool

	// RequestPermissions asks for read access to the given data types and
	// reports whether all were granted.
	RequestPermissions(ctx context.Context, types []DataType) (bool, error)

	// GetPermissionStatus reports the per-type grant state.
	GetPermissionStatus(ctx context.Context) (models.PermissionStatus, error)

	GetSteps(ctx context.Context, start, end time.Time) ([]models.StepsRecord, error)
	GetDistance(ctx context.Context, start, end time.Time) ([]models.DistanceRecord, error)
	GetCalories(ctx context.Context, start, end time.Time) ([]models.CaloriesRecord, error)
	GetHeartRate(ctx context.Context, start, end time.Time) ([]models.HeartRateSample, error)
	GetWorkouts(ctx context.Context, start, end time.Time) ([]models.HealthWorkout, error)
}

// RestingHeartRateProvider is an optional extension for sources that also
// export a resting heart rate series. When a provider implements it, the
// coordinator includes resting HR in daily summaries.
type RestingHeartRateProvider interface {
	GetRestingHeartRate(ctx context.Context, start, end time.Time) (*float64, error)
}
