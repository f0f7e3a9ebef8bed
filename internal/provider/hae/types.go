package hae

import (
	"encoding/json"
	"fmt"
	"time"
)

// Health Auto Export timestamp format, with a date-only fallback used by
// aggregated series.
const (
	wireTimeLayout     = "2006-01-02 15:04:05 -0700"
	wireDateOnlyLayout = "2006-01-02"
)

// wireTime parses the HAE timestamp formats.
type wireTime struct {
	time.Time
}

func (t *wireTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(wireTimeLayout, s)
	if err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err2 := time.Parse(wireDateOnlyLayout, s)
	if err2 == nil {
		t.Time = parsed
		return nil
	}
	return fmt.Errorf("cannot parse HAE time %q: %w", s, err)
}

// envelope is the top-level result of both the health_metrics and workouts
// tools.
type envelope struct {
	Data struct {
		Metrics  []wireMetric  `json:"metrics"`
		Workouts []wireWorkout `json:"workouts"`
	} `json:"data"`
}

// wireMetric is one metric series; the shape of its data points depends on
// the metric name, so they stay raw until the caller picks a point type.
type wireMetric struct {
	Name  string            `json:"name"`
	Units string            `json:"units"`
	Data  []json.RawMessage `json:"data"`
}

// qtyPoint is the standard single-quantity data point.
type qtyPoint struct {
	Date wireTime `json:"date"`
	Qty  float64  `json:"qty"`
}

// minAvgMaxPoint is the heart-rate style data point (capitalized keys in the
// HAE JSON).
type minAvgMaxPoint struct {
	Date wireTime `json:"date"`
	Min  float64  `json:"Min"`
	Avg  float64  `json:"Avg"`
	Max  float64  `json:"Max"`
}

// wireQuantity is the {"qty": N, "units": "..."} structure.
type wireQuantity struct {
	Qty   float64 `json:"qty"`
	Units string  `json:"units"`
}

// wireWorkout is a workout from the workouts tool.
type wireWorkout struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Start    wireTime `json:"start"`
	End      wireTime `json:"end"`
	Duration float64  `json:"duration"`

	ActiveEnergyBurned *wireQuantity `json:"activeEnergyBurned,omitempty"`
	Distance           *wireQuantity `json:"distance,omitempty"`
	AvgHR              *wireQuantity `json:"avgHeartRate,omitempty"`
	MaxHR              *wireQuantity `json:"maxHeartRate,omitempty"`
}

// toMeters normalizes a distance quantity to meters.
func toMeters(q wireQuantity) float64 {
	switch q.Units {
	case "km":
		return q.Qty * 1000
	case "mi":
		return q.Qty * 1609.344
	default: // already meters
		return q.Qty
	}
}
