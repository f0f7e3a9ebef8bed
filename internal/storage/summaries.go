package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/claude/vitalsync/internal/models"
	"github.com/jackc/pgx/v5"
)

// UpsertDailySummaries replaces each summary wholesale at its date. A sync
// cycle recomputes the full day from raw samples, so there is no merge:
// the new row wins completely.
func (db *DB) UpsertDailySummaries(ctx context.Context, summaries []models.DailyHealthSummary) error {
	if len(summaries) == 0 {
		return nil
	}

	query := `INSERT INTO daily_summaries (date, steps, distance_meters, calories, resting_heart_rate, heart_rate, heart_rate_zones, workouts, active_minutes)
VALUES `
	args := make([]any, 0, len(summaries)*9)
	valueStrings := make([]string, 0, len(summaries))

	for i, s := range summaries {
		base := i * 9
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9,
		))

		calories, err := marshalNullable(s.Calories, s.Calories == nil)
		if err != nil {
			return fmt.Errorf("encoding calories for %s: %w", s.Date, err)
		}
		heartRate, err := marshalNullable(s.HeartRate, s.HeartRate == nil)
		if err != nil {
			return fmt.Errorf("encoding heart rate for %s: %w", s.Date, err)
		}
		zones, err := marshalNullable(s.HeartRateZones, len(s.HeartRateZones) == 0)
		if err != nil {
			return fmt.Errorf("encoding zones for %s: %w", s.Date, err)
		}
		workouts, err := marshalNullable(s.Workouts, len(s.Workouts) == 0)
		if err != nil {
			return fmt.Errorf("encoding workouts for %s: %w", s.Date, err)
		}

		args = append(args, s.Date, s.Steps, s.DistanceMeters, calories,
			s.RestingHeartRate, heartRate, zones, workouts, s.ActiveMinutes)
	}

	query += strings.Join(valueStrings, ",") + `
ON CONFLICT (date) DO UPDATE SET
	steps = EXCLUDED.steps,
	distance_meters = EXCLUDED.distance_meters,
	calories = EXCLUDED.calories,
	resting_heart_rate = EXCLUDED.resting_heart_rate,
	heart_rate = EXCLUDED.heart_rate,
	heart_rate_zones = EXCLUDED.heart_rate_zones,
	workouts = EXCLUDED.workouts,
	active_minutes = EXCLUDED.active_minutes,
	updated_at = now()`

	if _, err := db.Pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upserting daily summaries: %w", err)
	}
	return nil
}

// GetDailySummaries retrieves summaries for the inclusive date range
// [from, to], oldest first. Dates are YYYY-MM-DD strings.
func (db *DB) GetDailySummaries(ctx context.Context, from, to string) ([]models.DailyHealthSummary, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT date::text, steps, distance_meters, calories, resting_heart_rate, heart_rate, heart_rate_zones, workouts, active_minutes
		 FROM daily_summaries
		 WHERE date >= $1 AND date <= $2
		 ORDER BY date ASC`,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("querying daily summaries: %w", err)
	}
	defer rows.Close()

	return scanSummaryRows(rows)
}

// GetDailySummary retrieves one summary by date, or nil when absent.
func (db *DB) GetDailySummary(ctx context.Context, date string) (*models.DailyHealthSummary, error) {
	summaries, err := db.GetDailySummaries(ctx, date, date)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, nil
	}
	return &summaries[0], nil
}

func scanSummaryRows(rows pgx.Rows) ([]models.DailyHealthSummary, error) {
	var result []models.DailyHealthSummary
	for rows.Next() {
		var s models.DailyHealthSummary
		var calories, heartRate, zones, workouts []byte
		if err := rows.Scan(&s.Date, &s.Steps, &s.DistanceMeters, &calories,
			&s.RestingHeartRate, &heartRate, &zones, &workouts, &s.ActiveMinutes); err != nil {
			return nil, fmt.Errorf("scanning daily summary row: %w", err)
		}
		if calories != nil {
			if err := json.Unmarshal(calories, &s.Calories); err != nil {
				return nil, fmt.Errorf("decoding calories for %s: %w", s.Date, err)
			}
		}
		if heartRate != nil {
			if err := json.Unmarshal(heartRate, &s.HeartRate); err != nil {
				return nil, fmt.Errorf("decoding heart rate for %s: %w", s.Date, err)
			}
		}
		if zones != nil {
			if err := json.Unmarshal(zones, &s.HeartRateZones); err != nil {
				return nil, fmt.Errorf("decoding zones for %s: %w", s.Date, err)
			}
		}
		if workouts != nil {
			if err := json.Unmarshal(workouts, &s.Workouts); err != nil {
				return nil, fmt.Errorf("decoding workouts for %s: %w", s.Date, err)
			}
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// marshalNullable encodes v as JSON, mapping absent values to SQL NULL.
func marshalNullable(v any, absent bool) ([]byte, error) {
	if absent {
		return nil, nil
	}
	return json.Marshal(v)
}
