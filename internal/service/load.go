package service

import (
	"context"
	"time"

	"github.com/claude/vitalsync/internal/metrics"
	"github.com/claude/vitalsync/internal/models"
)

// TrainingLoad computes acute and chronic load as of date. The chronic
// window needs four weeks of history, so durable storage is consulted when
// available; without it the published week is all there is and the chronic
// mean will read low.
func (c *Coordinator) TrainingLoad(ctx context.Context, date time.Time) models.TrainingLoad {
	var history []models.DailyHealthSummary
	if c.store != nil {
		from := models.DayKey(date.AddDate(0, 0, -(loadHistoryDays - 1)))
		to := models.DayKey(date)
		if rows, err := c.store.GetDailySummaries(ctx, from, to); err != nil {
			c.log.Warn("loading summary history failed", "error", err)
		} else {
			history = rows
		}
	}
	if history == nil {
		history = c.publishedWindow()
	}
	return metrics.CalculateTrainingLoad(history, date)
}

// publishedWindow flattens the in-memory published state into a summary
// slice.
func (c *Coordinator) publishedWindow() []models.DailyHealthSummary {
	pub, ok := c.sink.(interface {
		WeekSummaries() []models.DailyHealthSummary
	})
	if !ok {
		return nil
	}
	history := pub.WeekSummaries()
	if today := c.sink.TodaySummary(); today != nil {
		history = append(history, *today)
	}
	return history
}
