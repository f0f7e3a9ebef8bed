package metrics

import (
	"sort"
	"time"

	"github.com/claude/vitalsync/internal/models"
)

// DefaultMaxHR is assumed when the athlete's max heart rate is not configured.
const DefaultMaxHR = 190

// lastSampleDuration is credited to the final sample of a day, which has no
// successor to infer a duration from.
const lastSampleDuration = time.Minute

// zoneFractions are the lower boundaries of each zone as fractions of max HR.
// Together they partition [0, maxHR] into contiguous, non-overlapping bands.
var zoneFractions = []struct {
	zone Zone
	lo   float64
	hi   float64
}{
	{models.ZoneRest, 0, 0.5},
	{models.ZoneFatBurn, 0.5, 0.6},
	{models.ZoneCardio, 0.6, 0.7},
	{models.ZonePeak, 0.7, 0.85},
	{models.ZoneMax, 0.85, 1.0},
}

// Zone is re-exported for the boundary table above.
type Zone = models.Zone

// ClassifyZones distributes a day's heart-rate samples into zone buckets.
// Each sample contributes the time until the next sample to the zone its BPM
// falls in; the last sample contributes a fixed default duration. Fewer than
// two samples cannot support a duration estimate and yield all-zero buckets.
// Minutes and percentages are full precision; callers round for display.
func ClassifyZones(samples []models.HeartRateSample, maxHR float64) []models.ZoneBucket {
	buckets := make([]models.ZoneBucket, len(zoneFractions))
	if maxHR <= 0 {
		maxHR = DefaultMaxHR
	}
	for i, zf := range zoneFractions {
		buckets[i] = models.ZoneBucket{
			Zone:   zf.zone,
			MinBPM: zf.lo * maxHR,
			MaxBPM: zf.hi * maxHR,
		}
	}

	if len(samples) < 2 {
		return buckets
	}

	sorted := make([]models.HeartRateSample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	var total float64
	for i, s := range sorted {
		var dur time.Duration
		if i == len(sorted)-1 {
			dur = lastSampleDuration
		} else {
			dur = sorted[i+1].Time.Sub(s.Time)
		}
		if dur <= 0 {
			continue
		}
		minutes := dur.Minutes()
		buckets[zoneIndex(s.BPM, maxHR)].Minutes += minutes
		total += minutes
	}

	if total > 0 {
		for i := range buckets {
			buckets[i].Percentage = buckets[i].Minutes / total * 100
		}
	}
	return buckets
}

// zoneIndex returns the bucket index for a BPM reading. Readings above maxHR
// clamp into the max zone rather than being dropped.
func zoneIndex(bpm, maxHR float64) int {
	for i, zf := range zoneFractions[:len(zoneFractions)-1] {
		if bpm < zf.hi*maxHR {
			return i
		}
	}
	return len(zoneFractions) - 1
}
