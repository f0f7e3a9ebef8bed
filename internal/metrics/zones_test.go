package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/claude/vitalsync/internal/models"
)

func hrSample(base time.Time, offset time.Duration, bpm float64) models.HeartRateSample {
	return models.HeartRateSample{Time: base.Add(offset), BPM: bpm}
}

// TestClassifyZonesBoundaries verifies the buckets partition [0, maxHR] with
// contiguous, non-overlapping boundaries for an arbitrary max heart rate.
func TestClassifyZonesBoundaries(t *testing.T) {
	for _, maxHR := range []float64{150, 185, 190, 203} {
		buckets := ClassifyZones(nil, maxHR)
		if len(buckets) != 5 {
			t.Fatalf("maxHR=%v: got %d buckets, want 5", maxHR, len(buckets))
		}
		if buckets[0].MinBPM != 0 {
			t.Errorf("maxHR=%v: first bucket starts at %v, want 0", maxHR, buckets[0].MinBPM)
		}
		if buckets[len(buckets)-1].MaxBPM != maxHR {
			t.Errorf("maxHR=%v: last bucket ends at %v, want %v", maxHR, buckets[len(buckets)-1].MaxBPM, maxHR)
		}
		for i := 1; i < len(buckets); i++ {
			if buckets[i].MinBPM != buckets[i-1].MaxBPM {
				t.Errorf("maxHR=%v: bucket %d starts at %v, previous ends at %v",
					maxHR, i, buckets[i].MinBPM, buckets[i-1].MaxBPM)
			}
		}
	}
}

// TestClassifyZonesTooFewSamples verifies that fewer than two samples yield
// all-zero buckets, since no duration can be inferred.
func TestClassifyZonesTooFewSamples(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	for _, samples := range [][]models.HeartRateSample{
		nil,
		{hrSample(base, 0, 120)},
	} {
		for _, b := range ClassifyZones(samples, 190) {
			if b.Minutes != 0 || b.Percentage != 0 {
				t.Errorf("%d samples: bucket %s has minutes=%v pct=%v, want zeros",
					len(samples), b.Zone, b.Minutes, b.Percentage)
			}
		}
	}
}

// TestClassifyZonesDurations verifies inter-sample duration attribution: each
// sample contributes time-to-next to its own zone, and total minutes across
// buckets equals total tracked duration.
func TestClassifyZonesDurations(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	maxHR := 190.0
	samples := []models.HeartRateSample{
		hrSample(base, 0, 80),                // rest (< 95), 2 min to next
		hrSample(base, 2*time.Minute, 100),   // fat_burn [95,114), 3 min
		hrSample(base, 5*time.Minute, 125),   // cardio [114,133), 1 min
		hrSample(base, 6*time.Minute, 170),   // max (>= 161.5), default last duration
	}

	buckets := ClassifyZones(samples, maxHR)
	byZone := map[models.Zone]models.ZoneBucket{}
	var total float64
	for _, b := range buckets {
		byZone[b.Zone] = b
		total += b.Minutes
	}

	wantTotal := 6 + lastSampleDuration.Minutes()
	if math.Abs(total-wantTotal) > 1e-9 {
		t.Errorf("total minutes = %v, want %v", total, wantTotal)
	}
	if got := byZone[models.ZoneRest].Minutes; got != 2 {
		t.Errorf("rest minutes = %v, want 2", got)
	}
	if got := byZone[models.ZoneFatBurn].Minutes; got != 3 {
		t.Errorf("fat_burn minutes = %v, want 3", got)
	}
	if got := byZone[models.ZoneCardio].Minutes; got != 1 {
		t.Errorf("cardio minutes = %v, want 1", got)
	}
	if got := byZone[models.ZoneMax].Minutes; got != lastSampleDuration.Minutes() {
		t.Errorf("max minutes = %v, want %v", got, lastSampleDuration.Minutes())
	}

	var pctSum float64
	for _, b := range buckets {
		pctSum += b.Percentage
	}
	if math.Abs(pctSum-100) > 1e-9 {
		t.Errorf("percentages sum to %v, want 100", pctSum)
	}
}

// TestClassifyZonesUnsortedInput verifies samples are ordered by time before
// durations are inferred, so out-of-order provider batches classify the same.
func TestClassifyZonesUnsortedInput(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	ordered := []models.HeartRateSample{
		hrSample(base, 0, 90),
		hrSample(base, 2*time.Minute, 120),
		hrSample(base, 4*time.Minute, 150),
	}
	shuffled := []models.HeartRateSample{ordered[2], ordered[0], ordered[1]}

	a := ClassifyZones(ordered, 190)
	b := ClassifyZones(shuffled, 190)
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("bucket %d differs: ordered=%+v shuffled=%+v", i, a[i], b[i])
		}
	}
}
