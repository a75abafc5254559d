// Package analysis provides the pure statistics over immutable DailyRecords:
// window score aggregation, sentiment tallying, and spike detection.
//
// Every function here is deterministic: identical record inputs always yield
// bit-identical outputs. Nothing reads the clock, nothing mutates its inputs,
// and nothing holds hidden state, so callers may evaluate entities in
// parallel without coordination.
package analysis

import (
	"errors"
	"time"

	"poltrends/internal/models"
)

// ErrInsufficientData indicates a window containing no record with a score
// for the entity. Callers omit such entities from ranking and continue.
var ErrInsufficientData = errors.New("insufficient data: no scored records in window")

// Aggregate holds an entity's score statistics over one window.
type Aggregate struct {
	AvgScore   float64
	PeakScore  float64
	PeakDate   time.Time
	ScoredDays int // Days in range that carried a score
}

// AggregateScores computes the average, peak, and peak date over all records
// in [start, end]. Days without a score are excluded from the average, never
// treated as zero. Peak ties resolve to the earliest date. Returns
// ErrInsufficientData when no record in range carries a score.
func AggregateScores(records []models.DailyRecord, start, end time.Time) (Aggregate, error) {
	start, end = models.Day(start), models.Day(end)

	var agg Aggregate
	var sum float64

	for _, r := range records {
		if !inRange(r.Date, start, end) || !r.HasScore() {
			continue
		}
		score := *r.Score
		sum += score
		agg.ScoredDays++

		// Ties resolve to the earliest date regardless of input order.
		if agg.ScoredDays == 1 || score > agg.PeakScore ||
			(score == agg.PeakScore && r.Date.Before(agg.PeakDate)) {
			agg.PeakScore = score
			agg.PeakDate = r.Date
		}
	}

	if agg.ScoredDays == 0 {
		return Aggregate{}, ErrInsufficientData
	}

	agg.AvgScore = sum / float64(agg.ScoredDays)
	return agg, nil
}

func inRange(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}
