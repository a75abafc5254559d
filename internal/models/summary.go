package models

import (
	"errors"
	"time"
)

// WindowSummary holds the derived statistics for one entity over a contiguous
// date range. Summaries are recomputed from scratch whenever the window or its
// underlying records change; they are never mutated in place.
type WindowSummary struct {
	EntityID           string            `json:"entity_id"`
	WindowStart        time.Time         `json:"window_start"`
	WindowEnd          time.Time         `json:"window_end"`
	AvgScore           float64           `json:"avg_score"`  // Mean over days with a score
	PeakScore          float64           `json:"peak_score"` // Max score in range
	PeakDate           time.Time         `json:"peak_date"`  // Earliest date achieving the peak
	SentimentCounts    map[Sentiment]int `json:"sentiment_counts"`
	LabelTotal         int               `json:"label_total"`         // Sum of SentimentCounts
	CompositeSentiment float64           `json:"composite_sentiment"` // Net positivity in [-1, 1]
}

// Validate checks that all summary fields are valid and internally consistent.
func (s *WindowSummary) Validate() error {
	if s.EntityID == "" {
		return errors.New("summary entity ID must not be empty")
	}
	if s.WindowStart.IsZero() || s.WindowEnd.IsZero() {
		return errors.New("summary window bounds must not be zero")
	}
	if s.WindowStart.After(s.WindowEnd) {
		return errors.New("summary window start must not be after window end")
	}
	if s.PeakDate.Before(s.WindowStart) || s.PeakDate.After(s.WindowEnd) {
		return errors.New("summary peak date must fall within the window")
	}
	if s.AvgScore < 0 || s.PeakScore < 0 {
		return errors.New("summary scores must not be negative")
	}
	if s.AvgScore > s.PeakScore {
		return errors.New("summary average must not exceed the peak")
	}

	// All three labels must be present, zero-filled, and sum to LabelTotal.
	total := 0
	for _, label := range Sentiments {
		count, ok := s.SentimentCounts[label]
		if !ok {
			return errors.New("summary sentiment counts must include all three labels")
		}
		if count < 0 {
			return errors.New("summary sentiment counts must not be negative")
		}
		total += count
	}
	if len(s.SentimentCounts) != len(Sentiments) {
		return errors.New("summary sentiment counts must contain only the three labels")
	}
	if total != s.LabelTotal {
		return errors.New("summary sentiment counts must sum to the label total")
	}

	if s.CompositeSentiment < -1.0 || s.CompositeSentiment > 1.0 {
		return errors.New("summary composite sentiment must be between -1.0 and 1.0")
	}
	if s.LabelTotal == 0 && s.CompositeSentiment != 0.0 {
		return errors.New("summary composite sentiment must be exactly 0 when no labels exist")
	}
	return nil
}
