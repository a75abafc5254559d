package models

import (
	"errors"
	"time"
)

// Headline is one sentiment-labeled headline or mention from a raw report.
type Headline struct {
	Text      string    `json:"text"`
	Sentiment Sentiment `json:"sentiment"`
}

// DailyRecord holds one entity's observations for one calendar date.
// A nil Score means the report carried no interest figure for that day; such
// days are excluded from averaging rather than treated as zero.
// Records are immutable after ingestion.
type DailyRecord struct {
	EntityID  string     `json:"entity_id"`
	Date      time.Time  `json:"date"`
	Score     *float64   `json:"score,omitempty"`
	Headlines []Headline `json:"headlines,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

// HasScore reports whether the record carries an interest score.
func (r *DailyRecord) HasScore() bool {
	return r.Score != nil
}

// Validate checks that all record fields are valid.
func (r *DailyRecord) Validate() error {
	if r.EntityID == "" {
		return errors.New("record entity ID must not be empty")
	}
	if r.Date.IsZero() {
		return errors.New("record date must not be zero")
	}
	if !r.Date.Equal(Day(r.Date)) {
		return errors.New("record date must be truncated to a UTC calendar date")
	}
	if r.Score != nil && *r.Score < 0 {
		return errors.New("record score must not be negative")
	}
	for _, h := range r.Headlines {
		if !h.Sentiment.Valid() {
			return errors.New("headline sentiment must be positive, neutral, or negative")
		}
	}
	return nil
}
