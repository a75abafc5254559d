package models

import (
	"errors"
	"math"
	"time"
)

// SpikeFlag marks a date where an entity's observed score sharply exceeded
// its trailing baseline. Flags are purely derived; they have no lifecycle of
// their own and are regenerated on every pipeline run.
type SpikeFlag struct {
	ID       string    `json:"id"`
	EntityID string    `json:"entity_id"`
	Date     time.Time `json:"date"`
	Baseline float64   `json:"baseline"` // Mean of the preceding baseline days
	Observed float64   `json:"observed"`
	Ratio    float64   `json:"ratio"` // Observed / Baseline
}

// Validate checks that all spike flag fields are valid.
func (f *SpikeFlag) Validate() error {
	if f.ID == "" {
		return errors.New("spike flag ID must not be empty")
	}
	if f.EntityID == "" {
		return errors.New("spike flag entity ID must not be empty")
	}
	if f.Date.IsZero() {
		return errors.New("spike flag date must not be zero")
	}
	if f.Baseline <= 0 {
		return errors.New("spike flag baseline must be positive")
	}
	if f.Observed < 0 {
		return errors.New("spike flag observed score must not be negative")
	}

	// Verify the ratio matches observed/baseline (small float tolerance).
	if math.Abs(f.Ratio-f.Observed/f.Baseline) > 0.001 {
		return errors.New("spike flag ratio must equal observed/baseline")
	}
	return nil
}
