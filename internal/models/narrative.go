package models

import (
	"errors"
	"time"
)

// Ranking is one entity's position in the window ranking, ordered by average
// score descending.
type Ranking struct {
	EntityID  string  `json:"entity_id"`
	AvgScore  float64 `json:"avg_score"`
	PeakScore float64 `json:"peak_score"`
}

// Narrative is the final rendered artifact for one window: the full ranking,
// the dominant entity, and the rendered prose. Created once per window and
// never mutated; writing it out is the file writer's concern.
type Narrative struct {
	ID          string    `json:"id"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	Rankings    []Ranking `json:"rankings"`
	TopEntityID string    `json:"top_entity_id"`
	Body        string    `json:"body"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Validate checks that all narrative fields are valid and internally
// consistent.
func (n *Narrative) Validate() error {
	if n.ID == "" {
		return errors.New("narrative ID must not be empty")
	}
	if n.WindowStart.IsZero() || n.WindowEnd.IsZero() {
		return errors.New("narrative window bounds must not be zero")
	}
	if n.WindowStart.After(n.WindowEnd) {
		return errors.New("narrative window start must not be after window end")
	}
	if len(n.Rankings) == 0 {
		return errors.New("narrative must rank at least one entity")
	}
	if n.TopEntityID != n.Rankings[0].EntityID {
		return errors.New("narrative top entity must be the first ranked entity")
	}
	for i := 1; i < len(n.Rankings); i++ {
		if n.Rankings[i].AvgScore > n.Rankings[i-1].AvgScore {
			return errors.New("narrative rankings must be ordered by average score descending")
		}
	}
	if n.Body == "" {
		return errors.New("narrative body must not be empty")
	}
	return nil
}
