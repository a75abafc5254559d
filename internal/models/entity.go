// Package models defines the core domain entities for the poltrends pipeline.
// These models represent tracked political entities, their per-day
// observations, derived window statistics, and the rendered narrative.
// All models include built-in validation to ensure data integrity throughout
// the pipeline.
//
// Everything here is immutable after creation: records are never mutated once
// ingested, and derived values (WindowSummary, SpikeFlag, Narrative) are
// replaced wholesale rather than updated in place.
package models

import "errors"

// Entity is a tracked political party or topic. Entities are created once
// from the configured entity list and never change afterwards.
type Entity struct {
	ID   string `json:"id"`   // Stable identifier, e.g. "one_nation"
	Name string `json:"name"` // Display name, e.g. "One Nation"
}

// Validate checks that all entity fields are valid.
func (e *Entity) Validate() error {
	if e.ID == "" {
		return errors.New("entity ID must not be empty")
	}
	if e.Name == "" {
		return errors.New("entity name must not be empty")
	}
	return nil
}
