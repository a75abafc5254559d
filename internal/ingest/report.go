package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"poltrends/internal/models"
)

// ErrMalformedReport indicates a raw report document that cannot be decoded
// at all. Per-section problems are reported as SectionErrors instead and do
// not carry this sentinel.
var ErrMalformedReport = errors.New("malformed report")

// RawHeadline is one headline line from a raw report section, tagged with a
// free-text sentiment label.
type RawHeadline struct {
	Text      string `json:"text"`
	Sentiment string `json:"sentiment"`
}

// RawSection is one entity's block within a raw report. The entity name is
// free text and resolved through the alias table during ingestion. A missing
// score stays nil.
type RawSection struct {
	Entity    string        `json:"entity"`
	Score     *float64      `json:"score,omitempty"`
	Headlines []RawHeadline `json:"headlines,omitempty"`
	Notes     string        `json:"notes,omitempty"`
}

// RawReport is one per-day report document: one section per entity observed
// that day.
type RawReport struct {
	Date     string       `json:"date"`
	Sections []RawSection `json:"sections"`
}

// ParseReport decodes a raw report document from r. The date must be a valid
// calendar date; anything undecodable fails with an ErrMalformedReport-wrapped
// error.
func ParseReport(r io.Reader) (*RawReport, error) {
	var report RawReport
	dec := json.NewDecoder(r)
	if err := dec.Decode(&report); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
	}
	if report.Date == "" {
		return nil, fmt.Errorf("%w: missing date", ErrMalformedReport)
	}
	if _, err := models.ParseDate(report.Date); err != nil {
		return nil, fmt.Errorf("%w: invalid date %q: %v", ErrMalformedReport, report.Date, err)
	}
	return &report, nil
}
