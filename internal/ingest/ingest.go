// Package ingest normalizes raw per-day report documents into DailyRecords.
//
// Entity names in raw reports are free text; the Ingestor resolves them
// through a configured alias table (canonical names and aliases, matched
// case-insensitively). Sections that cannot be resolved or that carry
// unparseable sentiment labels are skipped with a per-section error so one
// bad section never aborts the rest of the report.
package ingest

import (
	"errors"
	"fmt"
	"strings"

	"poltrends/internal/models"
)

// ErrUnknownEntity indicates a section whose entity name resolves to no
// configured entity, even via the alias table.
var ErrUnknownEntity = errors.New("unknown entity")

// ErrMalformedRecord indicates a section that resolved to an entity but whose
// content could not be normalized (e.g. an unrecognized sentiment label).
var ErrMalformedRecord = errors.New("malformed record")

// SectionError is a per-section, non-fatal ingestion error.
type SectionError struct {
	Entity string // Raw entity name as it appeared in the report
	Date   string
	Err    error
}

func (e SectionError) Error() string {
	return fmt.Sprintf("ingest error for %q on %s: %v", e.Entity, e.Date, e.Err)
}

func (e SectionError) Unwrap() error { return e.Err }

// Ingestor turns raw report sections into DailyRecords. The alias table is
// injected at construction; there is no package-level state.
type Ingestor struct {
	byName   map[string]string // normalized name or alias -> entity ID
	entities map[string]models.Entity
}

// New creates an Ingestor for the given entity list. aliases maps raw names
// to entity IDs; entity IDs and display names resolve implicitly.
func New(entities []models.Entity, aliases map[string]string) *Ingestor {
	ing := &Ingestor{
		byName:   make(map[string]string),
		entities: make(map[string]models.Entity, len(entities)),
	}
	for _, e := range entities {
		ing.entities[e.ID] = e
		ing.byName[normalizeName(e.ID)] = e.ID
		ing.byName[normalizeName(e.Name)] = e.ID
	}
	for raw, id := range aliases {
		if _, ok := ing.entities[id]; !ok {
			continue // alias pointing at an unconfigured entity is ignored
		}
		ing.byName[normalizeName(raw)] = id
	}
	return ing
}

// Resolve maps a raw entity name to its canonical entity ID.
func (ing *Ingestor) Resolve(name string) (string, bool) {
	id, ok := ing.byName[normalizeName(name)]
	return id, ok
}

// Ingest produces one DailyRecord per resolvable section of the report.
// Sections that fail resolution or normalization are returned as
// SectionErrors; the caller logs them and continues. The report itself is
// never mutated. A fatal error is returned only when the report date is
// invalid, which ParseReport already guards against.
func (ing *Ingestor) Ingest(report *RawReport) ([]models.DailyRecord, []SectionError, error) {
	date, err := models.ParseDate(report.Date)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid date %q", ErrMalformedReport, report.Date)
	}

	var records []models.DailyRecord
	var sectionErrs []SectionError

	for _, section := range report.Sections {
		entityID, ok := ing.Resolve(section.Entity)
		if !ok {
			sectionErrs = append(sectionErrs, SectionError{
				Entity: section.Entity,
				Date:   report.Date,
				Err:    ErrUnknownEntity,
			})
			continue
		}

		headlines, err := normalizeHeadlines(section.Headlines)
		if err != nil {
			sectionErrs = append(sectionErrs, SectionError{
				Entity: section.Entity,
				Date:   report.Date,
				Err:    fmt.Errorf("%w: %v", ErrMalformedRecord, err),
			})
			continue
		}

		record := models.DailyRecord{
			EntityID:  entityID,
			Date:      date,
			Score:     copyScore(section.Score),
			Headlines: headlines,
			Notes:     section.Notes,
		}
		if err := record.Validate(); err != nil {
			sectionErrs = append(sectionErrs, SectionError{
				Entity: section.Entity,
				Date:   report.Date,
				Err:    fmt.Errorf("%w: %v", ErrMalformedRecord, err),
			})
			continue
		}
		records = append(records, record)
	}

	return records, sectionErrs, nil
}

func normalizeHeadlines(raw []RawHeadline) ([]models.Headline, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	headlines := make([]models.Headline, 0, len(raw))
	for _, h := range raw {
		label, err := models.ParseSentiment(h.Sentiment)
		if err != nil {
			return nil, err
		}
		headlines = append(headlines, models.Headline{Text: h.Text, Sentiment: label})
	}
	return headlines, nil
}

// copyScore detaches the score pointer from the raw document so records never
// alias ingestor input.
func copyScore(s *float64) *float64 {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
