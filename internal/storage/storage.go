// Package storage provides a thread-safe in-memory store of DailyRecords
// with file-based persistence.
//
// Records are grouped per entity and kept at day granularity. Persistence is
// a versioned JSON file written atomically (temp file + rename) so a crash
// mid-save never corrupts the previous state. Retention-based rotation drops
// records older than the configured horizon to keep the file bounded.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"poltrends/internal/models"
)

const (
	persistenceVersion = "1.0"
	filePermissions    = os.FileMode(0o600)
	dirPermissions     = os.FileMode(0o700)
)

// Store holds DailyRecords keyed by entity ID.
type Store struct {
	records       map[string][]models.DailyRecord
	mu            sync.RWMutex
	filePath      string
	retentionDays int
}

// persistenceFile is the on-disk structure.
type persistenceFile struct {
	Version string                          `json:"version"`
	SavedAt time.Time                       `json:"saved_at"`
	Records map[string][]models.DailyRecord `json:"records"`
}

// New creates a Store persisting to filePath. An empty path falls back to an
// OS-appropriate tmp location. retentionDays bounds how far back records are
// kept by RotateRecords; values below 1 disable rotation.
func New(filePath string, retentionDays int) *Store {
	if filePath == "" {
		filePath = filepath.Join(os.TempDir(), "poltrends", "records.json")
	}
	return &Store{
		records:       make(map[string][]models.DailyRecord),
		filePath:      filePath,
		retentionDays: retentionDays,
	}
}

// AddRecord inserts a record, replacing any existing record for the same
// entity and date. Re-running a day's ingestion therefore converges on the
// latest report rather than duplicating observations.
func (s *Store) AddRecord(record models.DailyRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.records[record.EntityID]
	for i, existing := range recs {
		if models.SameDay(existing.Date, record.Date) {
			recs[i] = record
			return nil
		}
	}
	s.records[record.EntityID] = append(recs, record)
	return nil
}

// RecordsInRange returns copies of the entity's records with dates in
// [start, end], sorted by date ascending. Unknown entities yield an empty
// slice, not an error.
func (s *Store) RecordsInRange(entityID string, start, end time.Time) []models.DailyRecord {
	start, end = models.Day(start), models.Day(end)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []models.DailyRecord
	for _, r := range s.records[entityID] {
		if !r.Date.Before(start) && !r.Date.After(end) {
			filtered = append(filtered, r)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Date.Before(filtered[j].Date)
	})
	return filtered
}

// EntityIDs returns the IDs of all entities with at least one record, sorted.
func (s *Store) EntityIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the total number of stored records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, recs := range s.records {
		total += len(recs)
	}
	return total
}

// Save persists the store state atomically.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data := persistenceFile{
		Version: persistenceVersion,
		SavedAt: time.Now().UTC(),
		Records: s.records,
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	tempPath := s.filePath + ".tmp"
	if err := os.WriteFile(tempPath, jsonData, filePermissions); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tempPath, s.filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

// Load restores state from the persistence file. A missing file is not an
// error; the store simply starts empty. Stale temp files from a previous
// crash are removed first.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tempPath := s.filePath + ".tmp"
	if _, err := os.Stat(tempPath); err == nil {
		_ = os.Remove(tempPath)
	}

	if _, err := os.Stat(s.filePath); os.IsNotExist(err) {
		return nil
	}

	jsonData, err := os.ReadFile(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var data persistenceFile
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return fmt.Errorf("failed to unmarshal records: %w", err)
	}

	s.records = data.Records
	if s.records == nil {
		s.records = make(map[string][]models.DailyRecord)
	}
	return nil
}

// RotateRecords drops records older than the retention horizon relative to
// now. Entities left with no records are removed entirely.
func (s *Store) RotateRecords(now time.Time) error {
	if s.retentionDays < 1 {
		return nil
	}
	cutoff := models.Day(now).AddDate(0, 0, -s.retentionDays)

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, recs := range s.records {
		kept := recs[:0]
		for _, r := range recs {
			if !r.Date.Before(cutoff) {
				kept = append(kept, r)
			}
		}
		if len(kept) == 0 {
			delete(s.records, id)
			continue
		}
		s.records[id] = kept
	}
	return nil
}
