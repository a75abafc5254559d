// Package reportio holds the filesystem collaborators at the pipeline
// boundary: reading dated raw report documents and writing the rendered
// narrative. The core never performs I/O itself.
//
// Layout follows the flat dated-document convention:
//
//	<raw_dir>/<date>/report.json
//	<out_dir>/<window-end-date>/narrative.md
package reportio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"poltrends/internal/ingest"
	"poltrends/internal/logger"
	"poltrends/internal/models"
)

const (
	reportFileName    = "report.json"
	narrativeFileName = "narrative.md"
	filePermissions   = os.FileMode(0o644)
	dirPermissions    = os.FileMode(0o755)
)

// LoadReports reads the raw report for each of the given dates. Days without
// a report are skipped silently; days with an undecodable report are logged
// and skipped (the rest of the window still runs). Reports whose embedded
// date disagrees with their directory are logged and kept — the embedded date
// is authoritative.
func LoadReports(rawDir string, dates []time.Time) ([]*ingest.RawReport, error) {
	var reports []*ingest.RawReport

	for _, date := range dates {
		dateStr := models.Day(date).Format(models.DateLayout)
		path := filepath.Join(rawDir, dateStr, reportFileName)

		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to open report %s: %w", path, err)
		}

		report, parseErr := ingest.ParseReport(f)
		_ = f.Close()
		if parseErr != nil {
			logger.Warn("Skipping report %s: %v", path, parseErr)
			continue
		}
		if report.Date != dateStr {
			logger.Warn("Report %s carries date %s; using the embedded date", path, report.Date)
		}
		reports = append(reports, report)
	}

	return reports, nil
}

// WriteNarrative writes the narrative body to
// <outDir>/<window-end-date>/narrative.md atomically and returns the path.
func WriteNarrative(outDir string, n models.Narrative) (string, error) {
	dir := filepath.Join(outDir, n.WindowEnd.Format(models.DateLayout))
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, narrativeFileName)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, []byte(n.Body), filePermissions); err != nil {
		return "", fmt.Errorf("failed to write narrative: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("failed to rename narrative: %w", err)
	}
	return path, nil
}
