package analysis

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"poltrends/internal/models"
)

// DetectSpikes flags every date in [start, end] whose score is at least
// threshold times the mean of the scores on the baselineDays dates
// immediately preceding it. Records before the window start contribute to
// baselines only, letting early-window days be judged against real history.
//
// A date with no prior observation among its baseline days is never flagged:
// an empty baseline is insufficient evidence, not a spike. A zero baseline
// never flags either, since the ratio is undefined. Flags are independent per
// date; multiple flags per window are allowed. Returned flags are ordered by
// date ascending.
func DetectSpikes(entityID string, records []models.DailyRecord, start, end time.Time, baselineDays int, threshold float64) []models.SpikeFlag {
	if baselineDays < 1 || threshold <= 0 {
		return nil
	}
	start, end = models.Day(start), models.Day(end)

	// Index scores by date; last record wins for duplicate dates, matching
	// the store's replace-on-rewrite semantics.
	scores := make(map[time.Time]float64, len(records))
	for _, r := range records {
		if r.HasScore() {
			scores[models.Day(r.Date)] = *r.Score
		}
	}

	var flags []models.SpikeFlag
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		observed, ok := scores[d]
		if !ok {
			continue
		}

		var sum float64
		prior := 0
		for i := 1; i <= baselineDays; i++ {
			if v, ok := scores[d.AddDate(0, 0, -i)]; ok {
				sum += v
				prior++
			}
		}
		if prior < 1 {
			continue
		}

		baseline := sum / float64(prior)
		if baseline <= 0 {
			continue
		}
		if observed >= baseline*threshold {
			flags = append(flags, models.SpikeFlag{
				ID:       uuid.New().String(),
				EntityID: entityID,
				Date:     d,
				Baseline: baseline,
				Observed: observed,
				Ratio:    observed / baseline,
			})
		}
	}

	sort.Slice(flags, func(i, j int) bool { return flags[i].Date.Before(flags[j].Date) })
	return flags
}
