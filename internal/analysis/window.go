package analysis

import (
	"time"

	"poltrends/internal/models"
)

// BuildWindowSummary composes score aggregation and sentiment tallying into a
// WindowSummary for one entity. Returns ErrInsufficientData when the window
// has no scored records; sentiment alone does not make an entity rankable.
func BuildWindowSummary(entityID string, records []models.DailyRecord, start, end time.Time, w Weights) (models.WindowSummary, error) {
	agg, err := AggregateScores(records, start, end)
	if err != nil {
		return models.WindowSummary{}, err
	}
	tally := SummarizeSentiment(records, start, end, w)

	return models.WindowSummary{
		EntityID:           entityID,
		WindowStart:        models.Day(start),
		WindowEnd:          models.Day(end),
		AvgScore:           agg.AvgScore,
		PeakScore:          agg.PeakScore,
		PeakDate:           agg.PeakDate,
		SentimentCounts:    tally.Counts,
		LabelTotal:         tally.Total,
		CompositeSentiment: tally.Composite,
	}, nil
}
