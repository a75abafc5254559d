package analysis

import (
	"time"

	"poltrends/internal/models"
)

// Weights control the composite sentiment formula. Unit weights give the
// plain (positive - negative) / total formula; other values let operators
// penalize or reward one polarity more heavily.
type Weights struct {
	Positive float64
	Negative float64
}

// DefaultWeights returns unit weighting.
func DefaultWeights() Weights {
	return Weights{Positive: 1.0, Negative: 1.0}
}

// SentimentTally holds an entity's headline label counts over one window.
// Counts always contain all three labels, zero-filled.
type SentimentTally struct {
	Counts    map[models.Sentiment]int
	Total     int
	Composite float64 // In [-1, 1]; exactly 0 when Total is 0
}

// SummarizeSentiment tallies headline labels across all records in
// [start, end] and computes the composite score
// (wP·positive − wN·negative) / total, clamped to [-1, 1].
// An empty window yields exactly 0.0, never NaN.
func SummarizeSentiment(records []models.DailyRecord, start, end time.Time, w Weights) SentimentTally {
	start, end = models.Day(start), models.Day(end)

	tally := SentimentTally{Counts: make(map[models.Sentiment]int, len(models.Sentiments))}
	for _, label := range models.Sentiments {
		tally.Counts[label] = 0
	}

	for _, r := range records {
		if !inRange(r.Date, start, end) {
			continue
		}
		for _, h := range r.Headlines {
			tally.Counts[h.Sentiment]++
			tally.Total++
		}
	}

	if tally.Total == 0 {
		return tally
	}

	net := w.Positive*float64(tally.Counts[models.SentimentPositive]) -
		w.Negative*float64(tally.Counts[models.SentimentNegative])
	tally.Composite = clamp(net/float64(tally.Total), -1.0, 1.0)
	return tally
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
