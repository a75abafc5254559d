package models

import (
	"fmt"
	"strings"
)

// Sentiment is a headline sentiment label.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Sentiments lists all labels in a fixed order, used for zero-filling counts.
var Sentiments = []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}

// ParseSentiment normalizes a raw label into a Sentiment. Accepts any casing
// and surrounding whitespace; "mixed" is treated as neutral, matching how the
// upstream reports label ambiguous coverage.
func ParseSentiment(s string) (Sentiment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return SentimentPositive, nil
	case "neutral", "mixed":
		return SentimentNeutral, nil
	case "negative":
		return SentimentNegative, nil
	default:
		return "", fmt.Errorf("unrecognized sentiment label %q", s)
	}
}

// Valid reports whether s is one of the three canonical labels.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}
