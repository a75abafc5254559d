package models

import (
	"testing"
	"time"
)

func scorePtr(v float64) *float64 { return &v }

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return Day(t)
}

func TestParseSentiment(t *testing.T) {
	cases := []struct {
		in      string
		want    Sentiment
		wantErr bool
	}{
		{"positive", SentimentPositive, false},
		{"  Negative ", SentimentNegative, false},
		{"NEUTRAL", SentimentNeutral, false},
		{"mixed", SentimentNeutral, false},
		{"glorious", "", true},
		{"", "", true},
	}

	for _, c := range cases {
		got, err := ParseSentiment(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseSentiment(%q): expected error, got %q", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSentiment(%q) failed: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseSentiment(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDatesBetween(t *testing.T) {
	dates := DatesBetween(date("2025-08-11"), date("2025-08-13"))
	if len(dates) != 3 {
		t.Fatalf("Expected 3 dates, got %d", len(dates))
	}
	if !dates[0].Equal(date("2025-08-11")) || !dates[2].Equal(date("2025-08-13")) {
		t.Errorf("Unexpected bounds: %v .. %v", dates[0], dates[2])
	}

	if got := DatesBetween(date("2025-08-13"), date("2025-08-11")); got != nil {
		t.Errorf("Expected nil for inverted range, got %d dates", len(got))
	}
}

func TestDailyRecordValidate(t *testing.T) {
	valid := DailyRecord{
		EntityID: "alp",
		Date:     date("2025-08-11"),
		Score:    scorePtr(42),
		Headlines: []Headline{
			{Text: "Budget passes", Sentiment: SentimentPositive},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Valid record failed validation: %v", err)
	}

	noScore := DailyRecord{EntityID: "alp", Date: date("2025-08-11")}
	if err := noScore.Validate(); err != nil {
		t.Errorf("Record without score should be valid: %v", err)
	}
	if noScore.HasScore() {
		t.Error("HasScore should be false for nil score")
	}

	cases := []struct {
		name   string
		mutate func(r *DailyRecord)
	}{
		{"empty entity", func(r *DailyRecord) { r.EntityID = "" }},
		{"zero date", func(r *DailyRecord) { r.Date = time.Time{} }},
		{"untruncated date", func(r *DailyRecord) { r.Date = r.Date.Add(3 * time.Hour) }},
		{"negative score", func(r *DailyRecord) { r.Score = scorePtr(-1) }},
		{"bad sentiment", func(r *DailyRecord) { r.Headlines[0].Sentiment = "meh" }},
	}
	for _, c := range cases {
		r := valid
		r.Headlines = []Headline{{Text: "x", Sentiment: SentimentNeutral}}
		c.mutate(&r)
		if err := r.Validate(); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

func validSummary() WindowSummary {
	return WindowSummary{
		EntityID:    "alp",
		WindowStart: date("2025-08-11"),
		WindowEnd:   date("2025-08-17"),
		AvgScore:    20,
		PeakScore:   30,
		PeakDate:    date("2025-08-15"),
		SentimentCounts: map[Sentiment]int{
			SentimentPositive: 2,
			SentimentNeutral:  3,
			SentimentNegative: 1,
		},
		LabelTotal:         6,
		CompositeSentiment: 1.0 / 6.0,
	}
}

func TestWindowSummaryValidate(t *testing.T) {
	s := validSummary()
	if err := s.Validate(); err != nil {
		t.Errorf("Valid summary failed validation: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(s *WindowSummary)
	}{
		{"inverted window", func(s *WindowSummary) { s.WindowStart, s.WindowEnd = s.WindowEnd, s.WindowStart }},
		{"peak date outside window", func(s *WindowSummary) { s.PeakDate = date("2025-08-20") }},
		{"avg above peak", func(s *WindowSummary) { s.AvgScore = 31 }},
		{"missing label", func(s *WindowSummary) { delete(s.SentimentCounts, SentimentNegative) }},
		{"negative count", func(s *WindowSummary) { s.SentimentCounts[SentimentNeutral] = -1 }},
		{"counts sum mismatch", func(s *WindowSummary) { s.LabelTotal = 7 }},
		{"composite out of range", func(s *WindowSummary) { s.CompositeSentiment = 1.5 }},
		{"nonzero composite with no labels", func(s *WindowSummary) {
			for k := range s.SentimentCounts {
				s.SentimentCounts[k] = 0
			}
			s.LabelTotal = 0
			s.CompositeSentiment = 0.2
		}},
	}
	for _, c := range cases {
		s := validSummary()
		// Fresh map so mutations don't leak between cases.
		counts := make(map[Sentiment]int, len(s.SentimentCounts))
		for k, v := range s.SentimentCounts {
			counts[k] = v
		}
		s.SentimentCounts = counts
		c.mutate(&s)
		if err := s.Validate(); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

func TestSpikeFlagValidate(t *testing.T) {
	f := SpikeFlag{
		ID:       "flag-1",
		EntityID: "phon",
		Date:     date("2025-08-17"),
		Baseline: 25,
		Observed: 30,
		Ratio:    1.2,
	}
	if err := f.Validate(); err != nil {
		t.Errorf("Valid flag failed validation: %v", err)
	}

	f.Ratio = 2.0
	if err := f.Validate(); err == nil {
		t.Error("Expected error for ratio not matching observed/baseline")
	}

	f.Ratio = 1.2
	f.Baseline = 0
	if err := f.Validate(); err == nil {
		t.Error("Expected error for zero baseline")
	}
}

func TestNarrativeValidate(t *testing.T) {
	n := Narrative{
		ID:          "n-1",
		WindowStart: date("2025-08-11"),
		WindowEnd:   date("2025-08-17"),
		Rankings: []Ranking{
			{EntityID: "alp", AvgScore: 30, PeakScore: 40},
			{EntityID: "grn", AvgScore: 20, PeakScore: 25},
		},
		TopEntityID: "alp",
		Body:        "## Week in Review",
		GeneratedAt: time.Now(),
	}
	if err := n.Validate(); err != nil {
		t.Errorf("Valid narrative failed validation: %v", err)
	}

	bad := n
	bad.TopEntityID = "grn"
	if err := bad.Validate(); err == nil {
		t.Error("Expected error when top entity is not rank 1")
	}

	bad = n
	bad.Rankings = []Ranking{
		{EntityID: "grn", AvgScore: 20},
		{EntityID: "alp", AvgScore: 30},
	}
	bad.TopEntityID = "grn"
	if err := bad.Validate(); err == nil {
		t.Error("Expected error for unordered rankings")
	}

	bad = n
	bad.Rankings = nil
	if err := bad.Validate(); err == nil {
		t.Error("Expected error for empty rankings")
	}
}
