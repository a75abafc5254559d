package telegram

import (
	"strings"
	"testing"
	"time"

	"poltrends/internal/models"
)

func date(s string) time.Time {
	t, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func testClient() *Client {
	return &Client{
		chatID: 123,
		names: map[string]string{
			"alp":  "Labor",
			"phon": "One Nation",
		},
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"2025-08-17", "2025\\-08\\-17"},
		{"avg 30.5", "avg 30\\.5"},
		{"One Nation (PHON)", "One Nation \\(PHON\\)"},
		{"a_b*c[d]e", "a\\_b\\*c\\[d\\]e"},
		{"plain text", "plain text"},
		{"", ""},
	}

	for _, c := range cases {
		if got := escapeMarkdownV2(c.input); got != c.expected {
			t.Errorf("escapeMarkdownV2(%q) = %q, expected %q", c.input, got, c.expected)
		}
	}
}

func TestFormatMessage(t *testing.T) {
	c := testClient()
	n := models.Narrative{
		ID:          "n1",
		WindowStart: date("2025-08-11"),
		WindowEnd:   date("2025-08-17"),
		Rankings: []models.Ranking{
			{EntityID: "alp", AvgScore: 30.5, PeakScore: 40},
			{EntityID: "phon", AvgScore: 12.2, PeakScore: 18},
		},
		TopEntityID: "alp",
		Body:        "ignored by the notifier",
		GeneratedAt: time.Now(),
	}

	msg := c.formatMessage(n)

	for _, want := range []string{
		"*Week in Review* 2025\\-08\\-11 → 2025\\-08\\-17",
		"🏆 Labor dominated the week",
		"1\\. Labor: avg 30\\.5, peak 40\\.0",
		"2\\. One Nation: avg 12\\.2, peak 18\\.0",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("Message missing %q\n---\n%s", want, msg)
		}
	}

	// The full markdown body stays out of the notification.
	if strings.Contains(msg, "ignored by the notifier") {
		t.Error("Notification must not embed the narrative body")
	}
}

func TestFormatMessage_UnknownEntityFallsBackToID(t *testing.T) {
	c := testClient()
	n := models.Narrative{
		ID:          "n1",
		WindowStart: date("2025-08-11"),
		WindowEnd:   date("2025-08-17"),
		Rankings:    []models.Ranking{{EntityID: "xyz", AvgScore: 5, PeakScore: 7}},
		TopEntityID: "xyz",
		GeneratedAt: time.Now(),
	}

	msg := c.formatMessage(n)
	if !strings.Contains(msg, "xyz") {
		t.Errorf("Expected raw entity ID in message, got:\n%s", msg)
	}
}
