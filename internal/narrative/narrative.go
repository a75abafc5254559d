// Package narrative ranks entity window summaries and renders the weekly
// prose artifact.
//
// Rendering is pure template substitution: every figure in the output comes
// from the structured inputs, and the qualitative outlook is chosen from a
// fixed clause table keyed by (sentiment sign, spike presence). The generator
// can therefore never introduce facts the statistics do not support.
package narrative

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"poltrends/internal/models"
)

// ErrEmptyWindow indicates that no entity in the window has any scored data.
// The run fails rather than emit a narrative with fabricated content.
var ErrEmptyWindow = errors.New("empty window: no entity has scored records")

// Rank orders summaries by average score descending. Ties break by higher
// peak score, then entity ID lexical ascending, making the order total and
// the ranking idempotent.
func Rank(summaries []models.WindowSummary) []models.Ranking {
	sorted := make([]models.WindowSummary, len(summaries))
	copy(sorted, summaries)

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].AvgScore != sorted[j].AvgScore {
			return sorted[i].AvgScore > sorted[j].AvgScore
		}
		if sorted[i].PeakScore != sorted[j].PeakScore {
			return sorted[i].PeakScore > sorted[j].PeakScore
		}
		return sorted[i].EntityID < sorted[j].EntityID
	})

	rankings := make([]models.Ranking, len(sorted))
	for i, s := range sorted {
		rankings[i] = models.Ranking{
			EntityID:  s.EntityID,
			AvgScore:  s.AvgScore,
			PeakScore: s.PeakScore,
		}
	}
	return rankings
}

// sentimentSign buckets a composite score by its sign.
type sentimentSign int

const (
	signNegative sentimentSign = iota - 1
	signNeutral
	signPositive
)

func signOf(composite float64) sentimentSign {
	switch {
	case composite > 0:
		return signPositive
	case composite < 0:
		return signNegative
	default:
		return signNeutral
	}
}

// toneKey selects the forward-looking clause. Modeling the selection as a
// tagged variant keeps the clause set exhaustive and testable.
type toneKey struct {
	sign   sentimentSign
	spiked bool
}

// forwardClauses is the complete fixed clause set. The only substitution is
// the dominant entity's display name.
var forwardClauses = map[toneKey]string{
	{signPositive, true}:  "Momentum and favourable coverage both point upward; expect continued attention on %s next week.",
	{signPositive, false}: "Coverage is favourable and steady; %s heads into next week on solid footing.",
	{signNeutral, true}:   "Attention surged without a clear sentiment shift; whether %s converts it depends on the week ahead.",
	{signNeutral, false}:  "A quiet, balanced week; nothing suggests %s's position will move soon.",
	{signNegative, true}:  "The surge in attention was driven by unfavourable coverage; a difficult week likely awaits %s.",
	{signNegative, false}: "Sentiment remains soft; %s will need a stronger story to reverse the drift.",
}

// Generator renders narratives. Display names are injected so the renderer
// never consults configuration.
type Generator struct {
	names map[string]string // entity ID -> display name
}

// NewGenerator creates a Generator using the given entities' display names.
func NewGenerator(entities []models.Entity) *Generator {
	names := make(map[string]string, len(entities))
	for _, e := range entities {
		names[e.ID] = e.Name
	}
	return &Generator{names: names}
}

// Build ranks the summaries, selects the dominant entity, and renders the
// window narrative. spikes maps entity ID to that entity's window spike
// flags. Returns ErrEmptyWindow when summaries is empty.
func (g *Generator) Build(windowStart, windowEnd time.Time, summaries []models.WindowSummary, spikes map[string][]models.SpikeFlag, generatedAt time.Time) (models.Narrative, error) {
	if len(summaries) == 0 {
		return models.Narrative{}, ErrEmptyWindow
	}

	rankings := Rank(summaries)
	top := rankings[0]

	byID := make(map[string]models.WindowSummary, len(summaries))
	for _, s := range summaries {
		byID[s.EntityID] = s
	}

	body := g.render(windowStart, windowEnd, rankings, byID, spikes)

	narrative := models.Narrative{
		ID:          uuid.New().String(),
		WindowStart: models.Day(windowStart),
		WindowEnd:   models.Day(windowEnd),
		Rankings:    rankings,
		TopEntityID: top.EntityID,
		Body:        body,
		GeneratedAt: generatedAt,
	}
	if err := narrative.Validate(); err != nil {
		return models.Narrative{}, fmt.Errorf("invalid narrative: %w", err)
	}
	return narrative, nil
}

func (g *Generator) render(start, end time.Time, rankings []models.Ranking, byID map[string]models.WindowSummary, spikes map[string][]models.SpikeFlag) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Week in Review: %s to %s\n\n",
		start.Format(models.DateLayout), end.Format(models.DateLayout))

	top := rankings[0]
	topSummary := byID[top.EntityID]
	fmt.Fprintf(&b, "**%s** dominated interest this week with an average score of %.1f, peaking at %.1f on %s.\n\n",
		g.name(top.EntityID), top.AvgScore, top.PeakScore, topSummary.PeakDate.Format(models.DateLayout))

	b.WriteString("### Breakdown\n\n")
	for _, r := range rankings {
		s := byID[r.EntityID]
		fmt.Fprintf(&b, "- **%s**: avg %.1f, peak %.1f on %s, sentiment %d positive / %d neutral / %d negative (%+.2f)\n",
			g.name(r.EntityID),
			s.AvgScore,
			s.PeakScore,
			s.PeakDate.Format(models.DateLayout),
			s.SentimentCounts[models.SentimentPositive],
			s.SentimentCounts[models.SentimentNeutral],
			s.SentimentCounts[models.SentimentNegative],
			s.CompositeSentiment,
		)
	}

	if lines := g.spikeLines(rankings, spikes); len(lines) > 0 {
		b.WriteString("\n### Spikes\n\n")
		for _, line := range lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	key := toneKey{
		sign:   signOf(topSummary.CompositeSentiment),
		spiked: len(spikes[top.EntityID]) > 0,
	}
	fmt.Fprintf(&b, "\n### Outlook\n\n")
	fmt.Fprintf(&b, forwardClauses[key], g.name(top.EntityID))
	b.WriteByte('\n')

	return b.String()
}

// spikeLines renders spike flags in ranking order so output stays
// deterministic regardless of map iteration.
func (g *Generator) spikeLines(rankings []models.Ranking, spikes map[string][]models.SpikeFlag) []string {
	var lines []string
	for _, r := range rankings {
		for _, f := range spikes[r.EntityID] {
			lines = append(lines, fmt.Sprintf("- %s: %s surged to %.1f (%.1fx above the %.1f baseline)",
				f.Date.Format(models.DateLayout), g.name(f.EntityID), f.Observed, f.Ratio, f.Baseline))
		}
	}
	return lines
}

func (g *Generator) name(entityID string) string {
	if n, ok := g.names[entityID]; ok {
		return n
	}
	return entityID
}
