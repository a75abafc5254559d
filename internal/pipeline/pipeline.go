// Package pipeline wires the window run together as a weave task graph.
//
// One ingest task normalizes the raw reports into the record store; per-entity
// aggregate and sentiment tasks then fan out in parallel (records are
// immutable and the analysis functions are pure), spike tasks hang off each
// entity's aggregate, and a single narrative task joins everything. A
// caller-imposed timeout cancels the whole graph through ctx; no partial
// narrative is ever returned.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/bpradana/weave"

	"poltrends/internal/analysis"
	"poltrends/internal/ingest"
	"poltrends/internal/logger"
	"poltrends/internal/models"
	"poltrends/internal/narrative"
	"poltrends/internal/storage"
)

// Options hold the analysis parameters for a run.
type Options struct {
	WindowDays   int
	BaselineDays int
	Threshold    float64
	Weights      analysis.Weights
}

// Pipeline executes one batch window run.
type Pipeline struct {
	entities  []models.Entity
	ingestor  *ingest.Ingestor
	store     *storage.Store
	generator *narrative.Generator
	opts      Options
}

// New creates a Pipeline over the given entities, ingestor, and record store.
func New(entities []models.Entity, ing *ingest.Ingestor, store *storage.Store, opts Options) *Pipeline {
	return &Pipeline{
		entities:  entities,
		ingestor:  ing,
		store:     store,
		generator: narrative.NewGenerator(entities),
		opts:      opts,
	}
}

// entityResult carries one entity's derived window data between tasks.
// A nil summary means the entity had no scored records and is omitted from
// ranking; that is the InsufficientData policy, not a failure.
type entityResult struct {
	summary *models.WindowSummary
	records []models.DailyRecord
}

// Run ingests the raw reports and produces the narrative for the window
// ending at windowEnd. Per-section ingest problems and per-entity
// InsufficientData are logged and absorbed; the run fails only on a totally
// empty window, an invalid graph, or context cancellation.
func (p *Pipeline) Run(ctx context.Context, reports []*ingest.RawReport, windowEnd time.Time) (models.Narrative, error) {
	windowEnd = models.Day(windowEnd)
	windowStart := windowEnd.AddDate(0, 0, -(p.opts.WindowDays - 1))
	// Records before the window feed spike baselines only.
	leadStart := windowStart.AddDate(0, 0, -p.opts.BaselineDays)

	graph := weave.NewGraph()

	ingestTask, err := weave.AddTask(graph, "ingest", func(ctx context.Context, deps weave.DependencyResolver) (int, error) {
		stored := 0
		for _, report := range reports {
			records, sectionErrs, err := p.ingestor.Ingest(report)
			if err != nil {
				return 0, err
			}
			for _, se := range sectionErrs {
				logger.Warn("Skipping section: %v", se)
			}
			for _, record := range records {
				if err := p.store.AddRecord(record); err != nil {
					logger.Warn("Skipping record for %s on %s: %v",
						record.EntityID, record.Date.Format(models.DateLayout), err)
					continue
				}
				stored++
			}
		}
		logger.Info("Ingested %d records from %d reports", stored, len(reports))
		return stored, nil
	})
	if err != nil {
		return models.Narrative{}, fmt.Errorf("failed to build graph: %w", err)
	}

	summaryTasks := make(map[string]*weave.Handle[*entityResult], len(p.entities))
	spikeTasks := make(map[string]*weave.Handle[[]models.SpikeFlag], len(p.entities))

	for _, entity := range p.entities {
		entity := entity

		summaryTask, err := weave.AddTask(graph, "summarize:"+entity.ID,
			func(ctx context.Context, deps weave.DependencyResolver) (*entityResult, error) {
				if _, err := ingestTask.Value(deps); err != nil {
					return nil, err
				}
				records := p.store.RecordsInRange(entity.ID, leadStart, windowEnd)
				summary, err := analysis.BuildWindowSummary(entity.ID, records, windowStart, windowEnd, p.opts.Weights)
				if err != nil {
					// Omit from ranking, keep the run going.
					logger.Warn("Omitting %s from ranking: %v", entity.ID, err)
					return &entityResult{records: records}, nil
				}
				return &entityResult{summary: &summary, records: records}, nil
			}, weave.DependsOn(ingestTask))
		if err != nil {
			return models.Narrative{}, fmt.Errorf("failed to build graph: %w", err)
		}
		summaryTasks[entity.ID] = summaryTask

		spikeTask, err := weave.AddTask(graph, "spikes:"+entity.ID,
			func(ctx context.Context, deps weave.DependencyResolver) ([]models.SpikeFlag, error) {
				res, err := summaryTask.Value(deps)
				if err != nil {
					return nil, err
				}
				if res.summary == nil {
					return nil, nil
				}
				return analysis.DetectSpikes(entity.ID, res.records, windowStart, windowEnd,
					p.opts.BaselineDays, p.opts.Threshold), nil
			}, weave.DependsOn(summaryTask))
		if err != nil {
			return models.Narrative{}, fmt.Errorf("failed to build graph: %w", err)
		}
		spikeTasks[entity.ID] = spikeTask
	}

	// The narrative task reads both handles per entity, and weave resolves
	// only declared dependencies, so both must appear in its DependsOn set.
	narrativeDeps := make([]weave.TaskReference, 0, 2*len(p.entities))
	for _, entity := range p.entities {
		narrativeDeps = append(narrativeDeps, summaryTasks[entity.ID], spikeTasks[entity.ID])
	}

	narrativeTask, err := weave.AddTask(graph, "narrative",
		func(ctx context.Context, deps weave.DependencyResolver) (models.Narrative, error) {
			var summaries []models.WindowSummary
			spikes := make(map[string][]models.SpikeFlag)

			for _, entity := range p.entities {
				res, err := summaryTasks[entity.ID].Value(deps)
				if err != nil {
					return models.Narrative{}, err
				}
				if res.summary == nil {
					continue
				}
				summaries = append(summaries, *res.summary)

				flags, err := spikeTasks[entity.ID].Value(deps)
				if err != nil {
					return models.Narrative{}, err
				}
				if len(flags) > 0 {
					spikes[entity.ID] = flags
				}
			}

			return p.generator.Build(windowStart, windowEnd, summaries, spikes, time.Now().UTC())
		}, weave.DependsOn(narrativeDeps...))
	if err != nil {
		return models.Narrative{}, fmt.Errorf("failed to build graph: %w", err)
	}

	results, metrics, err := graph.Run(ctx)
	if err != nil {
		return models.Narrative{}, err
	}
	logger.Debug("Pipeline graph completed: %d/%d tasks in %v",
		metrics.TasksSucceeded, metrics.TasksTotal, metrics.Duration)

	return narrativeTask.Value(results)
}
