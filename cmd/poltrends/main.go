package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"poltrends/internal/analysis"
	"poltrends/internal/config"
	"poltrends/internal/ingest"
	"poltrends/internal/logger"
	"poltrends/internal/models"
	"poltrends/internal/narrative"
	"poltrends/internal/pipeline"
	"poltrends/internal/reportio"
	"poltrends/internal/storage"
	"poltrends/internal/telegram"
)

var (
	configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")
	windowDate = flag.String("date", "", "Window end date (YYYY-MM-DD, default today UTC)")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logging with level support
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	windowEnd := models.Day(time.Now())
	if *windowDate != "" {
		windowEnd, err = models.ParseDate(*windowDate)
		if err != nil {
			logger.Fatal("Invalid -date %q: %v", *windowDate, err)
		}
	}

	// Restore the record store
	store := storage.New(cfg.Storage.FilePath, cfg.Reports.RetentionDays)
	if err := store.Load(); err != nil {
		logger.Warn("Failed to restore record store, starting fresh: %v", err)
	}
	logger.Debug("Record store restored with %d records", store.Count())

	ingestor := ingest.New(cfg.EntityList(), cfg.AliasTable())

	pl := pipeline.New(cfg.EntityList(), ingestor, store, pipeline.Options{
		WindowDays:   cfg.Analysis.WindowLengthDays,
		BaselineDays: cfg.Analysis.SpikeBaselineDays,
		Threshold:    cfg.Analysis.SpikeThresholdRatio,
		Weights: analysis.Weights{
			Positive: cfg.Analysis.PositiveWeight,
			Negative: cfg.Analysis.NegativeWeight,
		},
	})

	// A shutdown signal aborts the run; a partial narrative is never written.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	startTime := time.Now()
	windowStart := windowEnd.AddDate(0, 0, -(cfg.Analysis.WindowLengthDays - 1))
	leadStart := windowStart.AddDate(0, 0, -cfg.Analysis.SpikeBaselineDays)
	logger.Info("Starting window run %s to %s (baseline lead-in from %s)",
		windowStart.Format(models.DateLayout),
		windowEnd.Format(models.DateLayout),
		leadStart.Format(models.DateLayout))

	reports, err := reportio.LoadReports(cfg.Reports.RawDir, models.DatesBetween(leadStart, windowEnd))
	if err != nil {
		logger.Fatal("Failed to load raw reports: %v", err)
	}
	logger.Info("Loaded %d raw reports from %s", len(reports), cfg.Reports.RawDir)

	n, err := pl.Run(ctx, reports, windowEnd)
	if err != nil {
		if errors.Is(err, narrative.ErrEmptyWindow) {
			logger.Fatal("No narrative produced: %v", err)
		}
		logger.Fatal("Pipeline run failed: %v", err)
	}

	path, err := reportio.WriteNarrative(cfg.Reports.OutDir, n)
	if err != nil {
		logger.Fatal("Failed to write narrative: %v", err)
	}
	logger.Info("Narrative for window ending %s written to %s (top entity: %s)",
		n.WindowEnd.Format(models.DateLayout), path, n.TopEntityID)

	if cfg.Telegram.Enabled {
		client, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID,
			cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase, cfg.EntityList())
		if err != nil {
			logger.Error("Failed to initialize Telegram client: %v", err)
		} else if err := client.SendNarrative(n); err != nil {
			logger.Error("Failed to send Telegram notification: %v", err)
		} else {
			logger.Info("Sent Telegram notification")
		}
	} else {
		logger.Debug("Telegram notifications disabled")
	}

	// Persist and rotate the store
	if err := store.RotateRecords(time.Now()); err != nil {
		logger.Warn("Failed to rotate records: %v", err)
	}
	if err := store.Save(); err != nil {
		logger.Warn("Failed to persist record store: %v", err)
	}

	logger.Info("Window run completed in %v", time.Since(startTime))
}
