// windowstat prints per-entity window statistics (average, peak, sentiment,
// spikes) for an arbitrary window without writing anything. Useful for
// inspecting a window before or after a pipeline run.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"poltrends/internal/analysis"
	"poltrends/internal/config"
	"poltrends/internal/ingest"
	"poltrends/internal/logger"
	"poltrends/internal/models"
	"poltrends/internal/reportio"
)

var (
	configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")
	windowDate = flag.String("date", "", "Window end date (YYYY-MM-DD, default today UTC)")
	windowDays = flag.Int("days", 0, "Window length override (default from config)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger.Init("warn", cfg.Logging.Format)

	windowEnd := models.Day(time.Now())
	if *windowDate != "" {
		windowEnd, err = models.ParseDate(*windowDate)
		if err != nil {
			log.Fatalf("Invalid -date %q: %v", *windowDate, err)
		}
	}
	days := cfg.Analysis.WindowLengthDays
	if *windowDays > 0 {
		days = *windowDays
	}

	windowStart := windowEnd.AddDate(0, 0, -(days - 1))
	leadStart := windowStart.AddDate(0, 0, -cfg.Analysis.SpikeBaselineDays)

	reports, err := reportio.LoadReports(cfg.Reports.RawDir, models.DatesBetween(leadStart, windowEnd))
	if err != nil {
		log.Fatalf("Failed to load raw reports: %v", err)
	}

	ingestor := ingest.New(cfg.EntityList(), cfg.AliasTable())
	byEntity := make(map[string][]models.DailyRecord)
	for _, report := range reports {
		records, sectionErrs, err := ingestor.Ingest(report)
		if err != nil {
			log.Fatalf("Failed to ingest report for %s: %v", report.Date, err)
		}
		for _, se := range sectionErrs {
			fmt.Fprintf(os.Stderr, "skipped: %v\n", se)
		}
		for _, r := range records {
			byEntity[r.EntityID] = append(byEntity[r.EntityID], r)
		}
	}

	weights := analysis.Weights{
		Positive: cfg.Analysis.PositiveWeight,
		Negative: cfg.Analysis.NegativeWeight,
	}

	fmt.Printf("Window %s to %s (%d days)\n\n",
		windowStart.Format(models.DateLayout), windowEnd.Format(models.DateLayout), days)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ENTITY\tAVG\tPEAK\tPEAK DATE\tPOS\tNEU\tNEG\tSCORE\tSPIKES")

	for _, entity := range cfg.EntityList() {
		records := byEntity[entity.ID]
		summary, err := analysis.BuildWindowSummary(entity.ID, records, windowStart, windowEnd, weights)
		if err != nil {
			if errors.Is(err, analysis.ErrInsufficientData) {
				fmt.Fprintf(w, "%s\t-\t-\t-\t-\t-\t-\t-\t-\n", entity.Name)
				continue
			}
			log.Fatalf("Failed to summarize %s: %v", entity.ID, err)
		}
		spikes := analysis.DetectSpikes(entity.ID, records, windowStart, windowEnd,
			cfg.Analysis.SpikeBaselineDays, cfg.Analysis.SpikeThresholdRatio)

		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%s\t%d\t%d\t%d\t%+.2f\t%d\n",
			entity.Name,
			summary.AvgScore,
			summary.PeakScore,
			summary.PeakDate.Format(models.DateLayout),
			summary.SentimentCounts[models.SentimentPositive],
			summary.SentimentCounts[models.SentimentNeutral],
			summary.SentimentCounts[models.SentimentNegative],
			summary.CompositeSentiment,
			len(spikes),
		)
	}
	_ = w.Flush()
}
