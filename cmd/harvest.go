package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lexharvest/lexharvest/internal/api"
	"github.com/lexharvest/lexharvest/internal/extract"
	"github.com/lexharvest/lexharvest/internal/fetch"
	"github.com/lexharvest/lexharvest/internal/harvest"
	"github.com/lexharvest/lexharvest/internal/history"
	"github.com/lexharvest/lexharvest/internal/progress"
	"github.com/lexharvest/lexharvest/internal/progress/sinks"
	"github.com/lexharvest/lexharvest/internal/store"
)

// newHarvestCmd creates the 'harvest' subcommand, which runs the crawl for a
// set of letters given as arguments or loaded from the input file.
func newHarvestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest [LETTERS...]",
		Short: "Crawls the browse index and merges entries into per-letter files",
		Long: `Crawls each requested letter's index pages concurrently, following
pagination until exhausted, and merges the discovered entries into the
letter's output file. Without positional letters, the letter list is read
from the input file, one letter per line.`,
		RunE: runHarvest,
	}

	flags := cmd.Flags()
	flags.String("ifile", "input.list", "input file with one letter per line, used when no letters are given")
	flags.String("out", "data/{0}.data", "output filename template; {0} is replaced by the letter")
	flags.Bool("remove-dead", false, "drop entries that were not re-observed in this run")
	flags.Int("max-workers", 20, "maximum number of letters crawled concurrently")
	flags.String("metrics-addr", "", "optional address for the Prometheus /metrics endpoint, e.g. :9090")
	flags.String("history", "", "optional SQLite database recording per-letter run outcomes")

	cobra.CheckErr(viper.BindPFlag("harvest.input_file", flags.Lookup("ifile")))
	cobra.CheckErr(viper.BindPFlag("harvest.output_template", flags.Lookup("out")))
	cobra.CheckErr(viper.BindPFlag("harvest.remove_dead", flags.Lookup("remove-dead")))
	cobra.CheckErr(viper.BindPFlag("harvest.max_workers", flags.Lookup("max-workers")))
	cobra.CheckErr(viper.BindPFlag("harvest.metrics_addr", flags.Lookup("metrics-addr")))
	cobra.CheckErr(viper.BindPFlag("harvest.history_path", flags.Lookup("history")))

	return cmd
}

func runHarvest(cmd *cobra.Command, args []string) error {
	cfg, err := harvest.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	letters, err := resolveLetters(args, cfg.InputFile)
	if err != nil {
		return err
	}

	runID := uuid.New()
	logger.Info("starting harvest run",
		zap.String("run_id", runID.String()),
		zap.Int("letters", len(letters)),
		zap.Int("max_workers", cfg.MaxWorkers),
		zap.String("merge_policy", cfg.MergePolicy().String()),
	)

	session, err := fetch.NewSession(fetch.Config{
		UserAgent:      cfg.UserAgent,
		RequestTimeout: cfg.RequestTimeout,
		MaxConcurrency: cfg.MaxWorkers,
	}, logger)
	if err != nil {
		return fmt.Errorf("init fetch session: %w", err)
	}

	fileStore, err := store.New(cfg.OutputTemplate, logger)
	if err != nil {
		return fmt.Errorf("init entry store: %w", err)
	}

	statusSink := sinks.NewStoreSink()
	hub := progress.NewHub(
		progress.Config{Logger: logger},
		sinks.NewLogSink(logger),
		statusSink,
	)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hub.Close(closeCtx); err != nil {
			logger.Warn("close progress hub failed", zap.Error(err))
		}
	}()

	var recorder harvest.Recorder
	if cfg.HistoryPath != "" {
		hist, err := history.Open(cfg.HistoryPath)
		if err != nil {
			return fmt.Errorf("open run history: %w", err)
		}
		defer func() {
			if err := hist.Close(); err != nil {
				logger.Warn("close run history failed", zap.Error(err))
			}
		}()
		recorder = hist
	}

	if cfg.MetricsAddr != "" {
		server := api.New(cfg.MetricsAddr, statusSink, logger)
		server.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Warn("shutdown metrics server failed", zap.Error(err))
			}
		}()
	}

	crawler := harvest.NewLetterCrawler(
		session,
		extract.New(cfg.EntrySelector, cfg.NextSelector),
		&harvest.LinearRetryPolicy{MaxAttempts: cfg.MaxAttempts, BaseDelay: cfg.BaseDelay},
		cfg.IndexURL,
		hub,
		runID,
		logger,
	)
	coordinator := harvest.NewCoordinator(
		crawler,
		fileStore,
		recorder,
		cfg.MergePolicy(),
		cfg.MaxWorkers,
		hub,
		runID,
		logger,
	)

	start := time.Now()
	outcomes, err := coordinator.Run(cmd.Context(), letters)
	if err != nil {
		return fmt.Errorf("harvest run: %w", err)
	}

	failed := 0
	for _, out := range outcomes {
		if out.Err != nil {
			failed++
		}
	}
	logger.Info("harvest run finished",
		zap.String("run_id", runID.String()),
		zap.Int("letters", len(outcomes)),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(start)),
	)
	if failed > 0 {
		return fmt.Errorf("%d of %d letters finished with errors", failed, len(outcomes))
	}
	return nil
}

// resolveLetters prefers positional letters and falls back to the input file.
func resolveLetters(args []string, inputFile string) ([]harvest.Letter, error) {
	if len(args) > 0 {
		letters, err := harvest.ParseLetters(args)
		if err != nil {
			return nil, err
		}
		return letters, nil
	}
	letters, err := harvest.LoadLetterFile(inputFile)
	if err != nil {
		return nil, fmt.Errorf("no letters given and input file unusable: %w", err)
	}
	return letters, nil
}
