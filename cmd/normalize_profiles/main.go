// Command normalize_profiles runs the batch profile pipeline: it discovers
// hand-authored analysis documents for each tracked mind, normalizes them to
// schema v1.0, picks the richest candidate and upserts it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/kapu/mindsync-go/internal/cache"
	"github.com/kapu/mindsync-go/internal/config"
	"github.com/kapu/mindsync-go/internal/discovery"
	"github.com/kapu/mindsync-go/internal/pipeline"
	"github.com/kapu/mindsync-go/internal/resolver"
	"github.com/kapu/mindsync-go/internal/store"
	"github.com/kapu/mindsync-go/internal/util"
)

var (
	dryRun   = flag.Bool("dry-run", false, "Run the full pipeline but suppress store writes")
	rootDir  = flag.String("root", "", "Minds root directory (overrides MINDS_ROOT)")
	minds    = flag.String("minds", "", "Comma-separated slugs to process (default: every subdirectory of root)")
	parallel = flag.Int("parallel", 1, "Process up to N persons concurrently")
	verbose  = flag.Bool("verbose", false, "Verbose (debug) logging")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	level := cfg.Logging.Level
	if *verbose {
		level = "debug"
	}
	logger, err := util.NewLogger(level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	root := cfg.Pipeline.Root
	if *rootDir != "" {
		root = *rootDir
	}

	logger.Info("Profile normalization run starting",
		zap.String("root", root),
		zap.Bool("dry_run", *dryRun),
		zap.Int("parallel", *parallel),
	)

	slugs := config.ParseCommaSeparated(*minds)
	if len(slugs) == 0 {
		slugs, err = listPersonDirs(root)
		if err != nil {
			logger.Error("Failed to list person directories", zap.Error(err))
			os.Exit(1)
		}
	}
	if len(slugs) == 0 {
		logger.Warn("Nothing to do: no person directories found", zap.String("root", root))
		return
	}

	postgres, err := store.NewPostgresService(store.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
	}, logger)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL", zap.Error(err))
		os.Exit(1)
	}
	defer postgres.Close()

	ctx := context.Background()
	if err := postgres.EnsureSchema(ctx); err != nil {
		logger.Error("Failed to ensure schema", zap.Error(err))
		os.Exit(1)
	}

	var matchCache *cache.Service
	if cfg.Redis.Enabled {
		matchCache, err = cache.NewService(cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			logger.Warn("Redis unavailable, resolver cache disabled", zap.Error(err))
			matchCache = nil
		} else {
			defer matchCache.Close()
		}
	}

	repo := store.NewMindRepository(postgres, logger)
	breaker := util.NewCircuitBreaker(cfg.Pipeline.FailureThreshold, cfg.Pipeline.ResetTimeout, logger)
	finder := discovery.NewFinder(root, cfg.Pipeline.MaxDepth, logger)
	res := resolver.NewResolver(repo, matchCache, logger)

	runner := pipeline.NewRunner(finder, res, repo, breaker, pipeline.RunnerConfig{
		WriteTimeout: cfg.Pipeline.WriteTimeout,
		DryRun:       *dryRun,
		Parallel:     *parallel,
	}, logger)

	summary := runner.Run(ctx, slugs)
	printSummary(summary)
	os.Exit(summary.ExitCode())
}

func listPersonDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	slugs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			slugs = append(slugs, entry.Name())
		}
	}
	sort.Strings(slugs)
	return slugs, nil
}

func printSummary(summary *pipeline.Summary) {
	fmt.Println("===== Normalization Summary =====")
	if summary.DryRun {
		fmt.Println("[DRY RUN] no writes were performed")
	}
	fmt.Printf("Persons: %d succeeded, %d skipped, %d errored\n",
		summary.Succeeded, summary.Skipped, summary.Errored)
	fmt.Printf("File errors: %d\n", summary.FileErrors)
	for _, result := range summary.Results {
		if result.Outcome == pipeline.OutcomeSucceeded && result.FileErrors == 0 {
			continue
		}
		reason := result.Reason
		if result.Err != nil {
			reason = fmt.Sprintf("%s: %v", reason, result.Err)
		}
		fmt.Printf("  %-9s %s", result.Outcome, result.Slug)
		if reason != "" {
			fmt.Printf(" (%s)", reason)
		}
		if result.FileErrors > 0 {
			fmt.Printf(" [%d file errors]", result.FileErrors)
		}
		fmt.Println()
	}
	fmt.Println("=================================")
}
