// Command merge_minds consolidates two mind records that represent the same
// real person: the source's data is copied onto the target with
// fill-if-empty semantics, then the source is deleted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kapu/mindsync-go/internal/config"
	"github.com/kapu/mindsync-go/internal/merge"
	"github.com/kapu/mindsync-go/internal/store"
	"github.com/kapu/mindsync-go/internal/util"
)

var (
	sourceSlug = flag.String("source", "", "Slug of the duplicate mind to fold in and delete")
	targetSlug = flag.String("target", "", "Slug of the mind that survives")
	dryRun     = flag.Bool("dry-run", false, "Report the merge plan without writing")
)

func main() {
	flag.Parse()

	if *sourceSlug == "" || *targetSlug == "" {
		fmt.Fprintln(os.Stderr, "both --source and --target are required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

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

	repo := store.NewMindRepository(postgres, logger)
	engine := merge.NewEngine(repo, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Pipeline.WriteTimeout*6)
	defer cancel()

	report, err := engine.MergeMinds(ctx, *sourceSlug, *targetSlug, *dryRun)
	if err != nil {
		logger.Error("Merge failed", zap.Error(err))
		os.Exit(1)
	}

	fmt.Println("===== Merge Report =====")
	if *dryRun {
		fmt.Println("[DRY RUN] no writes were performed")
	}
	fmt.Printf("Source: %s → Target: %s\n", report.SourceSlug, report.TargetSlug)
	fmt.Printf("Profile: migrated=%v kept_target=%v\n", report.ProfileMigrated, report.ProfileKept)
	fmt.Printf("Values: migrated=%d kept=%d\n", report.ValuesMigrated, report.ValuesKept)
	fmt.Printf("Obsessions: migrated=%d kept=%d\n", report.ObsessionsMigrated, report.ObsessionsKept)
	fmt.Printf("Proficiencies: migrated=%d kept=%d\n", report.ProfsMigrated, report.ProfsKept)
	fmt.Printf("Source deleted: %v\n", report.SourceDeleted)
	fmt.Println("========================")
}
