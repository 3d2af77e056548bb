// Package main provides the entry point for the walk-forward backtest CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pick-engine/internal/backtest"
	"github.com/yourusername/pick-engine/internal/config"
	"github.com/yourusername/pick-engine/internal/database"
	"github.com/yourusername/pick-engine/internal/logger"
	"github.com/yourusername/pick-engine/internal/models"
	"github.com/yourusername/pick-engine/internal/repository"
	"github.com/yourusername/pick-engine/internal/scoring"
)

// trainingSeasonLookback matches the pick generator's dataset reach: seasons
// loaded before the first evaluated one feed training only.
const trainingSeasonLookback = 5

func main() {
	var (
		configPath  = flag.String("config", "config/config.yaml", "Path to config file")
		configName  = flag.String("name", "baseline", "Configuration name for reports and persistence")
		sportFlag   = flag.String("sport", "", "Override configured sport")
		marketFlag  = flag.String("market", "", "Override configured market")
		startSeason = flag.Int("start-season", 0, "Override first evaluated season")
		endSeason   = flag.Int("end-season", 0, "Override last evaluated season")
		output      = flag.String("output", "", "Override CSV output path")
		persist     = flag.Bool("persist", false, "Persist per-season runs to the database")
	)
	flag.Parse()

	ctx := context.Background()
	cfg := loadConfig(*configPath)
	log := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	applyOverrides(cfg, *sportFlag, *marketFlag, *startSeason, *endSeason, *output, log)

	sport, err := models.ParseSport(cfg.Backtest.Sport)
	if err != nil {
		log.Fatalf("Invalid sport: %v", err)
	}
	market, err := models.ParseMarket(cfg.Backtest.Market)
	if err != nil {
		log.Fatalf("Invalid market: %v", err)
	}

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	ds, err := backtest.Load(ctx, repos, sport,
		cfg.Backtest.StartSeason-trainingSeasonLookback, cfg.Backtest.EndSeason,
		cfg.Engine.SnapshotWindowDays)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	marketScoring, err := cfg.MarketScoringFor(string(sport), string(market))
	if err != nil {
		log.Fatalf("No scoring configuration: %v", err)
	}
	scorer, err := scoring.New(sport, market, marketScoring, cfg.Scoring.DefaultWeight)
	if err != nil {
		log.Fatalf("Failed to build scorer: %v", err)
	}

	harness := backtest.NewHarness(*configName, cfg.Engine, scorer,
		backtest.Filters{MinEdge: cfg.Engine.MinEdge}, log)
	runs, err := harness.Run(ds, market, cfg.Backtest.StartSeason, cfg.Backtest.EndSeason)
	if err != nil {
		log.Fatalf("Backtest failed: %v", err)
	}
	if len(runs) == 0 {
		log.Fatal("No season could be evaluated; check seasons and training data")
	}

	fmt.Println(backtest.GenerateConsoleReport(*configName, runs))

	if cfg.Backtest.OutputPath != "" {
		if err := backtest.GenerateCSVExport(runs, cfg.Backtest.OutputPath); err != nil {
			log.Fatalf("Failed to write CSV export: %v", err)
		}
		log.WithField("path", cfg.Backtest.OutputPath).Info("CSV export written")
	}

	aggregate := backtest.Aggregate(*configName, runs)
	backtest.PublishMetrics(aggregate)

	if *persist {
		for _, run := range runs {
			if err := repos.BacktestRun.Create(ctx, run); err != nil {
				log.Fatalf("Failed to persist season run: %v", err)
			}
		}
		log.WithField("runs", len(runs)).Info("Backtest runs persisted")
	}
}

func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			logrus.Fatalf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			logrus.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func applyOverrides(cfg *config.Config, sport, market string, startSeason, endSeason int, output string, log *logrus.Logger) {
	if sport != "" {
		cfg.Backtest.Sport = sport
	}
	if market != "" {
		cfg.Backtest.Market = market
	}
	if startSeason > 0 {
		cfg.Backtest.StartSeason = startSeason
	}
	if endSeason > 0 {
		cfg.Backtest.EndSeason = endSeason
	}
	if output != "" {
		cfg.Backtest.OutputPath = output
	}
	if cfg.Backtest.EndSeason < cfg.Backtest.StartSeason {
		log.Fatalf("end season %d precedes start season %d", cfg.Backtest.EndSeason, cfg.Backtest.StartSeason)
	}
}
