// Package main provides the entry point for the tier-sweep CLI.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/pick-engine/internal/backtest"
	"github.com/yourusername/pick-engine/internal/config"
	"github.com/yourusername/pick-engine/internal/database"
	"github.com/yourusername/pick-engine/internal/logger"
	"github.com/yourusername/pick-engine/internal/models"
	"github.com/yourusername/pick-engine/internal/repository"
)

const trainingSeasonLookback = 5

var (
	configFile string
	topN       int
	appLogger  *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().IntVarP(&topN, "top", "n", 0, "Report only the top N accepted configurations (0 = config default)")
}

var rootCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep tier configurations against the walk-forward backtest",
	Long:  `Enumerates the configured space of context filters and tier thresholds, evaluates each candidate with walk-forward discipline and ranks the ones that satisfy the acceptance constraints.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSweep(cmd.Context())
	},
}

func main() {
	defer func() {
		if db != nil {
			db.Close()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if len(cfg.Sweep.ThresholdSets) == 0 {
		return fmt.Errorf("sweep requires at least one threshold set")
	}
	return nil
}

func setupDependencies(ctx context.Context) error {
	appLogger = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}
	return nil
}

func runSweep(ctx context.Context) error {
	sport, err := models.ParseSport(cfg.Backtest.Sport)
	if err != nil {
		return err
	}
	market, err := models.ParseMarket(cfg.Backtest.Market)
	if err != nil {
		return err
	}

	ds, err := backtest.Load(ctx, repos, sport,
		cfg.Backtest.StartSeason-trainingSeasonLookback, cfg.Backtest.EndSeason,
		cfg.Engine.SnapshotWindowDays)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	appLogger.WithFields(logrus.Fields{
		"sport":  sport,
		"market": market,
		"name":   cfg.Sweep.Name,
	}).Info("Starting tier sweep")

	sweeper := backtest.NewSweeper(cfg, market, ds, appLogger)
	results, err := sweeper.Run()
	if err != nil {
		return err
	}

	limit := topN
	if limit <= 0 {
		limit = cfg.Sweep.TopN
	}
	fmt.Println(backtest.GenerateSweepReport(results, limit))
	return nil
}
