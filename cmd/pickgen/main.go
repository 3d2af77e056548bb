// Package main provides the entry point for the daily pick generation CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pick-engine/internal/config"
	"github.com/yourusername/pick-engine/internal/database"
	"github.com/yourusername/pick-engine/internal/logger"
	"github.com/yourusername/pick-engine/internal/models"
	"github.com/yourusername/pick-engine/internal/repository"
	"github.com/yourusername/pick-engine/internal/service"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		sportFlag  = flag.String("sport", "basketball", "Sport to generate picks for")
		dateFlag   = flag.String("date", "", "Slate date (YYYY-MM-DD), default today")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	log := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	sport, err := models.ParseSport(*sportFlag)
	if err != nil {
		log.Fatalf("Invalid sport: %v", err)
	}
	date := time.Now()
	if *dateFlag != "" {
		date, err = time.Parse("2006-01-02", *dateFlag)
		if err != nil {
			log.Fatalf("Invalid date: %v", err)
		}
	}

	ctx := context.Background()
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	generator := service.NewPickGenerator(cfg, repos, log)
	picks, err := generator.GenerateForDate(ctx, sport, date)
	if err != nil {
		log.Fatalf("Pick generation failed: %v", err)
	}

	fmt.Printf("Picks for %s (%s)\n", models.Day(date).Format("2006-01-02"), sport)
	fmt.Println("==================================")
	if len(picks) == 0 {
		fmt.Println("No game cleared the tier thresholds.")
		return
	}
	for _, pick := range picks {
		fmt.Printf("%-7s %-5s %-4s score=%.3f game=%s\n",
			pick.Market, pick.Side, pick.Tier, pick.Score, pick.GameID)
	}
}
