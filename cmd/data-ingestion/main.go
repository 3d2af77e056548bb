// Package main provides the entry point for the data ingestion daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pick-engine/internal/config"
	"github.com/yourusername/pick-engine/internal/database"
	"github.com/yourusername/pick-engine/internal/datasource"
	"github.com/yourusername/pick-engine/internal/health"
	"github.com/yourusername/pick-engine/internal/logger"
	"github.com/yourusername/pick-engine/internal/metrics"
	"github.com/yourusername/pick-engine/internal/models"
	"github.com/yourusername/pick-engine/internal/repository"
	"github.com/yourusername/pick-engine/internal/scheduler"
	"github.com/yourusername/pick-engine/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		sportFlag  = flag.String("sport", "basketball", "Sport to ingest")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
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

	log := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	sport, err := models.ParseSport(*sportFlag)
	if err != nil {
		log.Fatalf("Invalid sport: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.DefaultHTTPClientConfig(), log)
	defer httpClient.Close()

	factory := datasource.NewFactory(sport, log)
	sources, err := factory.NewFeedSources(cfg.Ingestion, httpClient)
	if err != nil {
		log.Fatalf("Failed to create feed sources: %v", err)
	}

	ingestionSvc, err := service.NewIngestionService(ctx, sources, repos, sport, batchSize(cfg), log)
	if err != nil {
		log.Fatalf("Failed to create ingestion service: %v", err)
	}
	pickGen := service.NewPickGenerator(cfg, repos, log)

	lineStream := factory.NewLineStream(cfg.Ingestion)
	if lineStream != nil {
		lineStream.AddHandler(ingestionSvc.HandleLineUpdate)
		if err := lineStream.Connect(ctx); err != nil {
			log.WithError(err).Warn("Line stream unavailable, relying on polling")
			lineStream = nil
		} else if err := lineStream.Subscribe(ctx); err != nil {
			log.WithError(err).Warn("Line stream subscription failed, relying on polling")
			lineStream.Close()
			lineStream = nil
		}
	}
	if lineStream != nil {
		defer lineStream.Close()
	}

	sched := scheduler.NewScheduler(ingestionSvc, pickGen, sport, log)
	if err := sched.ScheduleDailyCollection(cfg.Ingestion.Schedule.DailyCollection); err != nil {
		log.Fatalf("Failed to schedule daily collection: %v", err)
	}
	if err := sched.ScheduleLinePolling(cfg.Ingestion.Schedule.LivePollingIntervalSeconds); err != nil {
		log.Fatalf("Failed to schedule line polling: %v", err)
	}
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	healthCfg := health.Config{
		ServiceName: "data-ingestion",
		Version:     Version,
		Commit:      GitCommit,
		Logger:      log,
		DB:          db,
	}
	if lineStream != nil {
		healthCfg.Stream = lineStream
	}
	healthServer := health.NewServer(healthCfg)
	if err := healthServer.Start(ctx); err != nil {
		log.Fatalf("Failed to start health server: %v", err)
	}
	healthServer.SetReady(true)

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics, log)
	}

	log.WithFields(logrus.Fields{
		"sport":    sport,
		"next_run": sched.NextRun().Format(time.RFC3339),
	}).Info("Data ingestion daemon started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down")
	healthServer.SetReady(false)
}

func batchSize(cfg *config.Config) int {
	for _, src := range cfg.Ingestion.Sources {
		if src.Enabled && src.BatchSize > 0 {
			return src.BatchSize
		}
	}
	return 0
}

func serveMetrics(cfg config.MetricsConfig, log *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, metrics.Handler())
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.WithField("addr", addr+cfg.Path).Info("Metrics endpoint listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Error("Metrics server failed")
	}
}
