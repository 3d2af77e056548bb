// Package main lists accumulated team name resolution misses for alias-table
// curation.
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pick-engine/internal/config"
	"github.com/yourusername/pick-engine/internal/database"
	"github.com/yourusername/pick-engine/internal/repository"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		limit      = flag.Int("limit", 50, "Maximum misses to list")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		logrus.Fatalf("Failed to initialize repositories: %v", err)
	}

	misses, err := repos.ResolutionMiss.List(ctx, *limit)
	if err != nil {
		logrus.Fatalf("Failed to list resolution misses: %v", err)
	}
	if len(misses) == 0 {
		fmt.Println("No resolution misses recorded.")
		return
	}

	fmt.Printf("%-6s %-30s %-30s %-12s %s\n", "COUNT", "RAW NAME", "STRIPPED", "SOURCE", "LAST SEEN")
	for _, miss := range misses {
		fmt.Printf("%-6d %-30s %-30s %-12s %s\n",
			miss.Count, miss.RawName, miss.StrippedName, miss.Source,
			miss.LastSeen.Format("2006-01-02"))
	}
}
