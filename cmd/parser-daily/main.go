package main

import (
	"context"
	"log"
	"time"

	"filmhub/internal/scraper"
	"filmhub/internal/searchlog"
	"filmhub/internal/sync"
	"filmhub/pkg/database"
	"filmhub/pkg/utils"
)

func main() {
	utils.LoadEnv()
	cfg := utils.LoadParserConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	runner := &scraper.Runner{
		DB:         db,
		Megogo:     scraper.NewMegogoClient(),
		SweetTV:    scraper.NewSweetTVClient(cfg.CookiePath),
		Queue:      searchlog.NewRepo(db),
		Events:     sync.NewPublisher(cfg.SyncAddr),
		QueryLimit: cfg.QueryLimit,
	}

	if err := runner.RunDaily(ctx); err != nil {
		log.Fatalf("daily run failed: %v", err)
	}
	log.Println("daily run finished")
}
