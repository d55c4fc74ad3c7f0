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

// parser-refresh re-resolves every stored film against both sources. Meant
// for a monthly schedule: pricing and availability drift even for films
// nobody searches.
func main() {
	utils.LoadEnv()
	cfg := utils.LoadParserConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 6*time.Hour)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	runner := &scraper.Runner{
		DB:      db,
		Megogo:  scraper.NewMegogoClient(),
		SweetTV: scraper.NewSweetTVClient(cfg.CookiePath),
		Queue:   searchlog.NewRepo(db),
		Events:  sync.NewPublisher(cfg.SyncAddr),
	}

	if err := runner.RunRefresh(ctx); err != nil {
		log.Fatalf("refresh run failed: %v", err)
	}
	log.Println("refresh run finished")
}
