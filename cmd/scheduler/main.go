package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/drewmudry/chatshorts-api/internal/creatomate"
	"github.com/drewmudry/chatshorts-api/internal/platform"
	"github.com/drewmudry/chatshorts-api/worker"
	"github.com/robfig/cron/v3"
)

func main() {
	// Use the shared initializers
	db := platform.NewDBConnection()
	rdb := platform.NewRedisClient()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := platform.LoadLayoutSettings()
	if err != nil {
		log.Fatalf("Failed to load layout settings: %v", err)
	}

	p := worker.NewProcessor(db, rdb, settings)
	p.Video = creatomate.NewClient()

	// Only run one scheduler; overlapping polls are skipped rather than queued.
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err = c.AddFunc("@every 1m", func() {
		if err := p.PollRendering(ctx); err != nil {
			log.Printf("Error polling renders: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Error scheduling render polling: %v", err)
	}

	c.Start()
	log.Println("Scheduler started, polling stale renders every minute")

	<-ctx.Done()
	<-c.Stop().Done()
	log.Println("Scheduler stopped")
}
