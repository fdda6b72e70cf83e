package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/drewmudry/chatshorts-api/internal/creatomate"
	"github.com/drewmudry/chatshorts-api/internal/elevenlabs"
	"github.com/drewmudry/chatshorts-api/internal/platform"
	"github.com/drewmudry/chatshorts-api/internal/storage"
	"github.com/drewmudry/chatshorts-api/tasks"
	"github.com/drewmudry/chatshorts-api/worker"
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

	store, err := storage.New(ctx)
	if err != nil {
		log.Fatalf("Failed to configure storage: %v", err)
	}

	p := worker.NewProcessor(db, rdb, settings)
	p.TTS = elevenlabs.NewClient()
	p.Store = store
	p.Video = creatomate.NewClient()
	p.Templates = worker.Templates{
		FakeText: os.Getenv("CREATOMATE_FAKE_TEXT_TEMPLATE_ID"),
		Story:    os.Getenv("CREATOMATE_STORY_TEMPLATE_ID"),
	}
	p.WebhookURL = platform.CreatomateWebhookURL()
	if p.WebhookURL == "" {
		log.Println("WEBHOOK_BASE_URL not set, render completion will rely on polling")
	}

	p.Register(tasks.QueueRenderSynthesize, p.HandleSynthesize)

	log.Println("Worker started, waiting for queue tasks...")
	p.Listen(ctx, tasks.QueueRenderSynthesize)
}
