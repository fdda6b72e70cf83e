package worker

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/drewmudry/chatshorts-api/internal/creatomate"
	"github.com/drewmudry/chatshorts-api/layout"
	"github.com/drewmudry/chatshorts-api/tasks"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// TaskHandler is a function that processes a task payload.
type TaskHandler func(ctx context.Context, payload string) error

// Synthesizer turns text into spoken MP3 audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, voiceID, text string) ([]byte, error)
}

// Uploader stores a blob and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// VideoRenderer submits template renders and reports their progress.
type VideoRenderer interface {
	Render(ctx context.Context, req creatomate.RenderRequest) (*creatomate.Render, error)
	GetRender(ctx context.Context, id string) (*creatomate.Render, error)
}

// Templates maps render kinds to Creatomate template ids.
type Templates struct {
	FakeText string
	Story    string
}

// Processor holds dependencies and registered task handlers.
type Processor struct {
	DB       *gorm.DB
	RDB      *redis.Client
	Settings *layout.Settings

	TTS       Synthesizer
	Store     Uploader
	Video     VideoRenderer
	Templates Templates

	// WebhookURL receives render completion callbacks. Empty disables them
	// and leaves completion to the scheduler's polling.
	WebhookURL string

	handlers map[string]TaskHandler
}

// NewProcessor creates a new worker processor.
func NewProcessor(db *gorm.DB, rdb *redis.Client, settings *layout.Settings) *Processor {
	return &Processor{
		DB:       db,
		RDB:      rdb,
		Settings: settings,
		handlers: make(map[string]TaskHandler),
	}
}

// Register maps a queue name (task type) to a handler function.
func (p *Processor) Register(queueName string, handler TaskHandler) {
	p.handlers[queueName] = handler
	log.Printf("Registered handler for queue: %s", queueName)
}

// Enqueue is a helper to add a new task to a queue.
func (p *Processor) Enqueue(ctx context.Context, queueName string, payload interface{}) error {
	payloadStr, err := tasks.Marshal(payload)
	if err != nil {
		return err
	}
	return p.RDB.LPush(ctx, queueName, payloadStr).Err()
}

// Listen blocks on the given queues until ctx is cancelled.
func (p *Processor) Listen(ctx context.Context, queueNames ...string) {
	log.Printf("Worker listening on %d queues: %v", len(queueNames), queueNames)

	for {
		// BRPop blocks until a task is available on any of the listed queues.
		result, err := p.RDB.BRPop(ctx, 0, queueNames...).Result()
		if err != nil {
			if ctx.Err() != nil {
				log.Println("Worker stopping")
				return
			}
			if !errors.Is(err, redis.Nil) {
				log.Printf("Error popping from queue: %v", err)
				time.Sleep(time.Second)
			}
			continue
		}

		// result[0] is the queue name, result[1] is the payload
		queueName := result[0]
		payload := result[1]

		handler, ok := p.handlers[queueName]
		if !ok {
			log.Printf("Error: No handler registered for queue %s", queueName)
			continue
		}

		log.Printf("Received task from queue %s", queueName)

		if err := handler(ctx, payload); err != nil {
			log.Printf("Error processing task from %s: %v", queueName, err)
		}
	}
}
