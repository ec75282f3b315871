// Package tasks schedules and executes background jobs over asynq with Redis
// as the backing store. The only job today is the delayed purge that erases a
// session's messages after the grace period for clue generation has passed.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hibiken/asynq"
)

// sessionDeleter is the slice of storage the purge job needs.
type sessionDeleter interface {
	DeleteSessionData(sessionID string) error
}

const (
	TypeSessionPurge = "session:purge"

	purgeMaxRetry = 5
)

// SessionPurgePayload identifies the session whose data is to be erased.
type SessionPurgePayload struct {
	SessionID string `json:"session_id"`
}

// Client enqueues background jobs. It implements chathub.PurgeScheduler.
type Client struct {
	client *asynq.Client
}

// NewClientFromEnv constructs a client using the REDIS_URL env var.
func NewClientFromEnv() (*Client, error) {
	opt, err := redisOptFromEnv()
	if err != nil {
		return nil, err
	}
	return &Client{client: asynq.NewClient(opt)}, nil
}

// SchedulePurge enqueues a purge of the session's data after the given delay.
func (c *Client) SchedulePurge(sessionID string, delay time.Duration) error {
	payload, err := json.Marshal(SessionPurgePayload{SessionID: sessionID})
	if err != nil {
		return fmt.Errorf("tasks: marshal purge payload: %w", err)
	}

	task := asynq.NewTask(TypeSessionPurge, payload)
	_, err = c.client.EnqueueContext(context.Background(), task,
		asynq.ProcessIn(delay),
		asynq.MaxRetry(purgeMaxRetry),
	)
	if err != nil {
		return fmt.Errorf("tasks: enqueue purge for session %s: %w", sessionID, err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// PurgeHandler executes scheduled purges against storage.
type PurgeHandler struct {
	Storage sessionDeleter
}

func (h *PurgeHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload SessionPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// A payload that cannot be parsed will never succeed; do not retry.
		return fmt.Errorf("tasks: unmarshal purge payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.SessionID == "" {
		return fmt.Errorf("tasks: purge payload has no session id: %w", asynq.SkipRetry)
	}

	if err := h.Storage.DeleteSessionData(payload.SessionID); err != nil {
		return fmt.Errorf("tasks: purge session %s: %w", payload.SessionID, err)
	}
	log.Printf("purged data for session %s", payload.SessionID)
	return nil
}

// NewServer builds the worker-side asynq server and mux with the purge
// handler registered.
func NewServer(store sessionDeleter) (*asynq.Server, *asynq.ServeMux, error) {
	opt, err := redisOptFromEnv()
	if err != nil {
		return nil, nil, err
	}

	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 10,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Printf("ERROR: task %s failed: %v", task.Type(), err)
		}),
	})

	mux := asynq.NewServeMux()
	mux.Handle(TypeSessionPurge, &PurgeHandler{Storage: store})

	return srv, mux, nil
}

func redisOptFromEnv() (asynq.RedisConnOpt, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("tasks: parse REDIS_URL: %w", err)
	}
	return opt, nil
}
