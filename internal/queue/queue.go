package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sejins/studyhub/internal/config"
	"github.com/sejins/studyhub/pkg/logger"
)

// Task types
const (
	TaskMailDeliver    = "mail:deliver"
	TaskStudyPublished = "study:published"
)

// Handler processes one task payload.
type Handler func(ctx context.Context, payload []byte) error

// Mux maps task types to handlers. The same mux drives both the async
// worker and the synchronous fallback queue.
type Mux map[string]Handler

// Queue enqueues background tasks.
type Queue interface {
	// Enqueue serializes payload as JSON and schedules the task
	Enqueue(taskType string, payload interface{}) error
	// IsAsync reports whether tasks run outside the request
	IsAsync() bool
	// Close shuts the queue down
	Close() error
}

// New returns a redis-backed asynq queue when enabled, falling back to
// in-process synchronous execution otherwise (or when redis is down).
func New(cfg *config.Config, mux Mux) Queue {
	if cfg.RedisEnabled {
		q, err := NewAsyncQueue(cfg.RedisAddr)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, falling back to sync queue")
			return NewSyncQueue(mux)
		}
		logger.Info().Str("addr", cfg.RedisAddr).Msg("async task queue initialized")
		return q
	}
	return NewSyncQueue(mux)
}

// AsyncQueue schedules tasks on redis via asynq; a Worker consumes them.
type AsyncQueue struct {
	client *asynq.Client
}

// NewAsyncQueue connects to redis and verifies the connection.
func NewAsyncQueue(addr string) (*AsyncQueue, error) {
	redisOpt := asynq.RedisClientOpt{Addr: addr}
	client := asynq.NewClient(redisOpt)

	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()
	if _, err := inspector.Queues(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}

	return &AsyncQueue{client: client}, nil
}

// Enqueue schedules the task with retries.
func (q *AsyncQueue) Enqueue(taskType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}
	_, err = q.client.Enqueue(asynq.NewTask(taskType, data), asynq.MaxRetry(3))
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", taskType, err)
	}
	return nil
}

func (q *AsyncQueue) IsAsync() bool { return true }

func (q *AsyncQueue) Close() error { return q.client.Close() }

// SyncQueue runs handlers inline. Used in development and tests where no
// redis is available; a handler failure only logs, matching the
// fire-and-forget contract of the async path.
type SyncQueue struct {
	mux Mux
}

// NewSyncQueue creates a synchronous queue over the mux.
func NewSyncQueue(mux Mux) *SyncQueue {
	return &SyncQueue{mux: mux}
}

// Enqueue runs the handler immediately.
func (q *SyncQueue) Enqueue(taskType string, payload interface{}) error {
	handler, ok := q.mux[taskType]
	if !ok {
		return fmt.Errorf("no handler registered for task %s", taskType)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}
	if err := handler(context.Background(), data); err != nil {
		logger.Error().Err(err).Str("task", taskType).Msg("sync task failed")
	}
	return nil
}

func (q *SyncQueue) IsAsync() bool { return false }

func (q *SyncQueue) Close() error { return nil }
