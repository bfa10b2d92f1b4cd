package queue

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/sejins/studyhub/internal/config"
	"github.com/sejins/studyhub/pkg/logger"
)

// Worker consumes tasks from redis and dispatches them through a Mux.
type Worker struct {
	server *asynq.Server
	mux    Mux
}

// NewWorker builds an asynq server over the redis address in cfg.
func NewWorker(cfg *config.Config, mux Mux) *Worker {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{
			Concurrency: 5,
		},
	)
	return &Worker{server: server, mux: mux}
}

// Run blocks processing tasks until Shutdown is called.
func (w *Worker) Run() error {
	serveMux := asynq.NewServeMux()
	for taskType, handler := range w.mux {
		h := handler
		serveMux.HandleFunc(taskType, func(ctx context.Context, task *asynq.Task) error {
			if err := h(ctx, task.Payload()); err != nil {
				logger.Error().Err(err).Str("task", task.Type()).Msg("task failed")
				return err
			}
			return nil
		})
	}
	return w.server.Run(serveMux)
}

// Shutdown stops the worker gracefully.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}
