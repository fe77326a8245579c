package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hibiken/asynq"

	"github.com/b0ase/backend/internal/config"
	"github.com/b0ase/backend/pkg/logger"
)

const workerConcurrency = 10

// Worker drains grant notices from the Redis queue and hands each one to
// the configured delivery processor.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	processor func(context.Context, *GrantNoticeTask) error

	mu      sync.Mutex
	running bool
}

func NewWorker(cfg *config.RedisConfig) *Worker {
	if !cfg.Enabled {
		return nil
	}

	server := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		asynq.Config{
			Concurrency: workerConcurrency,
			Queues:      map[string]int{"default": 1},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Warn().Str("task", task.Type()).Err(err).Msg("task processing failed")
			}),
		},
	)

	return &Worker{
		server: server,
		mux:    asynq.NewServeMux(),
	}
}

// SetProcessor sets the delivery function for grant notices.
func (w *Worker) SetProcessor(processor func(context.Context, *GrantNoticeTask) error) {
	w.processor = processor
}

// Start launches the queue consumer. Calling Start on a running worker is
// a no-op.
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	w.mux.HandleFunc(TaskTypeGrantNotice, w.handleGrantNotice)
	w.running = true

	go func() {
		logger.Info().Msg("notification worker starting")
		if err := w.server.Run(w.mux); err != nil {
			logger.Error().Err(err).Msg("notification worker stopped")
		}
	}()

	return nil
}

// Stop shuts the worker down, waiting for in-flight tasks.
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	w.server.Shutdown()
	w.running = false
	logger.Info().Msg("notification worker stopped")
}

func (w *Worker) handleGrantNotice(ctx context.Context, t *asynq.Task) error {
	var task GrantNoticeTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		return err
	}

	logger.Info().
		Uint("project_id", task.ProjectID).
		Uint("user_id", task.UserID).
		Str("role", task.Role).
		Msg("processing grant notice")

	if w.processor == nil {
		logger.Warn().Msg("no grant notice processor configured, dropping task")
		return nil
	}
	return w.processor(ctx, &task)
}

var (
	globalWorker *Worker
	workerOnce   sync.Once
)

func InitWorker(cfg *config.RedisConfig) *Worker {
	workerOnce.Do(func() {
		globalWorker = NewWorker(cfg)
	})
	return globalWorker
}

func GetWorker() *Worker {
	return globalWorker
}
