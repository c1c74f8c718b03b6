// Package job runs background work on Asynq, a Redis-backed queue.
//
// The HTTP handlers enqueue tasks through JobService; the worker server
// started by Start processes them.
package job

import (
	"context"
	"fmt"

	"github.com/deppfellow/mentorme/internal/config"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

type JobService struct {
	// Client enqueues tasks.
	Client *asynq.Client

	server  *asynq.Server
	logger  *zerolog.Logger
	remover DocumentRemover
}

// NewJobService creates the Asynq client and worker server on the configured Redis.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger: &asynqLogger{logger: logger},
		},
	)

	return &JobService{
		Client: client,
		server: server,
		logger: logger,
	}
}

// Start registers the task handlers and starts the workers. It does not block.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskDocumentCleanup, j.handleDocumentCleanupTask)

	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(mux); err != nil {
		return err
	}

	return nil
}

// Stop waits for running tasks and closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	j.Client.Close()
}

// EnqueueCleanup schedules the removal of stored documents. Empty paths are a no-op.
func (j *JobService) EnqueueCleanup(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	task, err := NewDocumentCleanupTask(paths)
	if err != nil {
		return err
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TaskDocumentCleanup, err)
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Int("documents", len(paths)).
		Msg("Enqueued document cleanup")

	return nil
}

// asynqLogger routes Asynq's own logs through zerolog.
type asynqLogger struct {
	logger *zerolog.Logger
}

func (l *asynqLogger) Debug(args ...any) { l.logger.Debug().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Info(args ...any)  { l.logger.Info().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Warn(args ...any)  { l.logger.Warn().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Error(args ...any) { l.logger.Error().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Fatal(args ...any) { l.logger.Fatal().Msg(fmt.Sprint(args...)) }
