package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// DocumentRemover deletes stored documents. *upload.LocalUploader and
// *upload.MinIOUploader implement it.
type DocumentRemover interface {
	Remove(ctx context.Context, paths []string) error
}

// InitHandlers sets the dependencies of the task handlers. It must be called
// before Start.
func (j *JobService) InitHandlers(remover DocumentRemover) {
	j.remover = remover
}

func (j *JobService) handleDocumentCleanupTask(ctx context.Context, t *asynq.Task) error {
	var p DocumentCleanupPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal document cleanup payload: %w: %w", err, asynq.SkipRetry)
	}

	if len(p.Paths) == 0 {
		return nil
	}

	if j.remover == nil {
		return fmt.Errorf("document cleanup: no remover configured")
	}

	j.logger.Info().
		Str("type", TaskDocumentCleanup).
		Int("documents", len(p.Paths)).
		Msg("Processing document cleanup task")

	if err := j.remover.Remove(ctx, p.Paths); err != nil {
		j.logger.Error().
			Str("type", TaskDocumentCleanup).
			Strs("paths", p.Paths).
			Err(err).
			Msg("Failed to remove orphaned documents")
		return err
	}

	j.logger.Info().
		Str("type", TaskDocumentCleanup).
		Int("documents", len(p.Paths)).
		Msg("Removed orphaned documents")

	return nil
}
