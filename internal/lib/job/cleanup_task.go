package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// TaskDocumentCleanup removes stored documents that no program references,
// which happens when a create or update is rolled back after the upload.
const TaskDocumentCleanup = "document:cleanup"

type DocumentCleanupPayload struct {
	Paths []string `json:"paths"`
}

// NewDocumentCleanupTask builds the cleanup task for paths. Cleanup is not
// urgent, so it goes to the low queue.
func NewDocumentCleanupTask(paths []string) (*asynq.Task, error) {
	payload, err := json.Marshal(DocumentCleanupPayload{Paths: paths})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskDocumentCleanup,
		payload,
		asynq.MaxRetry(5),
		asynq.Queue("low"),
		asynq.Timeout(time.Minute),
	), nil
}
