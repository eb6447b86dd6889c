package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/pkg/jobs"
)

const autosaveJobType = "gradebook.save"

type snapshotSaver interface {
	Save(ctx context.Context) (*models.SaveResult, error)
}

type jobQueue interface {
	Enqueue(job jobs.Job) (bool, error)
}

// AutosaveService persists the gradebook in the background after mutations. Requests made while
// a save is already waiting are folded into it.
type AutosaveService struct {
	queue  jobQueue
	logger *zap.Logger
}

// NewAutosaveService constructs the service on top of an existing queue.
func NewAutosaveService(queue jobQueue, logger *zap.Logger) *AutosaveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutosaveService{queue: queue, logger: logger}
}

// AutosaveHandler returns the queue handler that performs the save.
func AutosaveHandler(saver snapshotSaver, logger *zap.Logger) jobs.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, job jobs.Job) error {
		result, err := saver.Save(ctx)
		if err != nil {
			return err
		}
		logger.Debug("autosave complete",
			zap.String("job_id", job.ID),
			zap.Int("attempt", job.Attempt),
			zap.Int("students", result.StudentsSaved),
			zap.Int("posts", result.PostsSaved),
		)
		return nil
	}
}

// Request schedules a save. The reason names the mutation that triggered it.
func (s *AutosaveService) Request(reason string) {
	if s == nil || s.queue == nil {
		return
	}
	jobID := uuid.NewString()
	accepted, err := s.queue.Enqueue(jobs.Job{ID: jobID, Type: autosaveJobType})
	if err != nil {
		s.logger.Warn("autosave not scheduled", zap.String("reason", reason), zap.Error(err))
		return
	}
	if accepted {
		s.logger.Debug("autosave scheduled", zap.String("reason", reason), zap.String("job_id", jobID))
	}
}
