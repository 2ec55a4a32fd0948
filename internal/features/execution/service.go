package execution

import (
	"context"

	"go-crm-automation/internal/features/notification"

	"go.uber.org/zap"
)

// Recorder is the narrow interface the engine writes through. Record must
// never fail the caller: a log write that cannot land is logged and dropped,
// because one attempt's bookkeeping must not abort processing of others.
type Recorder interface {
	Record(ctx context.Context, record *Record)
}

type ExecutionService interface {
	Recorder
	List(ctx context.Context, filter Filter) ([]Record, error)
	Export(ctx context.Context, filter Filter) ([]byte, string, error)
}

type ExecutionServiceImpl struct {
	repo   ExecutionRepository
	hub    *notification.Hub
	logger *zap.Logger
}

func NewExecutionService(repo ExecutionRepository, hub *notification.Hub, logger *zap.Logger) ExecutionService {
	return &ExecutionServiceImpl{
		repo:   repo,
		hub:    hub,
		logger: logger,
	}
}

func (s *ExecutionServiceImpl) Record(ctx context.Context, record *Record) {
	if err := s.repo.Append(ctx, record); err != nil {
		s.logger.Error("Failed to append execution record",
			zap.String("feature", "execution"),
			zap.Error(err))
		return
	}
	s.hub.Broadcast("execution", record)
}

func (s *ExecutionServiceImpl) List(ctx context.Context, filter Filter) ([]Record, error) {
	return s.repo.List(ctx, filter)
}
