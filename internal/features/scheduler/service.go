package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-crm-automation/internal/features/automation"
	"go-crm-automation/internal/features/execution"

	"go.uber.org/zap"
)

var (
	// ErrValidation marks configuration errors rejected before persistence.
	ErrValidation = errors.New("invalid scheduled task")
	ErrNotFound   = errors.New("scheduled task not found")
)

type SchedulerService interface {
	CreateTask(ctx context.Context, task *ScheduledTask) error
	GetTask(ctx context.Context, id string) (*ScheduledTask, error)
	ListTasks(ctx context.Context) ([]ScheduledTask, error)
	UpdateTask(ctx context.Context, task *ScheduledTask) error
	DeleteTask(ctx context.Context, id string) error
	ToggleTask(ctx context.Context, id string, enabled bool) error

	// RunTaskNow dispatches the task immediately, bypassing the due-check.
	RunTaskNow(ctx context.Context, id string) (*execution.Record, error)

	// Tick runs every enabled task that is due at now. Ticks never overlap;
	// a Tick arriving while another runs returns immediately with no work.
	Tick(ctx context.Context, now time.Time) []execution.Record
}

type SchedulerServiceImpl struct {
	repo     SchedulerRepository
	executor automation.ActionExecutor
	recorder execution.Recorder
	logger   *zap.Logger

	tickMu sync.Mutex
}

func NewSchedulerService(
	repo SchedulerRepository,
	executor automation.ActionExecutor,
	recorder execution.Recorder,
	logger *zap.Logger,
) SchedulerService {
	return &SchedulerServiceImpl{
		repo:     repo,
		executor: executor,
		recorder: recorder,
		logger:   logger,
	}
}

func validateTask(task *ScheduledTask) error {
	if task.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if _, err := ParseCadence(task.Schedule); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if task.Action.Action == nil {
		return fmt.Errorf("%w: action is required", ErrValidation)
	}
	if err := task.Action.Action.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func (s *SchedulerServiceImpl) CreateTask(ctx context.Context, task *ScheduledTask) error {
	if err := validateTask(task); err != nil {
		return err
	}
	return s.repo.Create(ctx, task)
}

func (s *SchedulerServiceImpl) GetTask(ctx context.Context, id string) (*ScheduledTask, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *SchedulerServiceImpl) ListTasks(ctx context.Context) ([]ScheduledTask, error) {
	return s.repo.List(ctx)
}

func (s *SchedulerServiceImpl) UpdateTask(ctx context.Context, task *ScheduledTask) error {
	if err := validateTask(task); err != nil {
		return err
	}
	return s.repo.Update(ctx, task)
}

func (s *SchedulerServiceImpl) DeleteTask(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *SchedulerServiceImpl) ToggleTask(ctx context.Context, id string, enabled bool) error {
	return s.repo.SetEnabled(ctx, id, enabled)
}

func (s *SchedulerServiceImpl) RunTaskNow(ctx context.Context, id string) (*execution.Record, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrNotFound
	}

	record := s.runTask(ctx, task, time.Now())
	return record, nil
}

func (s *SchedulerServiceImpl) Tick(ctx context.Context, now time.Time) []execution.Record {
	if !s.tickMu.TryLock() {
		s.logger.Warn("Tick skipped: previous tick still running",
			zap.String("feature", "scheduler"))
		return nil
	}
	defer s.tickMu.Unlock()

	tasks, err := s.repo.GetEnabled(ctx)
	if err != nil {
		s.logger.Error("Failed to load scheduled tasks",
			zap.String("feature", "scheduler"),
			zap.Error(err))
		return nil
	}

	var records []execution.Record
	for i := range tasks {
		task := &tasks[i]

		cadence, err := ParseCadence(task.Schedule)
		if err != nil {
			// Schedules are validated at save time; a bad one here means
			// the stored document was edited out of band.
			s.logger.Warn("Skipping task with invalid schedule",
				zap.String("feature", "scheduler"),
				zap.String("task", task.Name),
				zap.Error(err))
			continue
		}
		if !cadence.Due(task.LastRun, now) {
			continue
		}

		if record := s.runTask(ctx, task, now); record != nil {
			records = append(records, *record)
		}
	}
	return records
}

// runTask is one invocation attempt: advance lastRun first, then dispatch,
// then append exactly one execution record. Updating lastRun before the
// dispatch keeps a crash mid-action from re-triggering on the same tick.
func (s *SchedulerServiceImpl) runTask(ctx context.Context, task *ScheduledTask, now time.Time) *execution.Record {
	taskID := task.ID

	if err := s.repo.UpdateLastRun(ctx, taskID, now); err != nil {
		// Without a durable lastRun the at-most-once guarantee is gone, so
		// the dispatch is withheld and the failure logged instead.
		record := &execution.Record{
			TaskID:    &taskID,
			Status:    execution.StatusFailed,
			Error:     fmt.Sprintf("failed to update last run: %v", err),
			Metadata:  map[string]interface{}{"task_name": task.Name},
			Timestamp: time.Now(),
		}
		s.recorder.Record(ctx, record)
		return record
	}
	task.LastRun = &now

	start := time.Now()
	outcome := s.executor.Execute(ctx, task.Action, map[string]interface{}{})

	metadata := outcome.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metadata["task_name"] = task.Name

	record := &execution.Record{
		TaskID:     &taskID,
		Status:     outcome.Status,
		Metadata:   metadata,
		DurationMs: time.Since(start).Milliseconds(),
		Timestamp:  time.Now(),
	}
	if outcome.Err != nil {
		record.Error = outcome.Err.Error()
		s.logger.Warn("Scheduled task failed",
			zap.String("feature", "scheduler"),
			zap.String("task", task.Name),
			zap.Error(outcome.Err))
	}

	s.recorder.Record(ctx, record)
	return record
}
