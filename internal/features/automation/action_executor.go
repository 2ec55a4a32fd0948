package automation

import (
	"context"
	"fmt"
	"time"

	common_models "go-crm-automation/internal/common/models"
	"go-crm-automation/internal/features/execution"
	"go-crm-automation/internal/features/notification"
	"go-crm-automation/internal/features/record"

	"go.uber.org/zap"
)

// Outcome is the result of one dispatch attempt. Err carries the underlying
// failure verbatim; Metadata snapshots what happened (created ids, affected
// counts).
type Outcome struct {
	Status   execution.Status
	Err      error
	Metadata map[string]interface{}
}

func success(metadata map[string]interface{}) Outcome {
	return Outcome{Status: execution.StatusSuccess, Metadata: metadata}
}

func failed(err error, metadata map[string]interface{}) Outcome {
	return Outcome{Status: execution.StatusFailed, Err: err, Metadata: metadata}
}

// ActionExecutor dispatches a single ActionSpec against the data store or
// the notification transport. It never returns an error to the caller; every
// failure is folded into a Failed outcome so one action cannot abort
// processing of others.
type ActionExecutor interface {
	Execute(ctx context.Context, spec ActionSpec, payload map[string]interface{}) Outcome
}

type ActionExecutorImpl struct {
	taskRepo            record.TaskRepository
	dealRepo            record.DealRepository
	noteRepo            record.NoteRepository
	notificationService notification.NotificationService
	logger              *zap.Logger
}

func NewActionExecutor(
	taskRepo record.TaskRepository,
	dealRepo record.DealRepository,
	noteRepo record.NoteRepository,
	notificationService notification.NotificationService,
	logger *zap.Logger,
) ActionExecutor {
	return &ActionExecutorImpl{
		taskRepo:            taskRepo,
		dealRepo:            dealRepo,
		noteRepo:            noteRepo,
		notificationService: notificationService,
		logger:              logger,
	}
}

func (e *ActionExecutorImpl) Execute(ctx context.Context, spec ActionSpec, payload map[string]interface{}) Outcome {
	if spec.Action == nil {
		return failed(fmt.Errorf("malformed action: unknown or missing type"), nil)
	}
	// Authoring validates specs before they are stored, but the stored form
	// is still checked here so the engine fails closed on corrupt documents.
	if err := spec.Action.Validate(); err != nil {
		return failed(fmt.Errorf("malformed action: %w", err), nil)
	}

	switch action := spec.Action.(type) {
	case *CreateTaskAction:
		return e.executeCreateTask(ctx, action, payload)
	case *UpdateDealStageAction:
		return e.executeUpdateDealStage(ctx, action, payload)
	case *SendNotificationAction:
		return e.executeSendNotification(ctx, action, payload)
	case *CheckLeadAgeAction:
		return e.executeCheckLeadAge(ctx, action)
	case *CheckTaskDueAction:
		return e.executeCheckTaskDue(ctx, action)
	default:
		return failed(fmt.Errorf("unsupported action type: %s", spec.Action.Kind()), nil)
	}
}

func (e *ActionExecutorImpl) executeCreateTask(ctx context.Context, action *CreateTaskAction, payload map[string]interface{}) Outcome {
	task := &common_models.Task{
		Title:    action.Title,
		Priority: action.Priority,
		Status:   common_models.TaskStatusPending,
		DueDate:  dueDateFromPayload(payload),
	}

	if err := e.taskRepo.Create(ctx, task); err != nil {
		return failed(fmt.Errorf("failed to create task: %w", err), nil)
	}

	e.logger.Info("Created task", zap.String("feature", "automation"), zap.String("title", task.Title))
	return success(map[string]interface{}{
		"action":  string(ActionCreateTask),
		"task_id": task.ID.Hex(),
	})
}

func (e *ActionExecutorImpl) executeUpdateDealStage(ctx context.Context, action *UpdateDealStageAction, payload map[string]interface{}) Outcome {
	dealID := stringFromPayload(payload, "deal_id")
	if dealID == "" {
		// Only meaningful for deal-related triggers; without a deal in
		// context there is nothing to update.
		return failed(fmt.Errorf("update_deal_stage: no deal in context"), nil)
	}

	if err := e.dealRepo.UpdateStage(ctx, dealID, action.Stage); err != nil {
		return failed(err, nil)
	}

	e.logger.Info("Updated deal stage",
		zap.String("feature", "automation"),
		zap.String("deal_id", dealID),
		zap.String("stage", string(action.Stage)))
	return success(map[string]interface{}{
		"action":  string(ActionUpdateDealStage),
		"deal_id": dealID,
		"stage":   string(action.Stage),
	})
}

func (e *ActionExecutorImpl) executeSendNotification(ctx context.Context, action *SendNotificationAction, payload map[string]interface{}) Outcome {
	// No retry on transport failure; the Failed outcome is the record of it.
	if err := e.notificationService.Send(ctx, action.Message, payload); err != nil {
		return failed(err, nil)
	}
	return success(map[string]interface{}{
		"action":  string(ActionSendNotification),
		"message": action.Message,
	})
}

func (e *ActionExecutorImpl) executeCheckLeadAge(ctx context.Context, action *CheckLeadAgeAction) Outcome {
	cutoff := time.Now().AddDate(0, 0, -action.Days)

	leads, err := e.dealRepo.FindLeadsOlderThan(ctx, cutoff)
	if err != nil {
		return failed(err, nil)
	}

	created := 0
	for _, lead := range leads {
		task := &common_models.Task{
			Title:       fmt.Sprintf("Follow up: %s (%d days old)", lead.Title, action.Days),
			Description: fmt.Sprintf("This lead has been inactive for %d days. Please follow up.", action.Days),
			Priority:    common_models.PriorityHigh,
			Status:      common_models.TaskStatusNotStarted,
			ClientID:    lead.ClientID,
			DueDate:     time.Now(),
		}
		if err := e.taskRepo.Create(ctx, task); err != nil {
			return failed(err, map[string]interface{}{
				"action":   string(ActionCheckLeadAge),
				"affected": created,
			})
		}
		created++
	}

	e.logger.Info("Checked lead age",
		zap.String("feature", "automation"),
		zap.Int("days", action.Days),
		zap.Int("found", len(leads)))
	return success(map[string]interface{}{
		"action":   string(ActionCheckLeadAge),
		"affected": created,
	})
}

func (e *ActionExecutorImpl) executeCheckTaskDue(ctx context.Context, action *CheckTaskDueAction) Outcome {
	now := time.Now()
	target := now.Add(time.Duration(action.HoursBefore) * time.Hour)

	dueTasks, err := e.taskRepo.FindDueWithin(ctx, now, target)
	if err != nil {
		return failed(err, nil)
	}

	created := 0
	for _, dueTask := range dueTasks {
		taskID := dueTask.ID
		note := &common_models.Note{
			Content:  fmt.Sprintf("Automated Reminder: This task is due in less than %d hours.", action.HoursBefore),
			TaskID:   &taskID,
			ClientID: dueTask.ClientID,
		}
		if err := e.noteRepo.Create(ctx, note); err != nil {
			return failed(err, map[string]interface{}{
				"action":   string(ActionCheckTaskDue),
				"affected": created,
			})
		}
		created++
	}

	e.logger.Info("Checked task due",
		zap.String("feature", "automation"),
		zap.Int("hours_before", action.HoursBefore),
		zap.Int("found", len(dueTasks)))
	return success(map[string]interface{}{
		"action":   string(ActionCheckTaskDue),
		"affected": created,
	})
}

func stringFromPayload(payload map[string]interface{}, key string) string {
	if payload == nil {
		return ""
	}
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func dueDateFromPayload(payload map[string]interface{}) time.Time {
	if raw, ok := payload["due_date"]; ok {
		switch v := raw.(type) {
		case time.Time:
			return v
		case string:
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				return t
			}
		}
	}
	return time.Now()
}
