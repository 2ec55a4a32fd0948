package automation

import (
	"context"
	"errors"
	"testing"
	"time"

	common_models "go-crm-automation/internal/common/models"
	"go-crm-automation/internal/features/execution"
	"go-crm-automation/internal/features/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeTaskRepo struct {
	tasks     []common_models.Task
	createErr error
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *common_models.Task) error {
	if f.createErr != nil {
		return f.createErr
	}
	task.ID = primitive.NewObjectID()
	f.tasks = append(f.tasks, *task)
	return nil
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id string) (*common_models.Task, error) {
	for i := range f.tasks {
		if f.tasks[i].ID.Hex() == id {
			return &f.tasks[i], nil
		}
	}
	return nil, nil
}

func (f *fakeTaskRepo) List(ctx context.Context, limit int64) ([]common_models.Task, error) {
	return f.tasks, nil
}

func (f *fakeTaskRepo) FindDueWithin(ctx context.Context, from, to time.Time) ([]common_models.Task, error) {
	var due []common_models.Task
	for _, task := range f.tasks {
		if task.Completed || task.Status == common_models.TaskStatusCompleted {
			continue
		}
		if !task.DueDate.Before(from) && !task.DueDate.After(to) {
			due = append(due, task)
		}
	}
	return due, nil
}

type fakeDealRepo struct {
	deals        []common_models.Deal
	stagedDeals  map[string]common_models.DealStage
	updateErr    error
	findLeadsErr error
}

func (f *fakeDealRepo) Create(ctx context.Context, deal *common_models.Deal) error {
	deal.ID = primitive.NewObjectID()
	f.deals = append(f.deals, *deal)
	return nil
}

func (f *fakeDealRepo) GetByID(ctx context.Context, id string) (*common_models.Deal, error) {
	for i := range f.deals {
		if f.deals[i].ID.Hex() == id {
			return &f.deals[i], nil
		}
	}
	return nil, nil
}

func (f *fakeDealRepo) UpdateStage(ctx context.Context, id string, stage common_models.DealStage) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.stagedDeals == nil {
		f.stagedDeals = map[string]common_models.DealStage{}
	}
	f.stagedDeals[id] = stage
	return nil
}

func (f *fakeDealRepo) FindLeadsOlderThan(ctx context.Context, cutoff time.Time) ([]common_models.Deal, error) {
	if f.findLeadsErr != nil {
		return nil, f.findLeadsErr
	}
	var leads []common_models.Deal
	for _, deal := range f.deals {
		if deal.Stage == common_models.StageLead && deal.CreatedAt.Before(cutoff) {
			leads = append(leads, deal)
		}
	}
	return leads, nil
}

type fakeNoteRepo struct {
	notes     []common_models.Note
	createErr error
}

func (f *fakeNoteRepo) Create(ctx context.Context, note *common_models.Note) error {
	if f.createErr != nil {
		return f.createErr
	}
	note.ID = primitive.NewObjectID()
	f.notes = append(f.notes, *note)
	return nil
}

func (f *fakeNoteRepo) ListByTask(ctx context.Context, taskID string, limit int64) ([]common_models.Note, error) {
	var out []common_models.Note
	for _, note := range f.notes {
		if note.TaskID != nil && note.TaskID.Hex() == taskID {
			out = append(out, note)
		}
	}
	return out, nil
}

type fakeNotificationService struct {
	sent    []string
	sendErr error
}

func (f *fakeNotificationService) Send(ctx context.Context, message string, metadata map[string]interface{}) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, message)
	return nil
}

func (f *fakeNotificationService) List(ctx context.Context, limit int64) ([]notification.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationService) MarkRead(ctx context.Context, id string) error {
	return nil
}

func newTestExecutor(taskRepo *fakeTaskRepo, dealRepo *fakeDealRepo, noteRepo *fakeNoteRepo, notifier *fakeNotificationService) ActionExecutor {
	return NewActionExecutor(taskRepo, dealRepo, noteRepo, notifier, zap.NewNop())
}

func TestExecuteCreateTask(t *testing.T) {
	taskRepo := &fakeTaskRepo{}
	executor := newTestExecutor(taskRepo, &fakeDealRepo{}, &fakeNoteRepo{}, &fakeNotificationService{})

	spec := ActionSpec{Action: &CreateTaskAction{Title: "Call back", Priority: common_models.PriorityHigh}}
	outcome := executor.Execute(context.Background(), spec, nil)

	assert.Equal(t, execution.StatusSuccess, outcome.Status)
	assert.NoError(t, outcome.Err)
	require.Len(t, taskRepo.tasks, 1)
	assert.Equal(t, "Call back", taskRepo.tasks[0].Title)
	assert.Equal(t, common_models.TaskStatusPending, taskRepo.tasks[0].Status)
	assert.Equal(t, taskRepo.tasks[0].ID.Hex(), outcome.Metadata["task_id"])
}

func TestExecuteCreateTaskUsesPayloadDueDate(t *testing.T) {
	taskRepo := &fakeTaskRepo{}
	executor := newTestExecutor(taskRepo, &fakeDealRepo{}, &fakeNoteRepo{}, &fakeNotificationService{})

	due := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	spec := ActionSpec{Action: &CreateTaskAction{Title: "Review contract", Priority: common_models.PriorityLow}}
	outcome := executor.Execute(context.Background(), spec, map[string]interface{}{
		"due_date": due.Format(time.RFC3339),
	})

	assert.Equal(t, execution.StatusSuccess, outcome.Status)
	require.Len(t, taskRepo.tasks, 1)
	assert.True(t, taskRepo.tasks[0].DueDate.Equal(due))
}

func TestExecuteCreateTaskStoreFailure(t *testing.T) {
	taskRepo := &fakeTaskRepo{createErr: errors.New("connection reset")}
	executor := newTestExecutor(taskRepo, &fakeDealRepo{}, &fakeNoteRepo{}, &fakeNotificationService{})

	spec := ActionSpec{Action: &CreateTaskAction{Title: "Call back", Priority: common_models.PriorityHigh}}
	outcome := executor.Execute(context.Background(), spec, nil)

	assert.Equal(t, execution.StatusFailed, outcome.Status)
	require.Error(t, outcome.Err)
	assert.Contains(t, outcome.Err.Error(), "connection reset")
}

func TestExecuteUpdateDealStage(t *testing.T) {
	dealRepo := &fakeDealRepo{}
	executor := newTestExecutor(&fakeTaskRepo{}, dealRepo, &fakeNoteRepo{}, &fakeNotificationService{})

	dealID := primitive.NewObjectID().Hex()
	spec := ActionSpec{Action: &UpdateDealStageAction{Stage: common_models.StageClosed}}
	outcome := executor.Execute(context.Background(), spec, map[string]interface{}{"deal_id": dealID})

	assert.Equal(t, execution.StatusSuccess, outcome.Status)
	assert.Equal(t, common_models.StageClosed, dealRepo.stagedDeals[dealID])
	assert.Equal(t, dealID, outcome.Metadata["deal_id"])
}

func TestExecuteUpdateDealStageWithoutDeal(t *testing.T) {
	executor := newTestExecutor(&fakeTaskRepo{}, &fakeDealRepo{}, &fakeNoteRepo{}, &fakeNotificationService{})

	spec := ActionSpec{Action: &UpdateDealStageAction{Stage: common_models.StageClosed}}
	outcome := executor.Execute(context.Background(), spec, map[string]interface{}{})

	assert.Equal(t, execution.StatusFailed, outcome.Status)
	require.Error(t, outcome.Err)
	assert.Contains(t, outcome.Err.Error(), "no deal in context")
}

func TestExecuteSendNotificationFailureIsVerbatim(t *testing.T) {
	sendErr := errors.New("hub unavailable")
	notifier := &fakeNotificationService{sendErr: sendErr}
	executor := newTestExecutor(&fakeTaskRepo{}, &fakeDealRepo{}, &fakeNoteRepo{}, notifier)

	spec := ActionSpec{Action: &SendNotificationAction{Message: "hello"}}
	outcome := executor.Execute(context.Background(), spec, nil)

	assert.Equal(t, execution.StatusFailed, outcome.Status)
	assert.Equal(t, sendErr, outcome.Err)
}

func TestExecuteCheckLeadAge(t *testing.T) {
	now := time.Now()
	clientID := primitive.NewObjectID()
	dealRepo := &fakeDealRepo{deals: []common_models.Deal{
		{ID: primitive.NewObjectID(), Title: "Old lead A", Stage: common_models.StageLead, ClientID: &clientID, CreatedAt: now.AddDate(0, 0, -10)},
		{ID: primitive.NewObjectID(), Title: "Old lead B", Stage: common_models.StageLead, CreatedAt: now.AddDate(0, 0, -9)},
		{ID: primitive.NewObjectID(), Title: "Fresh lead", Stage: common_models.StageLead, CreatedAt: now.AddDate(0, 0, -2)},
		{ID: primitive.NewObjectID(), Title: "Old but negotiating", Stage: common_models.StageNegotiation, CreatedAt: now.AddDate(0, 0, -20)},
	}}
	taskRepo := &fakeTaskRepo{}
	executor := newTestExecutor(taskRepo, dealRepo, &fakeNoteRepo{}, &fakeNotificationService{})

	spec := ActionSpec{Action: &CheckLeadAgeAction{Days: 7}}
	outcome := executor.Execute(context.Background(), spec, nil)

	assert.Equal(t, execution.StatusSuccess, outcome.Status)
	assert.Equal(t, 2, outcome.Metadata["affected"])
	require.Len(t, taskRepo.tasks, 2)
	assert.Equal(t, "Follow up: Old lead A (7 days old)", taskRepo.tasks[0].Title)
	assert.Equal(t, common_models.PriorityHigh, taskRepo.tasks[0].Priority)
	assert.Equal(t, common_models.TaskStatusNotStarted, taskRepo.tasks[0].Status)
	assert.Equal(t, &clientID, taskRepo.tasks[0].ClientID)
}

func TestExecuteCheckLeadAgeAbortsOnStoreFailure(t *testing.T) {
	now := time.Now()
	dealRepo := &fakeDealRepo{deals: []common_models.Deal{
		{ID: primitive.NewObjectID(), Title: "Old lead", Stage: common_models.StageLead, CreatedAt: now.AddDate(0, 0, -10)},
	}}
	taskRepo := &fakeTaskRepo{createErr: errors.New("write failed")}
	executor := newTestExecutor(taskRepo, dealRepo, &fakeNoteRepo{}, &fakeNotificationService{})

	spec := ActionSpec{Action: &CheckLeadAgeAction{Days: 7}}
	outcome := executor.Execute(context.Background(), spec, nil)

	assert.Equal(t, execution.StatusFailed, outcome.Status)
	assert.Equal(t, 0, outcome.Metadata["affected"])
}

func TestExecuteCheckTaskDue(t *testing.T) {
	now := time.Now()
	taskID := primitive.NewObjectID()
	taskRepo := &fakeTaskRepo{tasks: []common_models.Task{
		{ID: taskID, Title: "Due soon", Status: common_models.TaskStatusInProgress, DueDate: now.Add(12 * time.Hour)},
		{ID: primitive.NewObjectID(), Title: "Due later", Status: common_models.TaskStatusPending, DueDate: now.Add(48 * time.Hour)},
		{ID: primitive.NewObjectID(), Title: "Done", Status: common_models.TaskStatusCompleted, DueDate: now.Add(6 * time.Hour)},
	}}
	noteRepo := &fakeNoteRepo{}
	executor := newTestExecutor(taskRepo, &fakeDealRepo{}, noteRepo, &fakeNotificationService{})

	spec := ActionSpec{Action: &CheckTaskDueAction{HoursBefore: 24}}
	outcome := executor.Execute(context.Background(), spec, nil)

	assert.Equal(t, execution.StatusSuccess, outcome.Status)
	assert.Equal(t, 1, outcome.Metadata["affected"])
	require.Len(t, noteRepo.notes, 1)
	assert.Equal(t, "Automated Reminder: This task is due in less than 24 hours.", noteRepo.notes[0].Content)
	require.NotNil(t, noteRepo.notes[0].TaskID)
	assert.Equal(t, taskID, *noteRepo.notes[0].TaskID)
}

func TestExecuteFailsClosedOnMalformedSpec(t *testing.T) {
	executor := newTestExecutor(&fakeTaskRepo{}, &fakeDealRepo{}, &fakeNoteRepo{}, &fakeNotificationService{})

	t.Run("nil action", func(t *testing.T) {
		outcome := executor.Execute(context.Background(), ActionSpec{}, nil)
		assert.Equal(t, execution.StatusFailed, outcome.Status)
		require.Error(t, outcome.Err)
		assert.Contains(t, outcome.Err.Error(), "malformed action")
	})

	t.Run("invalid stored fields", func(t *testing.T) {
		spec := ActionSpec{Action: &CreateTaskAction{Title: "", Priority: common_models.PriorityLow}}
		outcome := executor.Execute(context.Background(), spec, nil)
		assert.Equal(t, execution.StatusFailed, outcome.Status)
		require.Error(t, outcome.Err)
		assert.Contains(t, outcome.Err.Error(), "malformed action")
	})
}
