package automation

import (
	"context"
	"errors"
	"testing"
	"time"

	common_models "go-crm-automation/internal/common/models"
	"go-crm-automation/internal/features/execution"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeAutomationRepo struct {
	rules []AutomationRule
	err   error
}

func (f *fakeAutomationRepo) Create(ctx context.Context, rule *AutomationRule) error {
	rule.ID = primitive.NewObjectID()
	f.rules = append(f.rules, *rule)
	return nil
}

func (f *fakeAutomationRepo) GetByID(ctx context.Context, id string) (*AutomationRule, error) {
	for i := range f.rules {
		if f.rules[i].ID.Hex() == id {
			return &f.rules[i], nil
		}
	}
	return nil, nil
}

func (f *fakeAutomationRepo) List(ctx context.Context) ([]AutomationRule, error) {
	return f.rules, nil
}

func (f *fakeAutomationRepo) GetEnabledByTrigger(ctx context.Context, trigger TriggerType) ([]AutomationRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []AutomationRule
	for _, rule := range f.rules {
		if rule.Enabled && rule.TriggerType == trigger {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (f *fakeAutomationRepo) Update(ctx context.Context, rule *AutomationRule) error { return nil }
func (f *fakeAutomationRepo) Delete(ctx context.Context, id string) error            { return nil }
func (f *fakeAutomationRepo) SetEnabled(ctx context.Context, id string, enabled bool) error {
	return nil
}

// stubExecutor fails for every action kind listed in failKinds and succeeds
// for the rest.
type stubExecutor struct {
	failKinds map[ActionType]error
	calls     []ActionType
}

func (s *stubExecutor) Execute(ctx context.Context, spec ActionSpec, payload map[string]interface{}) Outcome {
	kind := spec.Action.Kind()
	s.calls = append(s.calls, kind)
	if err, ok := s.failKinds[kind]; ok {
		return Outcome{Status: execution.StatusFailed, Err: err}
	}
	return Outcome{Status: execution.StatusSuccess, Metadata: map[string]interface{}{"action": string(kind)}}
}

type memRecorder struct {
	records []execution.Record
}

func (m *memRecorder) Record(ctx context.Context, record *execution.Record) {
	m.records = append(m.records, *record)
}

func oid(suffix string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex("00000000000000000000000" + suffix)
	if err != nil {
		panic(err)
	}
	return id
}

func notifyRule(id primitive.ObjectID, name string, conditions []RuleCondition) AutomationRule {
	return AutomationRule{
		ID:          id,
		Name:        name,
		TriggerType: TriggerDealStageChange,
		Conditions:  conditions,
		Actions: []ActionSpec{
			{Action: &SendNotificationAction{Message: name}},
		},
		Enabled: true,
	}
}

func TestMatchOrdersByID(t *testing.T) {
	repo := &fakeAutomationRepo{rules: []AutomationRule{
		notifyRule(oid("3"), "third", nil),
		notifyRule(oid("1"), "first", nil),
		notifyRule(oid("2"), "second", nil),
	}}
	service := NewAutomationService(repo, &stubExecutor{}, &memRecorder{}, zap.NewNop())

	matched, err := service.Match(context.Background(), Event{Type: TriggerDealStageChange})
	require.NoError(t, err)
	require.Len(t, matched, 3)
	assert.Equal(t, "first", matched[0].Name)
	assert.Equal(t, "second", matched[1].Name)
	assert.Equal(t, "third", matched[2].Name)
}

func TestMatchFiltersByTriggerAndConditions(t *testing.T) {
	closedOnly := []RuleCondition{{Field: "stage", Operator: OperatorEquals, Value: "Closed"}}

	disabled := notifyRule(oid("4"), "disabled", nil)
	disabled.Enabled = false

	otherTrigger := notifyRule(oid("5"), "other trigger", nil)
	otherTrigger.TriggerType = TriggerClientAdded

	repo := &fakeAutomationRepo{rules: []AutomationRule{
		notifyRule(oid("1"), "unconditional", nil),
		notifyRule(oid("2"), "closed only", closedOnly),
		disabled,
		otherTrigger,
	}}
	service := NewAutomationService(repo, &stubExecutor{}, &memRecorder{}, zap.NewNop())

	matched, err := service.Match(context.Background(), Event{
		Type:    TriggerDealStageChange,
		Payload: map[string]interface{}{"stage": "Lead"},
	})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "unconditional", matched[0].Name)
}

func TestHandleEventRecordsEveryAttempt(t *testing.T) {
	rule := AutomationRule{
		ID:          oid("1"),
		Name:        "two actions",
		TriggerType: TriggerDealStageChange,
		Actions: []ActionSpec{
			{Action: &SendNotificationAction{Message: "first"}},
			{Action: &CreateTaskAction{Title: "second", Priority: common_models.PriorityLow}},
		},
		Enabled: true,
	}
	repo := &fakeAutomationRepo{rules: []AutomationRule{rule}}
	executor := &stubExecutor{}
	recorder := &memRecorder{}
	service := NewAutomationService(repo, executor, recorder, zap.NewNop())

	event := Event{ID: "evt-1", Type: TriggerDealStageChange, OccurredAt: time.Now()}
	records, err := service.HandleEvent(context.Background(), event)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Len(t, recorder.records, 2)
	assert.Equal(t, []ActionType{ActionSendNotification, ActionCreateTask}, executor.calls)
	for _, record := range records {
		require.NotNil(t, record.RuleID)
		assert.Equal(t, rule.ID, *record.RuleID)
		assert.Equal(t, execution.StatusSuccess, record.Status)
		assert.Equal(t, "evt-1", record.Metadata["event_id"])
		assert.Equal(t, string(TriggerDealStageChange), record.Metadata["event_type"])
	}
}

func TestHandleEventIsolatesFailures(t *testing.T) {
	repo := &fakeAutomationRepo{rules: []AutomationRule{
		notifyRule(oid("1"), "fails", nil),
		{
			ID:          oid("2"),
			Name:        "still runs",
			TriggerType: TriggerDealStageChange,
			Actions: []ActionSpec{
				{Action: &CreateTaskAction{Title: "follow up", Priority: common_models.PriorityLow}},
			},
			Enabled: true,
		},
	}}
	executor := &stubExecutor{failKinds: map[ActionType]error{
		ActionSendNotification: errors.New("hub down"),
	}}
	recorder := &memRecorder{}
	service := NewAutomationService(repo, executor, recorder, zap.NewNop())

	records, err := service.HandleEvent(context.Background(), Event{ID: "evt-2", Type: TriggerDealStageChange})
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, execution.StatusFailed, records[0].Status)
	assert.Equal(t, "hub down", records[0].Error)
	assert.Equal(t, execution.StatusSuccess, records[1].Status)
	assert.Len(t, recorder.records, 2)
}

func TestHandleEventWithNoMatchingRules(t *testing.T) {
	repo := &fakeAutomationRepo{}
	executor := &stubExecutor{}
	recorder := &memRecorder{}
	service := NewAutomationService(repo, executor, recorder, zap.NewNop())

	records, err := service.HandleEvent(context.Background(), Event{Type: TriggerTaskCreated})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, executor.calls)
	assert.Empty(t, recorder.records)
}

func TestCreateRuleValidation(t *testing.T) {
	service := NewAutomationService(&fakeAutomationRepo{}, &stubExecutor{}, &memRecorder{}, zap.NewNop())

	tests := []struct {
		name string
		rule AutomationRule
	}{
		{"missing name", AutomationRule{TriggerType: TriggerTaskCreated}},
		{"unknown trigger", AutomationRule{Name: "r", TriggerType: "task_deleted"}},
		{
			"unknown operator",
			AutomationRule{
				Name:        "r",
				TriggerType: TriggerTaskCreated,
				Conditions:  []RuleCondition{{Field: "x", Operator: "between", Value: 1}},
			},
		},
		{
			"condition without field",
			AutomationRule{
				Name:        "r",
				TriggerType: TriggerTaskCreated,
				Conditions:  []RuleCondition{{Operator: OperatorEquals, Value: 1}},
			},
		},
		{
			"action without type",
			AutomationRule{
				Name:        "r",
				TriggerType: TriggerTaskCreated,
				Actions:     []ActionSpec{{}},
			},
		},
		{
			"invalid action fields",
			AutomationRule{
				Name:        "r",
				TriggerType: TriggerTaskCreated,
				Actions:     []ActionSpec{{Action: &CheckLeadAgeAction{Days: -1}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := tt.rule
			err := service.CreateRule(context.Background(), &rule)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateRuleAcceptsValidRule(t *testing.T) {
	repo := &fakeAutomationRepo{}
	service := NewAutomationService(repo, &stubExecutor{}, &memRecorder{}, zap.NewNop())

	rule := AutomationRule{
		Name:        "welcome",
		TriggerType: TriggerClientAdded,
		Actions: []ActionSpec{
			{Action: &CreateTaskAction{Title: "Onboarding call", Priority: common_models.PriorityMedium}},
		},
	}
	require.NoError(t, service.CreateRule(context.Background(), &rule))
	assert.Len(t, repo.rules, 1)
	assert.False(t, rule.ID.IsZero())
}
