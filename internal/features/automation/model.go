package automation

import (
	"encoding/json"
	"fmt"
	"time"

	common_models "go-crm-automation/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TriggerType string

const (
	TriggerTaskCreated     TriggerType = "task_created"
	TriggerTaskCompleted   TriggerType = "task_completed"
	TriggerTaskOverdue     TriggerType = "task_overdue"
	TriggerDealStageChange TriggerType = "deal_stage_change"
	TriggerClientAdded     TriggerType = "client_added"
)

var knownTriggers = map[TriggerType]bool{
	TriggerTaskCreated:     true,
	TriggerTaskCompleted:   true,
	TriggerTaskOverdue:     true,
	TriggerDealStageChange: true,
	TriggerClientAdded:     true,
}

type ValidationOperator string

const (
	OperatorEquals      ValidationOperator = "equals"
	OperatorNotEquals   ValidationOperator = "not_equals"
	OperatorContains    ValidationOperator = "contains"
	OperatorGreaterThan ValidationOperator = "gt"
	OperatorLessThan    ValidationOperator = "lt"
)

var knownOperators = map[ValidationOperator]bool{
	OperatorEquals:      true,
	OperatorNotEquals:   true,
	OperatorContains:    true,
	OperatorGreaterThan: true,
	OperatorLessThan:    true,
}

// RuleCondition is one clause of a rule's predicate. All clauses are AND-ed;
// an empty clause list means the rule is unconditional.
type RuleCondition struct {
	Field    string             `json:"field" bson:"field"`
	Operator ValidationOperator `json:"operator" bson:"operator"`
	Value    interface{}        `json:"value" bson:"value"`
}

type ActionType string

const (
	ActionCreateTask       ActionType = "create_task"
	ActionUpdateDealStage  ActionType = "update_deal_stage"
	ActionSendNotification ActionType = "send_notification"
	ActionCheckLeadAge     ActionType = "check_lead_age"
	ActionCheckTaskDue     ActionType = "check_task_due"
)

// Action is the closed set of automated effects. Each variant carries only
// its own fields; decoding rejects tags outside this set.
type Action interface {
	Kind() ActionType
	Validate() error
}

type CreateTaskAction struct {
	Title    string                     `json:"title" bson:"title"`
	Priority common_models.TaskPriority `json:"priority" bson:"priority"`
}

func (a *CreateTaskAction) Kind() ActionType { return ActionCreateTask }

func (a *CreateTaskAction) Validate() error {
	if a.Title == "" {
		return fmt.Errorf("create_task: title is required")
	}
	switch a.Priority {
	case common_models.PriorityLow, common_models.PriorityMedium, common_models.PriorityHigh:
		return nil
	default:
		return fmt.Errorf("create_task: invalid priority %q", a.Priority)
	}
}

type UpdateDealStageAction struct {
	Stage common_models.DealStage `json:"stage" bson:"stage"`
}

func (a *UpdateDealStageAction) Kind() ActionType { return ActionUpdateDealStage }

func (a *UpdateDealStageAction) Validate() error {
	switch a.Stage {
	case common_models.StageLead, common_models.StageContactMade, common_models.StageAnalyzing,
		common_models.StageOfferSent, common_models.StageNegotiation,
		common_models.StageUnderContract, common_models.StageClosed:
		return nil
	default:
		return fmt.Errorf("update_deal_stage: invalid stage %q", a.Stage)
	}
}

type SendNotificationAction struct {
	Message string `json:"message" bson:"message"`
}

func (a *SendNotificationAction) Kind() ActionType { return ActionSendNotification }

func (a *SendNotificationAction) Validate() error {
	if a.Message == "" {
		return fmt.Errorf("send_notification: message is required")
	}
	return nil
}

type CheckLeadAgeAction struct {
	Days int `json:"days" bson:"days"`
}

func (a *CheckLeadAgeAction) Kind() ActionType { return ActionCheckLeadAge }

func (a *CheckLeadAgeAction) Validate() error {
	if a.Days <= 0 {
		return fmt.Errorf("check_lead_age: days must be positive")
	}
	return nil
}

type CheckTaskDueAction struct {
	HoursBefore int `json:"hours_before" bson:"hours_before"`
}

func (a *CheckTaskDueAction) Kind() ActionType { return ActionCheckTaskDue }

func (a *CheckTaskDueAction) Validate() error {
	if a.HoursBefore <= 0 {
		return fmt.Errorf("check_task_due: hours_before must be positive")
	}
	return nil
}

func newAction(kind ActionType) (Action, error) {
	switch kind {
	case ActionCreateTask:
		return &CreateTaskAction{}, nil
	case ActionUpdateDealStage:
		return &UpdateDealStageAction{}, nil
	case ActionSendNotification:
		return &SendNotificationAction{}, nil
	case ActionCheckLeadAge:
		return &CheckLeadAgeAction{}, nil
	case ActionCheckTaskDue:
		return &CheckTaskDueAction{}, nil
	default:
		return nil, fmt.Errorf("unsupported action type: %s", kind)
	}
}

// ActionSpec wraps an Action for storage and transport. On the wire and in
// Mongo it is a flat document with a "type" tag next to the variant's own
// fields, so stored rules round-trip losslessly.
//
// JSON decoding (the authoring path) rejects unknown tags and invalid fields
// outright. BSON decoding (the storage path) keeps a nil Action for an
// unknown tag instead of failing the whole read; the dispatcher fails closed
// on it at execution time.
type ActionSpec struct {
	Action Action
}

func (s ActionSpec) MarshalJSON() ([]byte, error) {
	if s.Action == nil {
		return nil, fmt.Errorf("action spec has no action")
	}
	body, err := json.Marshal(s.Action)
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	doc["type"] = s.Action.Kind()
	return json.Marshal(doc)
}

func (s *ActionSpec) UnmarshalJSON(data []byte) error {
	var head struct {
		Type ActionType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	action, err := newAction(head.Type)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, action); err != nil {
		return err
	}
	if err := action.Validate(); err != nil {
		return err
	}
	s.Action = action
	return nil
}

func (s ActionSpec) MarshalBSON() ([]byte, error) {
	if s.Action == nil {
		return nil, fmt.Errorf("action spec has no action")
	}
	body, err := bson.Marshal(s.Action)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	doc["type"] = string(s.Action.Kind())
	return bson.Marshal(doc)
}

func (s *ActionSpec) UnmarshalBSON(data []byte) error {
	var head struct {
		Type ActionType `bson:"type"`
	}
	if err := bson.Unmarshal(data, &head); err != nil {
		return err
	}
	action, err := newAction(head.Type)
	if err != nil {
		// Stored form predates or escapes the closed set; surface it at
		// dispatch, not here, so one bad rule cannot break a whole listing.
		s.Action = nil
		return nil
	}
	if err := bson.Unmarshal(data, action); err != nil {
		return err
	}
	s.Action = action
	return nil
}

type AutomationRule struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	TriggerType TriggerType        `json:"trigger_type" bson:"trigger_type"`
	Conditions  []RuleCondition    `json:"conditions" bson:"conditions"`
	Actions     []ActionSpec       `json:"actions" bson:"actions"`
	Enabled     bool               `json:"enabled" bson:"enabled"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// Event is one observed change pushed in by the event source.
type Event struct {
	ID         string                 `json:"id"`
	Type       TriggerType            `json:"type"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurred_at"`
}
