package automation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go-crm-automation/internal/features/execution"

	"go.uber.org/zap"
)

// ErrValidation marks configuration errors: malformed rules are rejected
// before persistence and never reach the engine.
var ErrValidation = errors.New("invalid rule")

type AutomationService interface {
	CreateRule(ctx context.Context, rule *AutomationRule) error
	GetRule(ctx context.Context, id string) (*AutomationRule, error)
	ListRules(ctx context.Context) ([]AutomationRule, error)
	UpdateRule(ctx context.Context, rule *AutomationRule) error
	DeleteRule(ctx context.Context, id string) error
	ToggleRule(ctx context.Context, id string, enabled bool) error

	// Match returns the enabled rules whose trigger and condition match the
	// event, in ascending id order.
	Match(ctx context.Context, event Event) ([]AutomationRule, error)

	// HandleEvent runs the full pipeline: match, dispatch each matched
	// rule's actions, record one ExecutionRecord per attempt. Rule failures
	// are isolated; the returned records cover every attempt made.
	HandleEvent(ctx context.Context, event Event) ([]execution.Record, error)
}

type AutomationServiceImpl struct {
	repo     AutomationRepository
	executor ActionExecutor
	recorder execution.Recorder
	logger   *zap.Logger
}

func NewAutomationService(
	repo AutomationRepository,
	executor ActionExecutor,
	recorder execution.Recorder,
	logger *zap.Logger,
) AutomationService {
	return &AutomationServiceImpl{
		repo:     repo,
		executor: executor,
		recorder: recorder,
		logger:   logger,
	}
}

func validateRule(rule *AutomationRule) error {
	if rule.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !knownTriggers[rule.TriggerType] {
		return fmt.Errorf("%w: unknown trigger type %q", ErrValidation, rule.TriggerType)
	}
	for _, cond := range rule.Conditions {
		if cond.Field == "" {
			return fmt.Errorf("%w: condition field is required", ErrValidation)
		}
		if !knownOperators[cond.Operator] {
			return fmt.Errorf("%w: unknown operator %q", ErrValidation, cond.Operator)
		}
	}
	for i, spec := range rule.Actions {
		if spec.Action == nil {
			return fmt.Errorf("%w: action %d has no type", ErrValidation, i)
		}
		if err := spec.Action.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	return nil
}

func (s *AutomationServiceImpl) CreateRule(ctx context.Context, rule *AutomationRule) error {
	if err := validateRule(rule); err != nil {
		return err
	}
	return s.repo.Create(ctx, rule)
}

func (s *AutomationServiceImpl) GetRule(ctx context.Context, id string) (*AutomationRule, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AutomationServiceImpl) ListRules(ctx context.Context) ([]AutomationRule, error) {
	return s.repo.List(ctx)
}

func (s *AutomationServiceImpl) UpdateRule(ctx context.Context, rule *AutomationRule) error {
	if err := validateRule(rule); err != nil {
		return err
	}
	return s.repo.Update(ctx, rule)
}

func (s *AutomationServiceImpl) DeleteRule(ctx context.Context, id string) error {
	// Deleting removes future matching only; past executions stay in the log.
	return s.repo.Delete(ctx, id)
}

func (s *AutomationServiceImpl) ToggleRule(ctx context.Context, id string, enabled bool) error {
	return s.repo.SetEnabled(ctx, id, enabled)
}

func (s *AutomationServiceImpl) Match(ctx context.Context, event Event) ([]AutomationRule, error) {
	rules, err := s.repo.GetEnabledByTrigger(ctx, event.Type)
	if err != nil {
		return nil, err
	}

	matched := make([]AutomationRule, 0, len(rules))
	for _, rule := range rules {
		if Evaluate(rule.Conditions, event.Payload) {
			matched = append(matched, rule)
		}
	}

	// The repository already sorts, but matching order is part of the
	// contract, so it is enforced here too.
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID.Hex() < matched[j].ID.Hex()
	})
	return matched, nil
}

func (s *AutomationServiceImpl) HandleEvent(ctx context.Context, event Event) ([]execution.Record, error) {
	matched, err := s.Match(ctx, event)
	if err != nil {
		return nil, err
	}

	var records []execution.Record
	for _, rule := range matched {
		// Each action attempt gets exactly one execution record, and a
		// failure in one rule never stops the next one.
		for _, spec := range rule.Actions {
			start := time.Now()
			outcome := s.executor.Execute(ctx, spec, event.Payload)

			ruleID := rule.ID
			record := execution.Record{
				RuleID:     &ruleID,
				Status:     outcome.Status,
				Metadata:   withEventMetadata(outcome.Metadata, event),
				DurationMs: time.Since(start).Milliseconds(),
				Timestamp:  time.Now(),
			}
			if outcome.Err != nil {
				record.Error = outcome.Err.Error()
				s.logger.Warn("Automation action failed",
					zap.String("feature", "automation"),
					zap.String("rule", rule.Name),
					zap.Error(outcome.Err))
			}

			s.recorder.Record(ctx, &record)
			records = append(records, record)
		}
	}
	return records, nil
}

func withEventMetadata(metadata map[string]interface{}, event Event) map[string]interface{} {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metadata["event_id"] = event.ID
	metadata["event_type"] = string(event.Type)
	return metadata
}
