package execution

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusSuccess Status = "Success"
	StatusFailed  Status = "Failed"
)

// Record is one immutable audit entry for one dispatch attempt. Exactly one
// record is written per attempt, success or failure, and records are never
// updated or deleted by the engine.
type Record struct {
	ID         primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	RuleID     *primitive.ObjectID    `json:"rule_id,omitempty" bson:"rule_id,omitempty"`
	TaskID     *primitive.ObjectID    `json:"task_id,omitempty" bson:"task_id,omitempty"`
	Status     Status                 `json:"status" bson:"status"`
	Error      string                 `json:"error,omitempty" bson:"error,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	DurationMs int64                  `json:"duration_ms" bson:"duration_ms"`
	Timestamp  time.Time              `json:"timestamp" bson:"timestamp"`
}

// Filter narrows List queries.
type Filter struct {
	RuleID string
	TaskID string
	Status Status
	Limit  int64
}
