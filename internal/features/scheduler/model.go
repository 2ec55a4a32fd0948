package scheduler

import (
	"time"

	"go-crm-automation/internal/features/automation"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduledTask is a recurring automation job. The engine only ever writes
// LastRun; everything else belongs to the operator.
type ScheduledTask struct {
	ID          primitive.ObjectID    `json:"id" bson:"_id,omitempty"`
	Name        string                `json:"name" bson:"name"`
	Description string                `json:"description,omitempty" bson:"description,omitempty"`
	Schedule    string                `json:"schedule" bson:"schedule"`
	Action      automation.ActionSpec `json:"action" bson:"action"`
	Enabled     bool                  `json:"enabled" bson:"enabled"`
	LastRun     *time.Time            `json:"last_run,omitempty" bson:"last_run,omitempty"`
	CreatedAt   time.Time             `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at" bson:"updated_at"`
}
