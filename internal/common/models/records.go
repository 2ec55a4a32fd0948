package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusNotStarted TaskStatus = "Not Started"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

type DealStage string

const (
	StageLead          DealStage = "Lead"
	StageContactMade   DealStage = "Contact Made"
	StageAnalyzing     DealStage = "Analyzing"
	StageOfferSent     DealStage = "Offer Sent"
	StageNegotiation   DealStage = "Negotiation"
	StageUnderContract DealStage = "Under Contract"
	StageClosed        DealStage = "Closed"
)

type Task struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Title       string              `json:"title" bson:"title"`
	Description string              `json:"description,omitempty" bson:"description,omitempty"`
	Priority    TaskPriority        `json:"priority" bson:"priority"`
	Status      TaskStatus          `json:"status" bson:"status"`
	Completed   bool                `json:"completed" bson:"completed"`
	DueDate     time.Time           `json:"due_date" bson:"due_date"`
	ClientID    *primitive.ObjectID `json:"client_id,omitempty" bson:"client_id,omitempty"`
	CreatedAt   time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" bson:"updated_at"`
}

type Deal struct {
	ID        primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Title     string              `json:"title" bson:"title"`
	Stage     DealStage           `json:"stage" bson:"stage"`
	Value     float64             `json:"value" bson:"value"`
	ClientID  *primitive.ObjectID `json:"client_id,omitempty" bson:"client_id,omitempty"`
	CreatedAt time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time           `json:"updated_at" bson:"updated_at"`
}

type Client struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email,omitempty" bson:"email,omitempty"`
	Phone     string             `json:"phone,omitempty" bson:"phone,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

type Note struct {
	ID        primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Content   string              `json:"content" bson:"content"`
	TaskID    *primitive.ObjectID `json:"task_id,omitempty" bson:"task_id,omitempty"`
	ClientID  *primitive.ObjectID `json:"client_id,omitempty" bson:"client_id,omitempty"`
	CreatedAt time.Time           `json:"created_at" bson:"created_at"`
}
