package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTypeInfo       NotificationType = "info"
	NotificationTypeSuccess    NotificationType = "success"
	NotificationTypeWarning    NotificationType = "warning"
	NotificationTypeError      NotificationType = "error"
	NotificationTypeAutomation NotificationType = "automation"
)

type Notification struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Title     string                 `bson:"title" json:"title"`
	Message   string                 `bson:"message" json:"message"`
	Type      NotificationType       `bson:"type" json:"type"`
	Metadata  map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	IsRead    bool                   `bson:"is_read" json:"is_read"`
	CreatedAt time.Time              `bson:"created_at" json:"created_at"`
}
