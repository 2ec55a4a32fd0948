package logger

import (
	"context"
	"fmt"
	"time"

	"go-crm-automation/internal/config"
	"go-crm-automation/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level   zapcore.Level
	Message string
	Feature string
	Caller  string // Function name
}

type appLog struct {
	AppId     string    `bson:"app_id"`
	Level     string    `bson:"level"`
	Message   string    `bson:"message"`
	Feature   string    `bson:"feature,omitempty"`
	Caller    string    `bson:"caller,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

// DBLogWriter handles the async writing
type DBLogWriter struct {
	db      *mongo.Database
	logChan chan LogEntry
	appId   string
}

// NewDBLogWriter initializes the worker
func NewDBLogWriter(mongodb *database.MongodbDB, cfg *config.Config) *DBLogWriter {
	writer := &DBLogWriter{
		db:      mongodb.DB,
		logChan: make(chan LogEntry, 1000),
		appId:   cfg.AppId,
	}

	// Start the background worker immediately
	go writer.processLogs()

	return writer
}

// AddLog is called by our Zap hook
func (w *DBLogWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
	default:
		// Channel full: drop rather than block the caller
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

func (w *DBLogWriter) processLogs() {
	for entry := range w.logChan {
		record := appLog{
			AppId:     w.appId,
			Level:     entry.Level.String(),
			Message:   entry.Message,
			Feature:   entry.Feature,
			Caller:    entry.Caller,
			CreatedAt: time.Now().UTC(),
		}

		// Errors are swallowed on purpose; logging must never take the app down
		w.db.Collection("app_logs").InsertOne(context.Background(), record)
	}
}
