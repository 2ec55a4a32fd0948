package execution

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go-crm-automation/internal/config"

	_ "github.com/lib/pq"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const archiveSchema = `
CREATE TABLE IF NOT EXISTS automation_executions_archive (
	id          TEXT PRIMARY KEY,
	rule_id     TEXT,
	task_id     TEXT,
	status      TEXT NOT NULL,
	error       TEXT,
	metadata    JSONB,
	duration_ms BIGINT,
	executed_at TIMESTAMPTZ NOT NULL,
	archived_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const archiveBatchSize = 500

// Archiver copies aged execution records into a Postgres warehouse table.
// The Mongo log stays untouched (it is the audit trail); the archive exists
// for reporting. Inserts are keyed on the Mongo id, so re-archiving the same
// window is a no-op.
type Archiver struct {
	repo   ExecutionRepository
	cfg    *config.Config
	logger *zap.Logger

	db   *sql.DB
	done chan struct{}
}

func NewArchiver(repo ExecutionRepository, cfg *config.Config, logger *zap.Logger) *Archiver {
	return &Archiver{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// RegisterArchiver starts the archive loop when ARCHIVE_ENABLED is set.
func RegisterArchiver(lc fx.Lifecycle, archiver *Archiver) {
	if !archiver.cfg.ArchiveEnabled {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := archiver.connect(ctx); err != nil {
				return err
			}
			go archiver.run()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(archiver.done)
			if archiver.db != nil {
				return archiver.db.Close()
			}
			return nil
		},
	})
}

func (a *Archiver) connect(ctx context.Context) error {
	db, err := sql.Open("postgres", a.cfg.ArchiveDSN)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return err
	}
	if _, err := db.ExecContext(ctx, archiveSchema); err != nil {
		db.Close()
		return err
	}
	a.db = db
	return nil
}

func (a *Archiver) run() {
	ticker := time.NewTicker(a.cfg.ArchiveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.done:
			return
		case <-ticker.C:
			if err := a.ArchiveOnce(context.Background()); err != nil {
				a.logger.Error("Execution archive pass failed",
					zap.String("feature", "execution"),
					zap.Error(err))
			}
		}
	}
}

// ArchiveOnce copies one batch of records older than the retention window.
func (a *Archiver) ArchiveOnce(ctx context.Context) error {
	cutoff := time.Now().Add(-a.cfg.ArchiveAfter)

	records, err := a.repo.FindOlderThan(ctx, cutoff, archiveBatchSize)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO automation_executions_archive
			(id, rule_id, task_id, status, error, metadata, duration_ms, executed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, record := range records {
		var ruleID, taskID sql.NullString
		if record.RuleID != nil {
			ruleID = sql.NullString{String: record.RuleID.Hex(), Valid: true}
		}
		if record.TaskID != nil {
			taskID = sql.NullString{String: record.TaskID.Hex(), Valid: true}
		}

		metadata, _ := json.Marshal(record.Metadata)

		if _, err := stmt.ExecContext(ctx,
			record.ID.Hex(), ruleID, taskID, string(record.Status),
			record.Error, metadata, record.DurationMs, record.Timestamp,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	a.logger.Info("Archived execution records",
		zap.String("feature", "execution"),
		zap.Int("count", len(records)))
	return nil
}
