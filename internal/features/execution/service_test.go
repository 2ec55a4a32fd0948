package execution

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go-crm-automation/internal/features/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeExecutionRepo struct {
	records   []Record
	appendErr error
}

func (f *fakeExecutionRepo) Append(ctx context.Context, record *Record) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	record.ID = primitive.NewObjectID()
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeExecutionRepo) List(ctx context.Context, filter Filter) ([]Record, error) {
	var out []Record
	for _, record := range f.records {
		if filter.Status != "" && record.Status != filter.Status {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

func (f *fakeExecutionRepo) FindOlderThan(ctx context.Context, cutoff time.Time, limit int64) ([]Record, error) {
	var out []Record
	for _, record := range f.records {
		if record.Timestamp.Before(cutoff) {
			out = append(out, record)
		}
	}
	return out, nil
}

func newTestService(repo ExecutionRepository) ExecutionService {
	return NewExecutionService(repo, notification.NewHub(zap.NewNop()), zap.NewNop())
}

func TestRecordAppends(t *testing.T) {
	repo := &fakeExecutionRepo{}
	service := newTestService(repo)

	ruleID := primitive.NewObjectID()
	service.Record(context.Background(), &Record{
		RuleID:    &ruleID,
		Status:    StatusSuccess,
		Timestamp: time.Now(),
	})

	require.Len(t, repo.records, 1)
	assert.Equal(t, StatusSuccess, repo.records[0].Status)
}

func TestRecordSwallowsStoreFailure(t *testing.T) {
	repo := &fakeExecutionRepo{appendErr: errors.New("store down")}
	service := newTestService(repo)

	// Must not panic or surface the error; the engine keeps going.
	service.Record(context.Background(), &Record{Status: StatusFailed, Timestamp: time.Now()})
	assert.Empty(t, repo.records)
}

func TestListFiltersByStatus(t *testing.T) {
	repo := &fakeExecutionRepo{records: []Record{
		{ID: primitive.NewObjectID(), Status: StatusSuccess, Timestamp: time.Now()},
		{ID: primitive.NewObjectID(), Status: StatusFailed, Timestamp: time.Now()},
	}}
	service := newTestService(repo)

	failed, err := service.List(context.Background(), Filter{Status: StatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, StatusFailed, failed[0].Status)
}

func TestExportProducesWorkbook(t *testing.T) {
	ruleID := primitive.NewObjectID()
	repo := &fakeExecutionRepo{records: []Record{
		{
			ID:         primitive.NewObjectID(),
			RuleID:     &ruleID,
			Status:     StatusSuccess,
			Metadata:   map[string]interface{}{"action": "create_task"},
			DurationMs: 12,
			Timestamp:  time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:        primitive.NewObjectID(),
			Status:    StatusFailed,
			Error:     "hub down",
			Timestamp: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		},
	}}
	service := newTestService(repo)

	data, filename, err := service.Export(context.Background(), Filter{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "executions_"))
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Executions")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Success", rows[1][3])
	assert.Equal(t, "hub down", rows[2][4])
}
