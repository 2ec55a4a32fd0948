package execution

import (
	"context"
	"time"

	"go-crm-automation/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ExecutionRepository interface {
	// Append inserts the record. A single InsertOne keeps concurrent appends
	// atomic; there is no update path.
	Append(ctx context.Context, record *Record) error
	List(ctx context.Context, filter Filter) ([]Record, error)
	// FindOlderThan returns records with a timestamp before the cutoff,
	// oldest first, capped at limit. Used by the archiver.
	FindOlderThan(ctx context.Context, cutoff time.Time, limit int64) ([]Record, error)
}

type ExecutionRepositoryImpl struct {
	collection *mongo.Collection
}

func NewExecutionRepository(mongodb *database.MongodbDB) ExecutionRepository {
	return &ExecutionRepositoryImpl{
		collection: mongodb.DB.Collection("automation_executions"),
	}
}

func (r *ExecutionRepositoryImpl) Append(ctx context.Context, record *Record) error {
	record.ID = primitive.NewObjectID()
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

func (r *ExecutionRepositoryImpl) List(ctx context.Context, filter Filter) ([]Record, error) {
	query := bson.M{}
	if filter.RuleID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.RuleID)
		if err != nil {
			return nil, err
		}
		query["rule_id"] = oid
	}
	if filter.TaskID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.TaskID)
		if err != nil {
			return nil, err
		}
		query["task_id"] = oid
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []Record
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func (r *ExecutionRepositoryImpl) FindOlderThan(ctx context.Context, cutoff time.Time, limit int64) ([]Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"timestamp": bson.M{"$lt": cutoff}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []Record
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}
