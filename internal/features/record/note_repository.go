package record

import (
	"context"
	"time"

	common_models "go-crm-automation/internal/common/models"
	"go-crm-automation/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NoteRepository interface {
	Create(ctx context.Context, note *common_models.Note) error
	ListByTask(ctx context.Context, taskID string, limit int64) ([]common_models.Note, error)
}

type NoteRepositoryImpl struct {
	collection *mongo.Collection
}

func NewNoteRepository(mongodb *database.MongodbDB) NoteRepository {
	return &NoteRepositoryImpl{
		collection: mongodb.DB.Collection("notes"),
	}
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, note *common_models.Note) error {
	note.ID = primitive.NewObjectID()
	note.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, note)
	return err
}

func (r *NoteRepositoryImpl) ListByTask(ctx context.Context, taskID string, limit int64) ([]common_models.Note, error) {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"task_id": oid}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notes []common_models.Note
	if err = cursor.All(ctx, &notes); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []common_models.Note{}
	}
	return notes, nil
}
