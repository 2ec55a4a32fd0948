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

type TaskRepository interface {
	Create(ctx context.Context, task *common_models.Task) error
	GetByID(ctx context.Context, id string) (*common_models.Task, error)
	List(ctx context.Context, limit int64) ([]common_models.Task, error)
	// FindDueWithin returns non-completed tasks whose due date falls inside
	// [from, to].
	FindDueWithin(ctx context.Context, from, to time.Time) ([]common_models.Task, error)
}

type TaskRepositoryImpl struct {
	collection *mongo.Collection
}

func NewTaskRepository(mongodb *database.MongodbDB) TaskRepository {
	return &TaskRepositoryImpl{
		collection: mongodb.DB.Collection("tasks"),
	}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *common_models.Task) error {
	task.ID = primitive.NewObjectID()
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, task)
	return err
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id string) (*common_models.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var task common_models.Task
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) List(ctx context.Context, limit int64) ([]common_models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []common_models.Task
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []common_models.Task{}
	}
	return tasks, nil
}

func (r *TaskRepositoryImpl) FindDueWithin(ctx context.Context, from, to time.Time) ([]common_models.Task, error) {
	filter := bson.M{
		"due_date":  bson.M{"$gte": from, "$lte": to},
		"status":    bson.M{"$ne": common_models.TaskStatusCompleted},
		"completed": false,
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []common_models.Task
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []common_models.Task{}
	}
	return tasks, nil
}
