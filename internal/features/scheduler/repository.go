package scheduler

import (
	"context"
	"time"

	"go-crm-automation/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SchedulerRepository interface {
	Create(ctx context.Context, task *ScheduledTask) error
	GetByID(ctx context.Context, id string) (*ScheduledTask, error)
	List(ctx context.Context) ([]ScheduledTask, error)
	GetEnabled(ctx context.Context) ([]ScheduledTask, error)
	Update(ctx context.Context, task *ScheduledTask) error
	Delete(ctx context.Context, id string) error
	SetEnabled(ctx context.Context, id string, enabled bool) error
	UpdateLastRun(ctx context.Context, id primitive.ObjectID, lastRun time.Time) error
}

type SchedulerRepositoryImpl struct {
	collection *mongo.Collection
}

func NewSchedulerRepository(mongodb *database.MongodbDB) SchedulerRepository {
	return &SchedulerRepositoryImpl{
		collection: mongodb.DB.Collection("scheduled_tasks"),
	}
}

func (r *SchedulerRepositoryImpl) Create(ctx context.Context, task *ScheduledTask) error {
	task.ID = primitive.NewObjectID()
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, task)
	return err
}

func (r *SchedulerRepositoryImpl) GetByID(ctx context.Context, id string) (*ScheduledTask, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var task ScheduledTask
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *SchedulerRepositoryImpl) List(ctx context.Context) ([]ScheduledTask, error) {
	return r.find(ctx, bson.M{})
}

func (r *SchedulerRepositoryImpl) GetEnabled(ctx context.Context) ([]ScheduledTask, error) {
	return r.find(ctx, bson.M{"enabled": true})
}

func (r *SchedulerRepositoryImpl) find(ctx context.Context, filter bson.M) ([]ScheduledTask, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []ScheduledTask
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []ScheduledTask{}
	}
	return tasks, nil
}

func (r *SchedulerRepositoryImpl) Update(ctx context.Context, task *ScheduledTask) error {
	task.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": task.ID}, bson.M{"$set": task})
	return err
}

func (r *SchedulerRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func (r *SchedulerRepositoryImpl) SetEnabled(ctx context.Context, id string, enabled bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"enabled": enabled, "updated_at": time.Now()}})
	return err
}

func (r *SchedulerRepositoryImpl) UpdateLastRun(ctx context.Context, id primitive.ObjectID, lastRun time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_run": lastRun, "updated_at": time.Now()}})
	return err
}
