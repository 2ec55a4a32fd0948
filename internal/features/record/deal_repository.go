package record

import (
	"context"
	"time"

	common_models "go-crm-automation/internal/common/models"
	"go-crm-automation/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type DealRepository interface {
	Create(ctx context.Context, deal *common_models.Deal) error
	GetByID(ctx context.Context, id string) (*common_models.Deal, error)
	UpdateStage(ctx context.Context, id string, stage common_models.DealStage) error
	// FindLeadsOlderThan returns deals still in the Lead stage created before
	// the cutoff.
	FindLeadsOlderThan(ctx context.Context, cutoff time.Time) ([]common_models.Deal, error)
}

type DealRepositoryImpl struct {
	collection *mongo.Collection
}

func NewDealRepository(mongodb *database.MongodbDB) DealRepository {
	return &DealRepositoryImpl{
		collection: mongodb.DB.Collection("deals"),
	}
}

func (r *DealRepositoryImpl) Create(ctx context.Context, deal *common_models.Deal) error {
	deal.ID = primitive.NewObjectID()
	deal.CreatedAt = time.Now()
	deal.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, deal)
	return err
}

func (r *DealRepositoryImpl) GetByID(ctx context.Context, id string) (*common_models.Deal, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var deal common_models.Deal
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&deal)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &deal, nil
}

func (r *DealRepositoryImpl) UpdateStage(ctx context.Context, id string, stage common_models.DealStage) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"stage":      stage,
		"updated_at": time.Now(),
	}})
	return err
}

func (r *DealRepositoryImpl) FindLeadsOlderThan(ctx context.Context, cutoff time.Time) ([]common_models.Deal, error) {
	filter := bson.M{
		"stage":      common_models.StageLead,
		"created_at": bson.M{"$lt": cutoff},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var deals []common_models.Deal
	if err = cursor.All(ctx, &deals); err != nil {
		return nil, err
	}
	if deals == nil {
		deals = []common_models.Deal{}
	}
	return deals, nil
}
