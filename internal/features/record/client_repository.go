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

type ClientRepository interface {
	Create(ctx context.Context, client *common_models.Client) error
	GetByID(ctx context.Context, id string) (*common_models.Client, error)
}

type ClientRepositoryImpl struct {
	collection *mongo.Collection
}

func NewClientRepository(mongodb *database.MongodbDB) ClientRepository {
	return &ClientRepositoryImpl{
		collection: mongodb.DB.Collection("clients"),
	}
}

func (r *ClientRepositoryImpl) Create(ctx context.Context, client *common_models.Client) error {
	client.ID = primitive.NewObjectID()
	client.CreatedAt = time.Now()
	client.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, client)
	return err
}

func (r *ClientRepositoryImpl) GetByID(ctx context.Context, id string) (*common_models.Client, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var client common_models.Client
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&client)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}
