package automation

import (
	"context"
	"time"

	"go-crm-automation/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AutomationRepository interface {
	Create(ctx context.Context, rule *AutomationRule) error
	GetByID(ctx context.Context, id string) (*AutomationRule, error)
	List(ctx context.Context) ([]AutomationRule, error)
	// GetEnabledByTrigger returns enabled rules for the trigger in ascending
	// id order. Matching depends on this order being stable.
	GetEnabledByTrigger(ctx context.Context, trigger TriggerType) ([]AutomationRule, error)
	Update(ctx context.Context, rule *AutomationRule) error
	Delete(ctx context.Context, id string) error
	SetEnabled(ctx context.Context, id string, enabled bool) error
}

type AutomationRepositoryImpl struct {
	collection *mongo.Collection
}

func NewAutomationRepository(mongodb *database.MongodbDB) AutomationRepository {
	return &AutomationRepositoryImpl{
		collection: mongodb.DB.Collection("automation_rules"),
	}
}

func (r *AutomationRepositoryImpl) Create(ctx context.Context, rule *AutomationRule) error {
	rule.ID = primitive.NewObjectID()
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, rule)
	return err
}

func (r *AutomationRepositoryImpl) GetByID(ctx context.Context, id string) (*AutomationRule, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var rule AutomationRule
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&rule)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *AutomationRepositoryImpl) List(ctx context.Context) ([]AutomationRule, error) {
	return r.find(ctx, bson.M{})
}

func (r *AutomationRepositoryImpl) GetEnabledByTrigger(ctx context.Context, trigger TriggerType) ([]AutomationRule, error) {
	return r.find(ctx, bson.M{"enabled": true, "trigger_type": trigger})
}

func (r *AutomationRepositoryImpl) find(ctx context.Context, filter bson.M) ([]AutomationRule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rules []AutomationRule
	if err = cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	if rules == nil {
		rules = []AutomationRule{}
	}
	return rules, nil
}

func (r *AutomationRepositoryImpl) Update(ctx context.Context, rule *AutomationRule) error {
	rule.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": rule.ID}, bson.M{"$set": rule})
	return err
}

func (r *AutomationRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func (r *AutomationRepositoryImpl) SetEnabled(ctx context.Context, id string, enabled bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"enabled": enabled, "updated_at": time.Now()}})
	return err
}
