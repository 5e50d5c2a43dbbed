package billing

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Store persists subscriptions, one per owner.
type Store interface {
	// Get returns ErrSubscriptionNotFound when the owner has none.
	Get(ctx context.Context, ownerID string) (*Subscription, error)
	// Save creates or replaces the owner's subscription.
	Save(ctx context.Context, sub *Subscription) error
}

// CollectionName is the Mongo collection holding subscriptions.
const CollectionName = "subscriptions"

// MongoStore keeps subscriptions keyed by owner id.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore uses the subscriptions collection of db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(CollectionName)}
}

func (s *MongoStore) Get(ctx context.Context, ownerID string) (*Subscription, error) {
	var sub Subscription
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: ownerID}}).Decode(&sub)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *MongoStore) Save(ctx context.Context, sub *Subscription) error {
	now := time.Now().UTC()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now
	}
	sub.UpdatedAt = now
	_, err := s.coll.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: sub.OwnerID}},
		sub,
		options.Replace().SetUpsert(true),
	)
	return err
}
