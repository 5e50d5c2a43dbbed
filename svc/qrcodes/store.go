package qrcodes

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Store persists codes. Every lookup except the short code ones is scoped
// to an owner.
type Store interface {
	// Insert returns ErrDuplicateShortCode when the short code is taken.
	Insert(ctx context.Context, c *Code) error
	Get(ctx context.Context, ownerID, id string) (*Code, error)
	List(ctx context.Context, ownerID string, opts ListOptions) ([]Code, int64, error)
	Count(ctx context.Context, ownerID string) (int64, error)
	Replace(ctx context.Context, c *Code) error
	Delete(ctx context.Context, ownerID, id string) error
	// FindDynamic returns the dynamic code with the given short code.
	FindDynamic(ctx context.Context, shortCode string) (*Code, error)
	// RecordScan increments the scan counter of the dynamic code with the
	// given short code and returns it after the update.
	RecordScan(ctx context.Context, shortCode string, at time.Time) (*Code, error)
}

// CollectionName is the Mongo collection holding codes.
const CollectionName = "qr_codes"

// MongoStore is the Mongo-backed Store.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore uses the qr_codes collection of db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the owner listing index and the unique short code
// index. Safe to call on every start.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "short_code", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "short_code", Value: bson.D{{Key: "$exists", Value: true}}}}),
		},
	})
	return err
}

func (s *MongoStore) Insert(ctx context.Context, c *Code) error {
	_, err := s.coll.InsertOne(ctx, c)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateShortCode
	}
	return err
}

func (s *MongoStore) Get(ctx context.Context, ownerID, id string) (*Code, error) {
	var c Code
	err := s.coll.FindOne(ctx, ownerFilter(ownerID, id)).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MongoStore) List(ctx context.Context, ownerID string, opts ListOptions) ([]Code, int64, error) {
	filter := bson.D{{Key: "owner_id", Value: ownerID}}
	if opts.Type != "" {
		filter = append(filter, bson.E{Key: "type", Value: opts.Type})
	}

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := s.coll.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(opts.Offset)).
		SetLimit(int64(opts.Limit)))
	if err != nil {
		return nil, 0, err
	}
	items := []Code{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *MongoStore) Count(ctx context.Context, ownerID string) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.D{{Key: "owner_id", Value: ownerID}})
}

func (s *MongoStore) Replace(ctx context.Context, c *Code) error {
	res, err := s.coll.ReplaceOne(ctx, ownerFilter(c.OwnerID, c.ID), c)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, ownerID, id string) error {
	res, err := s.coll.DeleteOne(ctx, ownerFilter(ownerID, id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) FindDynamic(ctx context.Context, shortCode string) (*Code, error) {
	var c Code
	err := s.coll.FindOne(ctx,
		bson.D{{Key: "short_code", Value: shortCode}, {Key: "dynamic", Value: true}},
	).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MongoStore) RecordScan(ctx context.Context, shortCode string, at time.Time) (*Code, error) {
	var c Code
	err := s.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "short_code", Value: shortCode}, {Key: "dynamic", Value: true}},
		bson.D{
			{Key: "$inc", Value: bson.D{{Key: "scans", Value: 1}}},
			{Key: "$set", Value: bson.D{{Key: "last_scanned_at", Value: at}}},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func ownerFilter(ownerID, id string) bson.D {
	return bson.D{{Key: "_id", Value: id}, {Key: "owner_id", Value: ownerID}}
}
