package store

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/ascent/pkg/cache"
	"github.com/matzehuels/ascent/pkg/errors"
	"github.com/matzehuels/ascent/pkg/layout"
)

// DefaultCollection is the MongoDB collection holding layouts.
const DefaultCollection = "layouts"

// MongoStore keeps layouts as documents keyed by layout ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and uses the layouts collection of database.
// The initial ping is retried with backoff.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if err := errors.ValidateURI(uri, "mongodb", "mongodb+srv"); err != nil {
		return nil, err
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect mongodb")
	}

	err = cache.DefaultBackoff.Retry(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return cache.Transient(fmt.Errorf("%w: %v", cache.ErrUnreachable, err))
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(DefaultCollection),
	}, nil
}

// Save upserts l.
func (s *MongoStore) Save(ctx context.Context, l *layout.Layout) error {
	if err := errors.ValidateLayoutID(l.ID); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": l.ID}, l, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save layout %s", l.ID)
	}
	return nil
}

// Get fetches one layout.
func (s *MongoStore) Get(ctx context.Context, id string) (*layout.Layout, error) {
	if err := errors.ValidateLayoutID(id); err != nil {
		return nil, err
	}
	var l layout.Layout
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read layout %s", id)
	}
	return &l, nil
}

// List returns layout summaries sorted by ID.
func (s *MongoStore) List(ctx context.Context, limit int) ([]layout.Summary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list layouts")
	}
	defer cur.Close(ctx)

	var out []layout.Summary
	for cur.Next(ctx) {
		var l layout.Layout
		if err := cur.Decode(&l); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode layout")
		}
		out = append(out, l.Summarize())
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list layouts")
	}
	return out, nil
}

// Delete removes one layout.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateLayoutID(id); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete layout %s", id)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
