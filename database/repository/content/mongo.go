package contentRepo

import (
	"context"
	"fmt"

	"memberportal/database/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store for one collection.
type MongoStore[T any] struct {
	coll *mongo.Collection
}

// NewMongoStore returns a store over the named collection.
func NewMongoStore[T any](db *mongo.Database, collection string) *MongoStore[T] {
	return &MongoStore[T]{coll: db.Collection(collection)}
}

// EnsureIndexes creates the id index of the collection.
func (s *MongoStore[T]) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create %s indexes: %w", s.coll.Name(), err)
	}
	return nil
}

// Indexer is a store that can prepare its collection.
type Indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// PrepareAll runs EnsureIndexes on every store and stops at the first failure.
func PrepareAll(ctx context.Context, stores ...Indexer) error {
	for _, s := range stores {
		if err := s.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s Sort) bson() bson.D {
	d := bson.D{}
	for _, f := range s {
		dir := 1
		if f.Desc {
			dir = -1
		}
		d = append(d, bson.E{Key: f.Field, Value: dir})
	}
	return d
}

func (s *MongoStore[T]) List(ctx context.Context, sort Sort) ([]*T, error) {
	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort.bson())
	}
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.coll.Name(), repository.Normalize(err))
	}
	defer cursor.Close(ctx)

	docs := []*T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.coll.Name(), err)
	}
	return docs, nil
}

func (s *MongoStore[T]) Get(ctx context.Context, id string) (*T, error) {
	var doc T
	if err := s.coll.FindOne(ctx, bson.M{"id": id}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to fetch %s %s: %w", s.coll.Name(), id, repository.Normalize(err))
	}
	return &doc, nil
}

func (s *MongoStore[T]) Insert(ctx context.Context, doc *T) error {
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", s.coll.Name(), repository.Normalize(err))
	}
	return nil
}

func (s *MongoStore[T]) Replace(ctx context.Context, id string, doc *T) error {
	result, err := s.coll.ReplaceOne(ctx, bson.M{"id": id}, doc)
	if err != nil {
		return fmt.Errorf("failed to update %s %s: %w", s.coll.Name(), id, repository.Normalize(err))
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%s %s: %w", s.coll.Name(), id, repository.ErrNotFound)
	}
	return nil
}

func (s *MongoStore[T]) Delete(ctx context.Context, id string) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", s.coll.Name(), id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%s %s: %w", s.coll.Name(), id, repository.ErrNotFound)
	}
	return nil
}
