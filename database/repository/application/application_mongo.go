package applicationRepo

import (
	"context"
	"fmt"
	"time"

	"memberportal/database/repository"
	"memberportal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoApplicationRepo keeps one application kind in its own collection.
type MongoApplicationRepo struct {
	kind models.ApplicationKind
	coll *mongo.Collection
}

// NewMongoApplicationRepo opens the collection for kind and makes sure the
// unique email index exists.
func NewMongoApplicationRepo(ctx context.Context, db *mongo.Database, kind models.ApplicationKind) (*MongoApplicationRepo, error) {
	repo := &MongoApplicationRepo{kind: kind, coll: db.Collection(string(kind))}
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s indexes: %w", kind, err)
	}
	return repo, nil
}

// NewAll opens one repository per application kind.
func NewAll(ctx context.Context, db *mongo.Database) (map[models.ApplicationKind]ApplicationRepository, error) {
	repos := make(map[models.ApplicationKind]ApplicationRepository, len(models.Kinds))
	for _, kind := range models.Kinds {
		repo, err := NewMongoApplicationRepo(ctx, db, kind)
		if err != nil {
			return nil, err
		}
		repos[kind] = repo
	}
	return repos, nil
}

func (r *MongoApplicationRepo) Exists(ctx context.Context, email string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		if repository.IsMissingCollection(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check %s: %w", r.kind, err)
	}
	return n > 0, nil
}

func (r *MongoApplicationRepo) Insert(ctx context.Context, app *models.Application) error {
	if _, err := r.coll.InsertOne(ctx, app); err != nil {
		return fmt.Errorf("failed to insert %s: %w", r.kind, repository.Normalize(err))
	}
	return nil
}

func (r *MongoApplicationRepo) List(ctx context.Context) ([]models.Application, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.kind, repository.Normalize(err))
	}
	defer cursor.Close(ctx)

	apps := []models.Application{}
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", r.kind, err)
	}
	return apps, nil
}

func (r *MongoApplicationRepo) Get(ctx context.Context, id string) (*models.Application, error) {
	var app models.Application
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&app); err != nil {
		return nil, fmt.Errorf("failed to fetch %s %s: %w", r.kind, id, repository.Normalize(err))
	}
	return &app, nil
}

func (r *MongoApplicationRepo) SetStatus(ctx context.Context, id, status string) (*models.Application, error) {
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var app models.Application
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&app); err != nil {
		return nil, fmt.Errorf("failed to update %s %s: %w", r.kind, id, repository.Normalize(err))
	}
	return &app, nil
}

func (r *MongoApplicationRepo) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", r.kind, id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%s %s: %w", r.kind, id, repository.ErrNotFound)
	}
	return nil
}
