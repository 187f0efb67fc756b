package contentRepo

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

// MongoSocialStore stores social posts.
type MongoSocialStore struct {
	*MongoStore[models.SocialPost]
}

func NewMongoSocialStore(db *mongo.Database) *MongoSocialStore {
	return &MongoSocialStore{MongoStore: NewMongoStore[models.SocialPost](db, SocialCollection)}
}

// TogglePin uses a pipeline update so concurrent toggles never lose a flip.
func (s *MongoSocialStore) TogglePin(ctx context.Context, id string) (*models.SocialPost, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "pinned", Value: bson.D{{Key: "$not", Value: bson.A{"$pinned"}}}},
			{Key: "updated_at", Value: time.Now()},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.SocialPost
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, pipeline, opts).Decode(&post); err != nil {
		return nil, fmt.Errorf("failed to toggle pin on %s: %w", id, repository.Normalize(err))
	}
	return &post, nil
}

func (s *MongoSocialStore) SetMetadata(ctx context.Context, id, title, thumbnailURL string, at time.Time) error {
	set := bson.M{"enriched_at": at, "updated_at": at}
	if title != "" {
		set["title"] = title
	}
	if thumbnailURL != "" {
		set["thumbnail_url"] = thumbnailURL
	}
	result, err := s.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to set metadata on %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("social post %s: %w", id, repository.ErrNotFound)
	}
	return nil
}
