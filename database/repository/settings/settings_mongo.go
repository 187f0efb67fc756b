package settingsRepo

import (
	"context"
	"fmt"

	"memberportal/database/repository"
	"memberportal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SettingsRepository reads and writes the singleton settings row.
type SettingsRepository interface {
	// Get returns repository.ErrNotFound until the row has been saved once.
	Get(ctx context.Context) (*models.AppSettings, error)
	Upsert(ctx context.Context, s *models.AppSettings) error
}

type MongoSettingsRepo struct {
	coll *mongo.Collection
}

func NewMongoSettingsRepo(db *mongo.Database) *MongoSettingsRepo {
	return &MongoSettingsRepo{coll: db.Collection("app_settings")}
}

func (r *MongoSettingsRepo) Get(ctx context.Context) (*models.AppSettings, error) {
	var s models.AppSettings
	if err := r.coll.FindOne(ctx, bson.M{"_id": models.SettingsID}).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", repository.Normalize(err))
	}
	return &s, nil
}

// Upsert forces the fixed id so there is never more than one row.
func (r *MongoSettingsRepo) Upsert(ctx context.Context, s *models.AppSettings) error {
	s.ID = models.SettingsID
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": models.SettingsID}, s, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
