package donationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"memberportal/database/repository"
	"memberportal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DonationRepository stores donation attempts and their payment outcome.
type DonationRepository interface {
	Insert(ctx context.Context, d *models.Donation) error
	SetPaymentIntent(ctx context.Context, id, paymentIntentID string) error
	GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Donation, error)
	SetStatusByPaymentIntent(ctx context.Context, paymentIntentID, status string) (*models.Donation, error)
	List(ctx context.Context) ([]models.Donation, error)
}

type MongoDonationRepo struct {
	coll *mongo.Collection
}

func NewMongoDonationRepo(ctx context.Context, db *mongo.Database) (*MongoDonationRepo, error) {
	repo := &MongoDonationRepo{coll: db.Collection("donations")}
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "payment_intent_id", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create donation indexes: %w", err)
	}
	return repo, nil
}

func (r *MongoDonationRepo) Insert(ctx context.Context, d *models.Donation) error {
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("failed to insert donation: %w", repository.Normalize(err))
	}
	return nil
}

func (r *MongoDonationRepo) SetPaymentIntent(ctx context.Context, id, paymentIntentID string) error {
	update := bson.M{"$set": bson.M{"payment_intent_id": paymentIntentID, "updated_at": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to attach payment intent: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("donation %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *MongoDonationRepo) GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Donation, error) {
	var d models.Donation
	if err := r.coll.FindOne(ctx, bson.M{"payment_intent_id": paymentIntentID}).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to fetch donation: %w", repository.Normalize(err))
	}
	return &d, nil
}

// SetStatusByPaymentIntent records a settlement. A succeeded donation is final:
// a later status leaves it untouched and the stored document is returned.
func (r *MongoDonationRepo) SetStatusByPaymentIntent(ctx context.Context, paymentIntentID, status string) (*models.Donation, error) {
	filter := bson.M{"payment_intent_id": paymentIntentID}
	if status != models.DonationSucceeded {
		filter["status"] = bson.M{"$ne": models.DonationSucceeded}
	}
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d models.Donation
	err := repository.Normalize(r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&d))
	if errors.Is(err, repository.ErrNotFound) && status != models.DonationSucceeded {
		return r.GetByPaymentIntent(ctx, paymentIntentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update donation: %w", err)
	}
	return &d, nil
}

func (r *MongoDonationRepo) List(ctx context.Context) ([]models.Donation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", repository.Normalize(err))
	}
	defer cursor.Close(ctx)

	out := []models.Donation{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode donations: %w", err)
	}
	return out, nil
}
