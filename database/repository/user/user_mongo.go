package userRepo

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

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo(ctx context.Context, db *mongo.Database) (*MongoUserRepo, error) {
	repo := &MongoUserRepo{coll: db.Collection("users")}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, repository.Normalize(err)
	}
	return &user, nil
}

func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := r.findOne(ctx, bson.M{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	return user, nil
}

func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := r.findOne(ctx, bson.M{"email": email})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user with email %s: %w", email, err)
	}
	return user, nil
}

func (r *MongoUserRepo) GetByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	user, err := r.findOne(ctx, bson.M{"firebase_uid": uid})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user with firebase uid %s: %w", uid, err)
	}
	return user, nil
}

func (r *MongoUserRepo) List(ctx context.Context, role string) ([]models.User, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"password_hash": 0, "token_hashes": 0})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", repository.Normalize(err))
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", repository.Normalize(err))
	}
	return nil
}

func changesDoc(c Changes, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if c.DisplayName != nil {
		set["display_name"] = *c.DisplayName
	}
	if c.Interests != nil {
		set["interests"] = *c.Interests
	}
	if c.ProfileComplete != nil {
		set["profile_complete"] = *c.ProfileComplete
	}
	if c.AvatarURL != nil {
		set["avatar_url"] = *c.AvatarURL
	}
	if c.FCMToken != nil {
		set["fcm_token"] = *c.FCMToken
	}
	if c.FirebaseUID != nil {
		set["firebase_uid"] = *c.FirebaseUID
	}
	if c.PasswordHash != nil {
		set["password_hash"] = *c.PasswordHash
	}
	if c.PasswordSetAt != nil {
		set["password_set_at"] = *c.PasswordSetAt
	}
	return set
}

func (r *MongoUserRepo) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user); err != nil {
		return nil, repository.Normalize(err)
	}
	return &user, nil
}

func (r *MongoUserRepo) UpdateFields(ctx context.Context, id string, c Changes) (*models.User, error) {
	user, err := r.findOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": changesDoc(c, time.Now())})
	if err != nil {
		return nil, fmt.Errorf("failed to update user with id %s: %w", id, err)
	}
	return user, nil
}

func (r *MongoUserRepo) SetRole(ctx context.Context, id, role string, from ...string) (*models.User, error) {
	filter := bson.M{"id": id}
	if len(from) > 0 {
		filter["role"] = bson.M{"$in": from}
	}
	user, err := r.findOneAndUpdate(ctx, filter, bson.M{"$set": bson.M{"role": role, "updated_at": time.Now()}})
	if errors.Is(err, repository.ErrNotFound) && len(from) > 0 {
		// The guard did not match; report what is stored.
		return r.GetByID(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set role for user %s: %w", id, err)
	}
	return user, nil
}

func (r *MongoUserRepo) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("user with id %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *MongoUserRepo) updateOne(ctx context.Context, id string, update bson.M) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update user with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with id %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *MongoUserRepo) AddTokenHash(ctx context.Context, id, hash string) error {
	return r.updateOne(ctx, id, bson.M{
		"$addToSet": bson.M{"token_hashes": hash},
		"$set":      bson.M{"updated_at": time.Now()},
	})
}

func (r *MongoUserRepo) RemoveTokenHash(ctx context.Context, id, hash string) error {
	if hash == "" {
		return r.updateOne(ctx, id, bson.M{"$set": bson.M{"token_hashes": []string{}, "updated_at": time.Now()}})
	}
	return r.updateOne(ctx, id, bson.M{
		"$pull": bson.M{"token_hashes": hash},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}

func (r *MongoUserRepo) AddVolunteerHours(ctx context.Context, id string, hours float64) (*models.User, error) {
	user, err := r.findOneAndUpdate(ctx, bson.M{"id": id}, bson.M{
		"$inc": bson.M{"volunteer_hours": hours},
		"$set": bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add volunteer hours for %s: %w", id, err)
	}
	return user, nil
}
