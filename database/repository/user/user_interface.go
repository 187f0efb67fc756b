package userRepo

import (
	"context"
	"time"

	"memberportal/models"
)

// Changes names the profile fields a partial update writes; nil fields keep
// their stored value. Session hashes, volunteer hours and the role are never
// part of it, they have their own atomic operations.
type Changes struct {
	DisplayName     *string
	Interests       *[]string
	ProfileComplete *bool
	AvatarURL       *string
	FCMToken        *string
	FirebaseUID     *string
	PasswordHash    *string
	PasswordSetAt   *time.Time
}

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by its normalized email; (nil, nil) when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByFirebaseUID retrieves a user linked to a hosted-auth account; (nil, nil) when absent.
	GetByFirebaseUID(ctx context.Context, uid string) (*models.User, error)
	// List returns users, optionally filtered by role.
	List(ctx context.Context, role string) ([]models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// UpdateFields sets only the fields named in c and returns the stored user.
	UpdateFields(ctx context.Context, id string, c Changes) (*models.User, error)
	// SetRole assigns role. With from given, the role only changes while the
	// stored role is one of them; the stored user is returned either way.
	SetRole(ctx context.Context, id, role string, from ...string) (*models.User, error)
	// Delete removes a user record by its ID.
	Delete(ctx context.Context, id string) error
	// AddTokenHash records an issued session token.
	AddTokenHash(ctx context.Context, id, hash string) error
	// RemoveTokenHash revokes a session token; an empty hash revokes all of them.
	RemoveTokenHash(ctx context.Context, id, hash string) error
	// AddVolunteerHours atomically increments the volunteer-hours counter.
	AddVolunteerHours(ctx context.Context, id string, hours float64) (*models.User, error)
}
