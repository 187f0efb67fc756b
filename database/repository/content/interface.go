package contentRepo

import (
	"context"
	"time"

	"memberportal/models"
)

// Collection names for the content entities.
const (
	ProgramsCollection      = "programs"
	EventsCollection        = "events"
	OpportunitiesCollection = "opportunities"
	GalleryCollection       = "gallery_images"
	SocialCollection        = "social_posts"
)

// SortField orders a list by one field.
type SortField struct {
	Field string
	Desc  bool
}

// Sort is applied left to right.
type Sort []SortField

// Store is the row-store contract every content entity shares.
type Store[T any] interface {
	List(ctx context.Context, sort Sort) ([]*T, error)
	Get(ctx context.Context, id string) (*T, error)
	Insert(ctx context.Context, doc *T) error
	Replace(ctx context.Context, id string, doc *T) error
	Delete(ctx context.Context, id string) error
}

// SocialStore adds the social-feed specific mutations.
type SocialStore interface {
	Store[models.SocialPost]
	// TogglePin flips the pinned flag atomically and returns the updated post.
	TogglePin(ctx context.Context, id string) (*models.SocialPost, error)
	// SetMetadata fills link metadata discovered after the post was created.
	SetMetadata(ctx context.Context, id, title, thumbnailURL string, at time.Time) error
}
