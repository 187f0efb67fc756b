package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"memberportal/config"
)

// MediaPrefix is the path the in-process store's blobs are served under.
const MediaPrefix = "/media"

// ErrNoBackend is returned when no blob backend is configured.
var ErrNoBackend = errors.New("storage: no blob backend configured")

// Object identifies a stored blob.
type Object struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// BlobStore persists public media and hands back a URL to serve it from.
type BlobStore interface {
	Put(ctx context.Context, folder, name, contentType string, data []byte) (Object, error)
	Delete(ctx context.Context, publicID string) error
}

// NewFromConfig builds the backend selected by STORAGE_BACKEND.
func NewFromConfig(ctx context.Context) (BlobStore, error) {
	cfg := config.AppConfig
	switch cfg.StorageBackend {
	case "", "cloudinary":
		if cfg.CloudinaryCloudName == "" {
			return nil, ErrNoBackend
		}
		return NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	case "gcs", "firebase":
		bucket := config.DefaultBucket()
		if bucket == "" {
			return nil, ErrNoBackend
		}
		return NewGCSStore(ctx, cfg.FirebaseCredentials, bucket)
	case "memory":
		return NewMemoryStore(strings.TrimRight(cfg.PublicBaseURL, "/") + MediaPrefix), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.StorageBackend)
	}
}
