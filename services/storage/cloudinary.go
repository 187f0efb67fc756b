package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore uploads to a Cloudinary account.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("CloudinaryStore: failed to initialize client: %w", err)
	}
	return &CloudinaryStore{cld: cld}, nil
}

// Put uploads data into folder. Cloudinary picks the extension, so name only seeds the public id.
func (s *CloudinaryStore) Put(ctx context.Context, folder, name, contentType string, data []byte) (Object, error) {
	params := uploader.UploadParams{
		Folder:         folder,
		PublicID:       strings.TrimSuffix(name, path.Ext(name)),
		UniqueFilename: api.Bool(true),
		Overwrite:      api.Bool(false),
		ResourceType:   "image",
	}
	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), params)
	if err != nil {
		return Object{}, fmt.Errorf("CloudinaryStore: failed to upload file: %w", err)
	}
	if result.Error.Message != "" {
		return Object{}, fmt.Errorf("CloudinaryStore: upload rejected: %s", result.Error.Message)
	}
	if result.PublicID == "" {
		return Object{}, fmt.Errorf("CloudinaryStore: no public ID returned")
	}
	return Object{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("CloudinaryStore: failed to delete file: %w", err)
	}
	return nil
}
