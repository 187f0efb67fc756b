package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"memberportal/models"
	"memberportal/services/content"
	"memberportal/services/media"
	"memberportal/services/storage"
	"memberportal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	maxUploadFileBytes = 15 << 20
	maxUploadFiles     = 50
)

// UploadHandler takes gallery images in bulk and removes them again. A nil
// Uploader means no image storage is configured.
type UploadHandler struct {
	Uploader *media.Uploader
	Blobs    storage.BlobStore
	Gallery  *content.Manager[models.GalleryImage, *models.GalleryImage]
}

func NewUploadHandler(up *media.Uploader, blobs storage.BlobStore, gallery *content.Manager[models.GalleryImage, *models.GalleryImage]) *UploadHandler {
	return &UploadHandler{Uploader: up, Blobs: blobs, Gallery: gallery}
}

type uploadItem struct {
	Index int                  `json:"index"`
	Name  string               `json:"name"`
	Image *models.GalleryImage `json:"image,omitempty"`
	Error string               `json:"error,omitempty"`
}

// GalleryUploadHandler handles POST /api/admin/gallery/upload (multipart "files").
// Every file gets its own result; successes are kept even when others fail.
func (h *UploadHandler) GalleryUploadHandler(c *gin.Context) {
	if h.Uploader == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "image storage is not configured", "")
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "files not provided", err.Error())
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "files not provided", "")
		return
	}
	if len(headers) > maxUploadFiles {
		utils.JSONError(c, http.StatusBadRequest, fmt.Sprintf("at most %d files per upload", maxUploadFiles), "")
		return
	}

	items := make([]uploadItem, len(headers))
	var files []media.File
	var origin []int
	for i, fh := range headers {
		items[i] = uploadItem{Index: i, Name: fh.Filename}
		if fh.Size > maxUploadFileBytes {
			items[i].Error = "file is too large"
			continue
		}
		f, err := fh.Open()
		if err != nil {
			items[i].Error = "failed to read file"
			continue
		}
		data, err := io.ReadAll(io.LimitReader(f, maxUploadFileBytes+1))
		_ = f.Close()
		if err != nil || len(data) > maxUploadFileBytes {
			items[i].Error = "failed to read file"
			continue
		}
		files = append(files, media.File{Name: fh.Filename, Data: data})
		origin = append(origin, i)
	}

	ctx := c.Request.Context()
	for res := range h.Uploader.UploadBatch(ctx, files) {
		item := &items[origin[res.Index]]
		if res.Err != nil {
			item.Error = res.Err.Error()
			continue
		}
		img, err := h.Gallery.Create(ctx, &models.GalleryImage{
			Title:    titleFromFilename(res.Name),
			URL:      res.URL,
			PublicID: res.PublicID,
			Width:    res.Width,
			Height:   res.Height,
		})
		if err != nil {
			utils.GetLogger().Error("Stored upload but failed to record it", zap.String("publicId", res.PublicID), zap.Error(err))
			item.Error = "uploaded but could not be added to the gallery"
			continue
		}
		item.Image = img
	}

	succeeded := 0
	for _, it := range items {
		if it.Error == "" {
			succeeded++
		}
	}
	status := http.StatusOK
	if succeeded == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"results": items, "succeeded": succeeded, "failed": len(items) - succeeded})
}

// DeleteGalleryImageHandler handles DELETE /api/admin/gallery/:id. The stored
// blob goes with the row; a blob that cannot be removed is logged, not fatal.
func (h *UploadHandler) DeleteGalleryImageHandler(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	img, err := h.Gallery.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Gallery.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	if img.PublicID != "" && h.Blobs != nil {
		if err := h.Blobs.Delete(ctx, img.PublicID); err != nil {
			utils.GetLogger().Warn("Gallery image deleted but its blob was kept",
				zap.String("id", id), zap.String("publicId", img.PublicID), zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": h.Gallery.Name() + " deleted"})
}

func titleFromFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(base))
}
