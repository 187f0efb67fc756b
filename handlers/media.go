package handlers

import (
	"net/http"
	"strings"

	"memberportal/services/storage"
	"memberportal/utils"

	"github.com/gin-gonic/gin"
)

// MediaHandler serves blobs held by the in-process store.
type MediaHandler struct {
	Store *storage.MemoryStore
}

// ServeHandler handles GET /media/*path.
func (h *MediaHandler) ServeHandler(c *gin.Context) {
	data, contentType, ok := h.Store.Get(strings.TrimPrefix(c.Param("path"), "/"))
	if !ok {
		utils.JSONError(c, http.StatusNotFound, "media not found", "")
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, data)
}
