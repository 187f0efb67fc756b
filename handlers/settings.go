package handlers

import (
	"net/http"

	"memberportal/models"
	"memberportal/services/settings"
	"memberportal/utils"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	Service *settings.Service
}

func NewSettingsHandler(svc *settings.Service) *SettingsHandler {
	return &SettingsHandler{Service: svc}
}

func (h *SettingsHandler) statusBody(view models.AppSettings) gin.H {
	status, lastErr := h.Service.Status()
	body := gin.H{"settings": view, "status": status}
	if lastErr != nil {
		body["error"] = lastErr.Error()
	}
	return body
}

// GetHandler handles GET /api/admin/settings.
func (h *SettingsHandler) GetHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.statusBody(h.Service.Current(c.Request.Context())))
}

// SaveHandler handles PUT /api/admin/settings. A failed save answers with the
// reverted settings so the form can show what is actually stored.
func (h *SettingsHandler) SaveHandler(c *gin.Context) {
	var req models.AppSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	saved, err := h.Service.Save(c.Request.Context(), req)
	if err != nil {
		if statusFor(err) == http.StatusBadRequest {
			respondError(c, err)
			return
		}
		if saved.ID == "" {
			saved = h.Service.Current(c.Request.Context())
		}
		c.JSON(http.StatusServiceUnavailable, h.statusBody(saved))
		return
	}
	c.JSON(http.StatusOK, h.statusBody(saved))
}
