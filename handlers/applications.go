package handlers

import (
	"net/http"

	"memberportal/middleware"
	"memberportal/models"
	"memberportal/services/applications"
	"memberportal/utils"

	"github.com/gin-gonic/gin"
)

// ApplicationHandler accepts program registrations, event RSVPs and volunteer sign-ups.
type ApplicationHandler struct {
	Service *applications.Service
}

func NewApplicationHandler(svc *applications.Service) *ApplicationHandler {
	return &ApplicationHandler{Service: svc}
}

func kindParam(c *gin.Context) (models.ApplicationKind, bool) {
	kind, ok := models.ParseKind(c.Param("kind"))
	if !ok {
		utils.JSONError(c, http.StatusNotFound, applications.ErrUnknownKind.Error(), c.Param("kind"))
	}
	return kind, ok
}

// SubmitHandler handles POST /api/applications/:kind.
func (h *ApplicationHandler) SubmitHandler(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	var sub applications.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	app, err := h.Service.Submit(c.Request.Context(), kind, sub, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// ExistsHandler handles GET /api/applications/:kind/exists?email=. It is a
// hint for the form only; Submit enforces uniqueness on its own.
func (h *ApplicationHandler) ExistsHandler(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	email := c.Query("email")
	if email == "" {
		utils.JSONError(c, http.StatusBadRequest, "email is required", "")
		return
	}
	exists, err := h.Service.Exists(c.Request.Context(), kind, email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}
