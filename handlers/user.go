package handlers

import (
	"net/http"

	"memberportal/middleware"
	"memberportal/models"
	"memberportal/services/session"
	"memberportal/services/user"
	"memberportal/utils"

	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the signed-in user's own record.
type ProfileHandler struct {
	UserService user.UserService
}

func NewProfileHandler(us user.UserService) *ProfileHandler {
	return &ProfileHandler{UserService: us}
}

// MeHandler handles GET /api/me.
func (h *ProfileHandler) MeHandler(c *gin.Context) {
	u := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"user":            u,
		"profileComplete": session.IsProfileComplete(u),
		"state":           session.StateOf(u),
	})
}

// CompleteProfileHandler handles POST /api/me/complete.
func (h *ProfileHandler) CompleteProfileHandler(c *gin.Context) {
	var req user.ProfileCompletion
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	u, err := h.UserService.CompleteProfile(c.Request.Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "next": session.PathHome})
}

// UpdateProfileHandler handles PATCH /api/me.
func (h *ProfileHandler) UpdateProfileHandler(c *gin.Context) {
	var patch models.ProfileUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	u, err := h.UserService.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c).ID, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
