package handlers

import (
	"net/http"

	"memberportal/middleware"
	"memberportal/models"
	"memberportal/services/applications"
	"memberportal/services/content"
	"memberportal/services/donation"
	"memberportal/services/social"
	"memberportal/services/user"
	"memberportal/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler encapsulates the back-office operations that are not plain CRUD.
type AdminHandler struct {
	UserService  user.UserService
	Content      *content.Service
	Applications *applications.Service
	Social       *social.Service
	Donations    *donation.Service
}

// ApplicationsHandler handles GET /api/admin/applications/:kind.
func (ah *AdminHandler) ApplicationsHandler(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	apps, err := ah.Content.FetchApplications(c.Request.Context(), kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// ApplicationStatusHandler handles PUT /api/admin/applications/:kind/:id/status.
func (ah *AdminHandler) ApplicationStatusHandler(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	app, err := ah.Applications.SetStatus(c.Request.Context(), kind, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// DeleteApplicationHandler handles DELETE /api/admin/applications/:kind/:id.
func (ah *AdminHandler) DeleteApplicationHandler(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	if err := ah.Applications.Delete(c.Request.Context(), kind, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application deleted"})
}

// UsersHandler handles GET /api/admin/users?role=.
func (ah *AdminHandler) UsersHandler(c *gin.Context) {
	users, err := ah.UserService.ListUsers(c.Request.Context(), c.Query("role"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// VolunteersHandler handles GET /api/admin/volunteers.
func (ah *AdminHandler) VolunteersHandler(c *gin.Context) {
	users, err := ah.UserService.ListUsers(c.Request.Context(), models.RoleVolunteer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ChangeRoleHandler handles PUT /api/admin/users/:id/role.
func (ah *AdminHandler) ChangeRoleHandler(c *gin.Context) {
	var req struct {
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	u, err := ah.UserService.ChangeRole(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// VolunteerHoursHandler handles POST /api/admin/volunteers/:id/hours.
func (ah *AdminHandler) VolunteerHoursHandler(c *gin.Context) {
	var req struct {
		Hours float64 `json:"hours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	u, err := ah.UserService.AddVolunteerHours(c.Request.Context(), c.Param("id"), req.Hours)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// DeleteUserHandler handles DELETE /api/admin/users/:id.
func (ah *AdminHandler) DeleteUserHandler(c *gin.Context) {
	if err := ah.UserService.DeleteUser(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// CreateSocialPostHandler handles POST /api/admin/social and schedules link enrichment.
func (ah *AdminHandler) CreateSocialPostHandler(c *gin.Context) {
	var post models.SocialPost
	if err := c.ShouldBindJSON(&post); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	created, err := ah.Social.Create(c.Request.Context(), &post)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// TogglePinHandler handles POST /api/admin/social/:id/pin.
func (ah *AdminHandler) TogglePinHandler(c *gin.Context) {
	post, err := ah.Social.TogglePin(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DonationsHandler handles GET /api/admin/donations.
func (ah *AdminHandler) DonationsHandler(c *gin.Context) {
	list, err := ah.Donations.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
