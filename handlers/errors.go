package handlers

import (
	"errors"
	"net/http"

	"memberportal/models"
	"memberportal/services/applications"
	"memberportal/services/content"
	"memberportal/services/donation"
	"memberportal/services/settings"
	"memberportal/services/user"
	"memberportal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps service sentinels to HTTP status codes. Anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, user.ErrMissingCredentials),
		errors.Is(err, user.ErrWeakPassword),
		errors.Is(err, user.ErrInvalidName),
		errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, user.ErrInvalidResetToken),
		errors.Is(err, user.ErrNoLocalPassword),
		errors.Is(err, user.ErrInvalidVolunteerHour),
		errors.Is(err, applications.ErrMissingFields),
		errors.Is(err, applications.ErrUnknownKind),
		errors.Is(err, applications.ErrInvalidStatus),
		errors.Is(err, donation.ErrInvalidAmount),
		errors.Is(err, donation.ErrInvalidEmail),
		errors.Is(err, donation.ErrInvalidFrequency),
		errors.Is(err, donation.ErrInvalidSignature),
		errors.Is(err, settings.ErrInvalidSettings),
		errors.Is(err, models.ErrInvalidContent):
		return http.StatusBadRequest

	case errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, user.ErrInvalidIDToken):
		return http.StatusUnauthorized

	case errors.Is(err, user.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, applications.ErrNotFound),
		errors.Is(err, content.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, applications.ErrAlreadyApplied):
		return http.StatusConflict

	case errors.Is(err, user.ErrHostedAuthDisabled),
		errors.Is(err, donation.ErrPaymentsDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes err as JSON. Internal causes are logged, not shown.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		utils.GetLogger().Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.AbortWithStatusJSON(status, utils.ErrorResponse{Message: "Something went wrong. Please try again."})
		return
	}

	var missing *applications.MissingFieldsError
	if errors.As(err, &missing) {
		c.AbortWithStatusJSON(status, gin.H{"error": applications.ErrMissingFields.Error(), "fields": missing.Fields})
		return
	}
	utils.JSONError(c, status, err.Error(), "")
}
