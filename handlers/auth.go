package handlers

import (
	"net/http"

	"memberportal/config"
	"memberportal/middleware"
	"memberportal/services/user"
	"memberportal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves sign-up, sign-in, sign-out and password flows.
type AuthHandler struct {
	UserService user.UserService
}

func NewAuthHandler(us user.UserService) *AuthHandler {
	return &AuthHandler{UserService: us}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", config.IsProduction(), true)
}

func (h *AuthHandler) respondSession(c *gin.Context, status int, resp *user.AuthResponse) {
	setSessionCookie(c, resp.Token, int(config.AppConfig.SessionTTL.Seconds()))
	c.JSON(status, resp)
}

// SignUpHandler handles POST /api/auth/signup.
func (h *AuthHandler) SignUpHandler(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	resp, err := h.UserService.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondSession(c, http.StatusCreated, resp)
}

// SignInHandler handles POST /api/auth/signin.
func (h *AuthHandler) SignInHandler(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	resp, err := h.UserService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondSession(c, http.StatusOK, resp)
}

// OAuthHandler handles POST /api/auth/oauth with a hosted-auth ID token.
func (h *AuthHandler) OAuthHandler(c *gin.Context) {
	var req struct {
		IDToken string `json:"idToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IDToken == "" {
		utils.JSONError(c, http.StatusBadRequest, "idToken is required", "")
		return
	}
	resp, err := h.UserService.SignInWithOAuth(c.Request.Context(), req.IDToken)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondSession(c, http.StatusOK, resp)
}

// SignOutHandler handles POST /api/auth/signout. ?everywhere=true revokes every session.
func (h *AuthHandler) SignOutHandler(c *gin.Context) {
	u := middleware.CurrentUser(c)
	everywhere := c.Query("everywhere") == "true"
	if err := h.UserService.SignOut(c.Request.Context(), u.ID, middleware.SessionToken(c), everywhere); err != nil {
		respondError(c, err)
		return
	}
	setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out", "next": "/"})
}

// ForgotPasswordHandler handles POST /api/auth/password/forgot. The answer is
// the same whether or not the email is registered.
func (h *AuthHandler) ForgotPasswordHandler(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		utils.JSONError(c, http.StatusBadRequest, "email is required", "")
		return
	}
	if err := h.UserService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		utils.GetLogger().Error("Password reset request failed", zap.Error(err))
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "If an account exists for this email, a reset link is on its way."})
}

// ResetPasswordHandler handles POST /api/auth/password/reset.
func (h *AuthHandler) ResetPasswordHandler(c *gin.Context) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if err := h.UserService.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		respondError(c, err)
		return
	}
	setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Password updated. Please sign in again.", "next": "/signin"})
}

// ChangePasswordHandler handles PUT /api/me/password.
func (h *AuthHandler) ChangePasswordHandler(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	u := middleware.CurrentUser(c)
	if err := h.UserService.ChangePassword(c.Request.Context(), u.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
