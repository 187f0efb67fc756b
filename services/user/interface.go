package user

import (
	"context"
	"time"

	userRepo "memberportal/database/repository/user"
	"memberportal/models"
	"memberportal/services/session"

	"firebase.google.com/go/v4/auth"
)

type UserService interface {
	// Authentication
	SignUp(ctx context.Context, email, password string) (*AuthResponse, error)
	SignIn(ctx context.Context, email, password string) (*AuthResponse, error)
	SignInWithOAuth(ctx context.Context, idToken string) (*AuthResponse, error)
	SignOut(ctx context.Context, userID, token string, everywhere bool) error

	// Passwords
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
	ChangePassword(ctx context.Context, userID, current, next string) error

	// Profile
	CompleteProfile(ctx context.Context, userID string, req ProfileCompletion) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, patch models.ProfileUpdate) (*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	PromoteToVolunteer(ctx context.Context, userID string) (*models.User, error)

	// Admin
	ListUsers(ctx context.Context, role string) ([]models.User, error)
	ChangeRole(ctx context.Context, actor *models.User, userID, role string) (*models.User, error)
	AddVolunteerHours(ctx context.Context, userID string, hours float64) (*models.User, error)
	DeleteUser(ctx context.Context, actor *models.User, userID string) error
}

// HostedAuth is the part of *auth.Client the service relies on.
type HostedAuth interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
	PasswordResetLink(ctx context.Context, email string) (string, error)
}

// Mailer delivers password reset links.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}

// TokenCache drops cached session lookups for a revoked token.
type TokenCache interface {
	Forget(ctx context.Context, token string)
}

// DefaultUserService is the production implementation. Hosted, Mailer and
// Tokens are optional.
type DefaultUserService struct {
	Repo     userRepo.UserRepository
	Hosted   HostedAuth
	Mailer   Mailer
	Tokens   TokenCache
	Broker   *session.Broker
	TokenTTL time.Duration
	// ResetURL is the page that redeems a local password reset token.
	ResetURL string
}

// AuthResponse carries a fresh session token and where the client should go next.
type AuthResponse struct {
	Token    string       `json:"token"`
	User     *models.User `json:"user"`
	NextPath string       `json:"next"`
}

// ProfileCompletion is the payload of the onboarding step.
type ProfileCompletion struct {
	DisplayName string   `json:"displayName"`
	Role        string   `json:"role"`
	Interests   []string `json:"interests"`
}
