package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"memberportal/database/repository"
	"memberportal/models"
	"memberportal/services/session"
	"memberportal/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SignUp creates a local account. The account starts with the placeholder
// name and an incomplete profile, so the gate sends it to onboarding.
func (s *DefaultUserService) SignUp(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = session.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if err := VerifyPasswordComplexity(password); err != nil {
		return nil, err
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		utils.GetLogger().Error("SignUp: failed to check for existing user", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("SignUp: failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	now := time.Now()
	u := &models.User{
		ID:            utils.NewID(),
		Email:         email,
		DisplayName:   session.DefaultDisplayName,
		Role:          models.RoleMember,
		Interests:     []string{},
		PasswordHash:  string(hashed),
		PasswordSetAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		// Two sign-ups racing for one address meet at the unique index.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		utils.GetLogger().Error("SignUp: failed to create user", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	utils.GetLogger().Info("User registered", zap.String("userID", u.ID))
	return s.issueSession(ctx, u)
}
