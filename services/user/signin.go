package user

import (
	"context"
	"fmt"

	"memberportal/services/session"
	"memberportal/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SignIn authenticates a local account by email and password.
func (s *DefaultUserService) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = session.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		utils.GetLogger().Error("SignIn: failed to load user", zap.Error(err))
		return nil, fmt.Errorf("sign in failed, please try again")
	}
	if u == nil || u.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueSession(ctx, u)
}

// SignOut revokes token, or every session of the user when everywhere is set.
// Hosted refresh tokens are revoked for linked accounts.
func (s *DefaultUserService) SignOut(ctx context.Context, userID, token string, everywhere bool) error {
	hash := ""
	if !everywhere {
		hash = utils.HashToken(token)
	}
	if err := s.Repo.RemoveTokenHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	if s.Tokens != nil {
		s.Tokens.Forget(ctx, token)
	}

	if s.Hosted != nil {
		if u, err := s.Repo.GetByID(ctx, userID); err == nil && u.FirebaseUID != "" {
			if err := s.Hosted.RevokeRefreshTokens(ctx, u.FirebaseUID); err != nil {
				utils.GetLogger().Warn("SignOut: failed to revoke hosted refresh tokens", zap.String("userID", userID), zap.Error(err))
			}
		}
	}

	s.publish(ctx, userID, session.KindSignedOut)
	return nil
}
