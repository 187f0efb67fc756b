package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"memberportal/database/repository"
	userRepo "memberportal/database/repository/user"
	"memberportal/models"
	"memberportal/services/session"
	"memberportal/utils"

	"go.uber.org/zap"
)

// SignInWithOAuth exchanges a hosted-auth ID token for a portal session. The
// local user is found by provider uid, then linked by email, then created.
func (s *DefaultUserService) SignInWithOAuth(ctx context.Context, idToken string) (*AuthResponse, error) {
	if s.Hosted == nil {
		return nil, ErrHostedAuthDisabled
	}
	tok, err := s.Hosted.VerifyIDToken(ctx, idToken)
	if err != nil {
		utils.GetLogger().Debug("SignInWithOAuth: token rejected", zap.Error(err))
		return nil, ErrInvalidIDToken
	}
	email, _ := tok.Claims["email"].(string)
	email = session.NormalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidIDToken
	}
	picture, _ := tok.Claims["picture"].(string)

	u, err := s.Repo.GetByFirebaseUID(ctx, tok.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up linked account: %w", err)
	}
	if u == nil {
		u, err = s.Repo.GetByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("failed to look up account: %w", err)
		}
	}

	switch {
	case u == nil:
		now := time.Now()
		u = &models.User{
			ID:          utils.NewID(),
			Email:       email,
			DisplayName: session.DefaultDisplayName,
			Role:        models.RoleMember,
			Interests:   []string{},
			AvatarURL:   picture,
			FirebaseUID: tok.UID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.Repo.Create(ctx, u); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, ErrEmailTaken
			}
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
		utils.GetLogger().Info("User registered via hosted auth", zap.String("userID", u.ID))
	case u.FirebaseUID == "":
		c := userRepo.Changes{FirebaseUID: &tok.UID}
		if u.AvatarURL == "" && picture != "" {
			c.AvatarURL = &picture
		}
		if u, err = s.save(ctx, u.ID, c); err != nil {
			return nil, fmt.Errorf("failed to link account: %w", err)
		}
	}
	return s.issueSession(ctx, u)
}
