package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"memberportal/database/repository"
	userRepo "memberportal/database/repository/user"
	"memberportal/models"
	"memberportal/services/session"
	"memberportal/utils"

	"go.uber.org/zap"
)

// MinPasswordLength is the shortest password accepted for local accounts.
const MinPasswordLength = 6

// VerifyPasswordComplexity applies the local password rule.
func VerifyPasswordComplexity(password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

func nextPathFor(u *models.User) string {
	if session.IsProfileComplete(u) {
		return session.PathHome
	}
	return session.PathCompleteProfile
}

// issueSession signs a token, records its hash and announces the sign-in.
func (s *DefaultUserService) issueSession(ctx context.Context, u *models.User) (*AuthResponse, error) {
	token, err := utils.GenerateToken(u.ID, u.Email, s.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}
	if err := s.Repo.AddTokenHash(ctx, u.ID, utils.HashToken(token)); err != nil {
		return nil, fmt.Errorf("failed to record session: %w", err)
	}
	s.publish(ctx, u.ID, session.KindSignedIn)
	return &AuthResponse{Token: token, User: u, NextPath: nextPathFor(u)}, nil
}

func (s *DefaultUserService) publish(ctx context.Context, userID string, kind session.EventKind) {
	if s.Broker != nil {
		s.Broker.Publish(ctx, session.Event{UserID: userID, Kind: kind})
	}
}

func (s *DefaultUserService) load(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		utils.GetLogger().Error("Failed to load user", zap.String("userID", userID), zap.Error(err))
		return nil, err
	}
	return u, nil
}

// save applies a field-scoped update, mapping a missing record to ErrUserNotFound.
func (s *DefaultUserService) save(ctx context.Context, userID string, c userRepo.Changes) (*models.User, error) {
	u, err := s.Repo.UpdateFields(ctx, userID, c)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// cleanInterests trims, drops blanks and removes case-insensitive duplicates.
func cleanInterests(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		v := strings.TrimSpace(raw)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
