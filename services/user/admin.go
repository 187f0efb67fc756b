package user

import (
	"context"
	"errors"
	"fmt"

	"memberportal/database/repository"
	"memberportal/models"
	"memberportal/services/session"
	"memberportal/utils"

	"go.uber.org/zap"
)

func (s *DefaultUserService) ListUsers(ctx context.Context, role string) ([]models.User, error) {
	if role != "" && !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	users, err := s.Repo.List(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ChangeRole is the only way to change a role after onboarding, and only an
// admin may call it. An admin cannot demote themselves.
func (s *DefaultUserService) ChangeRole(ctx context.Context, actor *models.User, userID, role string) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	if actor.ID == userID && role != models.RoleAdmin {
		return nil, ErrForbidden
	}

	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role == role {
		return u, nil
	}
	previous := u.Role
	u, err = s.Repo.SetRole(ctx, userID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to change role: %w", err)
	}
	utils.GetLogger().Info("Role changed",
		zap.String("userID", userID),
		zap.String("from", previous),
		zap.String("to", role),
		zap.String("by", actor.ID))
	s.publish(ctx, u.ID, session.KindRoleChanged)
	return u, nil
}

func (s *DefaultUserService) AddVolunteerHours(ctx context.Context, userID string, hours float64) (*models.User, error) {
	if hours <= 0 {
		return nil, ErrInvalidVolunteerHour
	}
	u, err := s.Repo.AddVolunteerHours(ctx, userID, hours)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add volunteer hours: %w", err)
	}
	return u, nil
}

func (s *DefaultUserService) DeleteUser(ctx context.Context, actor *models.User, userID string) error {
	if !actor.IsAdmin() || actor.ID == userID {
		return ErrForbidden
	}
	err := s.Repo.Delete(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.publish(ctx, userID, session.KindSignedOut)
	return nil
}
