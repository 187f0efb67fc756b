package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	userRepo "memberportal/database/repository/user"
	"memberportal/models"
	"memberportal/services/session"
	"memberportal/utils"

	"go.uber.org/zap"
)

// CompleteProfile is the onboarding step. Members may pick member or volunteer;
// admin is only ever granted through ChangeRole.
func (s *DefaultUserService) CompleteProfile(ctx context.Context, userID string, req ProfileCompletion) (*models.User, error) {
	name := strings.TrimSpace(req.DisplayName)
	if !session.NameIsSet(name) {
		return nil, ErrInvalidName
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = models.RoleMember
	}
	if role != models.RoleMember && role != models.RoleVolunteer {
		return nil, ErrInvalidRole
	}

	interests := cleanInterests(req.Interests)
	complete := true
	u, err := s.save(ctx, userID, userRepo.Changes{
		DisplayName:     &name,
		Interests:       &interests,
		ProfileComplete: &complete,
	})
	if errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if err != nil {
		utils.GetLogger().Error("CompleteProfile: failed to save user", zap.String("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("could not save your profile, please try again")
	}
	// An admin completing onboarding keeps the admin role.
	if u.Role != role {
		u, err = s.Repo.SetRole(ctx, userID, role, models.RoleMember, models.RoleVolunteer)
		if err != nil {
			utils.GetLogger().Error("CompleteProfile: failed to set role", zap.String("userID", userID), zap.Error(err))
			return nil, fmt.Errorf("could not save your profile, please try again")
		}
	}
	s.publish(ctx, u.ID, session.KindProfileUpdated)
	return u, nil
}

// UpdateProfile applies the non-nil fields of patch.
func (s *DefaultUserService) UpdateProfile(ctx context.Context, userID string, patch models.ProfileUpdate) (*models.User, error) {
	var c userRepo.Changes
	if patch.DisplayName != nil {
		name := strings.TrimSpace(*patch.DisplayName)
		if !session.NameIsSet(name) {
			return nil, ErrInvalidName
		}
		c.DisplayName = &name
	}
	if patch.Interests != nil {
		interests := cleanInterests(*patch.Interests)
		c.Interests = &interests
	}
	if patch.AvatarURL != nil {
		avatar := strings.TrimSpace(*patch.AvatarURL)
		c.AvatarURL = &avatar
	}
	if patch.FCMToken != nil {
		token := strings.TrimSpace(*patch.FCMToken)
		c.FCMToken = &token
	}

	u, err := s.save(ctx, userID, c)
	if errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if err != nil {
		utils.GetLogger().Error("UpdateProfile: failed to save user", zap.String("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("could not save your profile, please try again")
	}
	s.publish(ctx, u.ID, session.KindProfileUpdated)
	return u, nil
}

func (s *DefaultUserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.load(ctx, userID)
}

// PromoteToVolunteer moves a member to the volunteer role after a volunteer
// sign-up. Other roles are left alone.
func (s *DefaultUserService) PromoteToVolunteer(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role != models.RoleMember {
		return u, nil
	}
	u, err = s.Repo.SetRole(ctx, userID, models.RoleVolunteer, models.RoleMember)
	if err != nil {
		return nil, fmt.Errorf("failed to promote user: %w", err)
	}
	if u.Role != models.RoleVolunteer {
		return u, nil
	}
	s.publish(ctx, u.ID, session.KindRoleChanged)
	return u, nil
}
