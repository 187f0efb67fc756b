package user

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	userRepo "memberportal/database/repository/user"
	"memberportal/services/session"
	"memberportal/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const resetTTL = 30 * time.Minute

// resetAudience binds a reset token to the password hash it was issued
// against, so the token dies with the first successful reset.
func resetAudience(passwordHash string) string {
	return "password-reset:" + utils.HashToken(passwordHash)[:16]
}

// RequestPasswordReset mails a reset link. Unknown addresses succeed silently
// so the endpoint cannot be used to discover accounts.
func (s *DefaultUserService) RequestPasswordReset(ctx context.Context, email string) error {
	email = session.NormalizeEmail(email)
	if email == "" {
		return ErrMissingCredentials
	}
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up account: %w", err)
	}
	if u == nil {
		utils.GetLogger().Debug("Password reset for unknown email")
		return nil
	}

	var link string
	switch {
	case u.PasswordHash != "":
		token, err := utils.GenerateScopedToken(u.ID, u.Email, resetAudience(u.PasswordHash), resetTTL)
		if err != nil {
			return fmt.Errorf("failed to issue reset token: %w", err)
		}
		link = s.ResetURL + "?token=" + url.QueryEscape(token)
	case s.Hosted != nil && u.FirebaseUID != "":
		link, err = s.Hosted.PasswordResetLink(ctx, u.Email)
		if err != nil {
			return fmt.Errorf("failed to create hosted reset link: %w", err)
		}
	default:
		utils.GetLogger().Warn("Password reset requested for account without a password", zap.String("userID", u.ID))
		return nil
	}

	if s.Mailer == nil {
		utils.GetLogger().Warn("Password reset requested but mail is not configured", zap.String("userID", u.ID))
		return nil
	}
	return s.Mailer.SendPasswordReset(ctx, u.Email, link)
}

// ResetPassword redeems a reset token and revokes every session. A token
// stops working once the password it was issued for has changed.
func (s *DefaultUserService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if err := VerifyPasswordComplexity(newPassword); err != nil {
		return err
	}
	claims, err := utils.ValidateToken(resetToken)
	if err != nil {
		return ErrInvalidResetToken
	}
	u, err := s.load(ctx, claims.Subject)
	if errors.Is(err, ErrUserNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return err
	}
	if u.PasswordHash == "" || !claims.VerifyAudience(resetAudience(u.PasswordHash), true) {
		return ErrInvalidResetToken
	}
	return s.setPassword(ctx, u.ID, newPassword, true)
}

// ChangePassword replaces the password of a signed-in local account.
func (s *DefaultUserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if err := VerifyPasswordComplexity(next); err != nil {
		return err
	}
	u, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return ErrNoLocalPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	return s.setPassword(ctx, userID, next, false)
}

func (s *DefaultUserService) setPassword(ctx context.Context, userID, password string, revokeSessions bool) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	hash := string(hashed)
	now := time.Now()
	if _, err := s.save(ctx, userID, userRepo.Changes{PasswordHash: &hash, PasswordSetAt: &now}); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to save password: %w", err)
	}
	if revokeSessions {
		if err := s.Repo.RemoveTokenHash(ctx, userID, ""); err != nil {
			return fmt.Errorf("failed to revoke sessions: %w", err)
		}
		s.publish(ctx, userID, session.KindSignedOut)
	}
	return nil
}
