package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"memberportal/database/repository"
	settingsRepo "memberportal/database/repository/settings"
	"memberportal/models"
	"memberportal/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Status is the save state of the branding record as the admin sees it.
type Status string

const (
	StatusIdle           Status = "idle"
	StatusSaving         Status = "saving"
	StatusSaved          Status = "saved"
	StatusFailedReverted Status = "failed-reverted"
)

const cacheTTL = time.Hour

var (
	ErrInvalidSettings = errors.New("invalid settings")
	accentPattern      = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// Service serves the singleton settings record. Saves update the visible view
// first and put it back if the write fails.
type Service struct {
	repo  settingsRepo.SettingsRepository
	cache *redis.Client

	saveMu sync.Mutex // one save at a time

	mu      sync.Mutex
	view    models.AppSettings
	status  Status
	lastErr error
}

// NewService returns the settings service; cache may be nil.
func NewService(repo settingsRepo.SettingsRepository, cache *redis.Client) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		view:   models.DefaultSettings(),
		status: StatusIdle,
	}
}

// Status reports the state of the last save and its error when it failed.
func (s *Service) Status() (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.lastErr
}

// Current returns the branding to display. While a save is in flight that is
// the optimistic value; otherwise it is read through the cache.
func (s *Service) Current(ctx context.Context) models.AppSettings {
	s.mu.Lock()
	if s.status == StatusSaving {
		v := s.view
		s.mu.Unlock()
		return v
	}
	s.mu.Unlock()

	stored, err := s.load(ctx)
	if err != nil {
		utils.GetLogger().Warn("Failed to load settings, serving last known", zap.Error(err))
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.view
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusSaving {
		s.view = stored
	}
	return s.view
}

// load reads cache, then store, then defaults.
func (s *Service) load(ctx context.Context) (models.AppSettings, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, utils.SettingsCacheKey).Bytes()
		if err == nil {
			var cached models.AppSettings
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			utils.GetLogger().Debug("Settings cache read failed", zap.Error(err))
		}
	}

	stored, err := s.repo.Get(ctx)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return models.DefaultSettings(), nil
	case err != nil:
		return models.AppSettings{}, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(stored); err == nil {
			_ = s.cache.Set(ctx, utils.SettingsCacheKey, raw, cacheTTL).Err()
		}
	}
	return *stored, nil
}

func validate(in models.AppSettings) (models.AppSettings, error) {
	out := models.AppSettings{
		ID:           models.SettingsID,
		AppName:      strings.TrimSpace(in.AppName),
		Tagline:      strings.TrimSpace(in.Tagline),
		LogoURL:      strings.TrimSpace(in.LogoURL),
		ContactEmail: strings.ToLower(strings.TrimSpace(in.ContactEmail)),
		AccentColor:  strings.TrimSpace(in.AccentColor),
	}
	if out.AppName == "" {
		return out, fmt.Errorf("%w: app name is required", ErrInvalidSettings)
	}
	if out.AccentColor != "" && !accentPattern.MatchString(out.AccentColor) {
		return out, fmt.Errorf("%w: accent color must be a hex color", ErrInvalidSettings)
	}
	if out.ContactEmail != "" {
		if _, err := mail.ParseAddress(out.ContactEmail); err != nil {
			return out, fmt.Errorf("%w: contact email is invalid", ErrInvalidSettings)
		}
	}
	if out.LogoURL != "" {
		u, err := url.Parse(out.LogoURL)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
			return out, fmt.Errorf("%w: logo must be an http(s) URL", ErrInvalidSettings)
		}
	}
	return out, nil
}

// Save persists next. Saving content equal to what is stored writes nothing,
// so repeated saves leave the row untouched.
func (s *Service) Save(ctx context.Context, next models.AppSettings) (models.AppSettings, error) {
	next, err := validate(next)
	if err != nil {
		return models.AppSettings{}, err
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	stored, err := s.load(ctx)
	if err != nil {
		return models.AppSettings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if stored.SameContent(next) && !stored.UpdatedAt.IsZero() {
		s.setState(stored, StatusSaved, nil)
		return stored, nil
	}

	s.mu.Lock()
	previous := s.view
	next.UpdatedAt = time.Now()
	s.view = next
	s.status = StatusSaving
	s.lastErr = nil
	s.mu.Unlock()

	if err := s.repo.Upsert(ctx, &next); err != nil {
		utils.GetLogger().Error("Failed to save settings, reverting", zap.Error(err))
		s.setState(previous, StatusFailedReverted, err)
		return previous, fmt.Errorf("failed to save settings: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, utils.SettingsCacheKey).Err(); err != nil {
			utils.GetLogger().Warn("Failed to invalidate settings cache", zap.Error(err))
		}
	}
	s.setState(next, StatusSaved, nil)
	return next, nil
}

func (s *Service) setState(view models.AppSettings, status Status, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
	s.status = status
	s.lastErr = err
}
