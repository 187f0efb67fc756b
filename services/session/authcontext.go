package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	userRepo "memberportal/database/repository/user"
	"memberportal/models"
	"memberportal/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ErrInvalidSession is returned for a token that is malformed, expired or revoked.
var ErrInvalidSession = errors.New("invalid session")

// Credentials is what a request presents to identify itself.
type Credentials struct {
	Token     string
	DemoAdmin bool
}

// AuthContext resolves the current user and notifies about session changes.
// A nil user with a nil error means the visitor is anonymous.
type AuthContext interface {
	CurrentUser(ctx context.Context, cred Credentials) (*models.User, error)
	Subscribe(userID string) (<-chan Event, func())
}

// TokenAuthContext resolves signed session tokens against the user store.
// Verified token hashes are cached in Redis when a client is configured.
type TokenAuthContext struct {
	Users  userRepo.UserRepository
	Cache  *redis.Client
	Broker *Broker
}

func NewTokenAuthContext(users userRepo.UserRepository, cache *redis.Client, broker *Broker) *TokenAuthContext {
	return &TokenAuthContext{Users: users, Cache: cache, Broker: broker}
}

func (a *TokenAuthContext) CurrentUser(ctx context.Context, cred Credentials) (*models.User, error) {
	if cred.Token == "" {
		return nil, nil
	}
	claims, err := utils.ValidateToken(cred.Token)
	if err != nil || claims.Subject == "" || len(claims.Audience) > 0 {
		return nil, ErrInvalidSession
	}
	hash := utils.HashToken(cred.Token)
	cacheKey := utils.AuthCachePrefix + hash

	cached := false
	if a.Cache != nil {
		uid, err := a.Cache.Get(ctx, cacheKey).Result()
		switch {
		case err == nil:
			cached = uid == claims.Subject
		case !errors.Is(err, redis.Nil):
			utils.GetLogger().Warn("Auth cache read failed, falling back to store", zap.Error(err))
		}
	}

	user, err := a.Users.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	if !cached {
		if !containsHash(user.TokenHashes, hash) {
			return nil, ErrInvalidSession
		}
		if a.Cache != nil {
			_ = a.Cache.Set(ctx, cacheKey, user.ID, utils.AuthCacheTTL).Err()
		}
	}
	return user, nil
}

func (a *TokenAuthContext) Subscribe(userID string) (<-chan Event, func()) {
	return a.Broker.Subscribe(userID)
}

// Forget drops a cached token hash so a revoked token stops resolving at once.
func (a *TokenAuthContext) Forget(ctx context.Context, token string) {
	if a.Cache == nil || token == "" {
		return
	}
	_ = a.Cache.Del(ctx, utils.AuthCachePrefix+utils.HashToken(token)).Err()
}

func containsHash(hashes []string, h string) bool {
	for _, x := range hashes {
		if x == h {
			return true
		}
	}
	return false
}

// DemoAdminID is the id of the synthetic demo administrator.
const DemoAdminID = "demo-admin"

// DemoAdminUser returns the synthetic identity injected by DemoAdminAuthContext.
func DemoAdminUser() *models.User {
	now := time.Now()
	return &models.User{
		ID:              DemoAdminID,
		Email:           "demo-admin@localhost",
		DisplayName:     "Demo Admin",
		Role:            models.RoleAdmin,
		ProfileComplete: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// DemoAdminAuthContext grants the demo administrator to requests that opt in,
// and defers to Next for everything else. Only construct it through
// WithDemoAdmin so production configurations never carry it.
type DemoAdminAuthContext struct {
	Next AuthContext
}

func (d *DemoAdminAuthContext) CurrentUser(ctx context.Context, cred Credentials) (*models.User, error) {
	if cred.DemoAdmin {
		return DemoAdminUser(), nil
	}
	return d.Next.CurrentUser(ctx, cred)
}

func (d *DemoAdminAuthContext) Subscribe(userID string) (<-chan Event, func()) {
	return d.Next.Subscribe(userID)
}

// WithDemoAdmin wraps base with the demo strategy when allowed is true.
func WithDemoAdmin(base AuthContext, allowed bool) AuthContext {
	if !allowed {
		return base
	}
	utils.GetLogger().Warn("Demo admin identity is enabled; never use this configuration in production")
	return &DemoAdminAuthContext{Next: base}
}
