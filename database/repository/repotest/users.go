package repotest

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"memberportal/database/repository"
	userRepo "memberportal/database/repository/user"
	"memberportal/models"
)

var _ userRepo.UserRepository = (*MemoryUserRepo)(nil)

// MemoryUserRepo is an in-process UserRepository.
type MemoryUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]models.User)}
}

func cloneUser(u models.User) *models.User {
	u.Interests = append([]string(nil), u.Interests...)
	u.TokenHashes = append([]string(nil), u.TokenHashes...)
	return &u
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	return cloneUser(u), nil
}

func (r *MemoryUserRepo) find(match func(models.User) bool) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u)
		}
	}
	return nil
}

func (r *MemoryUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email }), nil
}

func (r *MemoryUserRepo) GetByFirebaseUID(_ context.Context, uid string) (*models.User, error) {
	return r.find(func(u models.User) bool { return uid != "" && u.FirebaseUID == uid }), nil
}

func (r *MemoryUserRepo) List(_ context.Context, role string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.User{}
	for _, u := range r.users {
		if role == "" || u.Role == role {
			out = append(out, *cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == user.ID || u.Email == user.Email || (user.FirebaseUID != "" && u.FirebaseUID == user.FirebaseUID) {
			return fmt.Errorf("user %s: %w", user.Email, repository.ErrDuplicate)
		}
	}
	r.users[user.ID] = *cloneUser(*user)
	return nil
}

func (r *MemoryUserRepo) UpdateFields(_ context.Context, id string, c userRepo.Changes) (*models.User, error) {
	if c.FirebaseUID != nil && *c.FirebaseUID != "" {
		taken := r.find(func(u models.User) bool { return u.ID != id && u.FirebaseUID == *c.FirebaseUID })
		if taken != nil {
			return nil, fmt.Errorf("user %s: %w", id, repository.ErrDuplicate)
		}
	}
	return r.mutate(id, func(u *models.User) {
		if c.DisplayName != nil {
			u.DisplayName = *c.DisplayName
		}
		if c.Interests != nil {
			u.Interests = append([]string(nil), (*c.Interests)...)
		}
		if c.ProfileComplete != nil {
			u.ProfileComplete = *c.ProfileComplete
		}
		if c.AvatarURL != nil {
			u.AvatarURL = *c.AvatarURL
		}
		if c.FCMToken != nil {
			u.FCMToken = *c.FCMToken
		}
		if c.FirebaseUID != nil {
			u.FirebaseUID = *c.FirebaseUID
		}
		if c.PasswordHash != nil {
			u.PasswordHash = *c.PasswordHash
		}
		if c.PasswordSetAt != nil {
			u.PasswordSetAt = *c.PasswordSetAt
		}
		u.UpdatedAt = time.Now()
	})
}

func (r *MemoryUserRepo) SetRole(_ context.Context, id, role string, from ...string) (*models.User, error) {
	return r.mutate(id, func(u *models.User) {
		if len(from) > 0 && !slices.Contains(from, u.Role) {
			return
		}
		u.Role = role
		u.UpdatedAt = time.Now()
	})
}

func (r *MemoryUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	delete(r.users, id)
	return nil
}

func (r *MemoryUserRepo) mutate(id string, fn func(*models.User)) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	fn(&u)
	r.users[id] = u
	return cloneUser(u), nil
}

func (r *MemoryUserRepo) AddTokenHash(_ context.Context, id, hash string) error {
	_, err := r.mutate(id, func(u *models.User) {
		for _, h := range u.TokenHashes {
			if h == hash {
				return
			}
		}
		u.TokenHashes = append(u.TokenHashes, hash)
	})
	return err
}

func (r *MemoryUserRepo) RemoveTokenHash(_ context.Context, id, hash string) error {
	_, err := r.mutate(id, func(u *models.User) {
		if hash == "" {
			u.TokenHashes = nil
			return
		}
		kept := u.TokenHashes[:0]
		for _, h := range u.TokenHashes {
			if h != hash {
				kept = append(kept, h)
			}
		}
		u.TokenHashes = kept
	})
	return err
}

func (r *MemoryUserRepo) AddVolunteerHours(_ context.Context, id string, hours float64) (*models.User, error) {
	return r.mutate(id, func(u *models.User) { u.VolunteerHours += hours })
}
