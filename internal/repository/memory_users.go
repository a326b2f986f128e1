package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// MemoryUsersRepo is the dev/test fallback for user profiles.
type MemoryUsersRepo struct {
	mu       sync.RWMutex
	profiles map[string]domain.UserProfile
}

func NewMemoryUsersRepo() *MemoryUsersRepo {
	return &MemoryUsersRepo{profiles: map[string]domain.UserProfile{}}
}

var _ UsersRepository = (*MemoryUsersRepo)(nil)

func (r *MemoryUsersRepo) GetProfileByAuthID(_ context.Context, authUserID string) (*domain.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.profiles {
		if p.AuthUserID == authUserID {
			out := p
			return &out, nil
		}
	}
	return nil, fmt.Errorf("user profile not found: auth_user_id '%s' %w", authUserID, ErrNotFound)
}

func (r *MemoryUsersRepo) ListProfiles(_ context.Context, clientID string) ([]*domain.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profiles := []*domain.UserProfile{}
	for _, p := range r.profiles {
		if p.ClientID != clientID {
			continue
		}
		out := p
		profiles = append(profiles, &out)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles, nil
}

func (r *MemoryUsersRepo) CreateProfile(_ context.Context, profile *domain.UserProfile) (*domain.UserProfile, error) {
	if profile == nil || profile.AuthUserID == "" {
		return nil, fmt.Errorf("auth_user_id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	r.profiles[profile.ID] = *profile
	return profile, nil
}
