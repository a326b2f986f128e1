package repository

import (
	"context"

	"hospverse-api/internal/domain"
)

// UsersRepository maps auth-provider identities to clinic profiles.
type UsersRepository interface {
	// GetProfileByAuthID looks up the profile for the identity returned by
	// the auth provider. auth_user_id has a unique index.
	GetProfileByAuthID(ctx context.Context, authUserID string) (*domain.UserProfile, error)
	ListProfiles(ctx context.Context, clientID string) ([]*domain.UserProfile, error)
	CreateProfile(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error)
}
