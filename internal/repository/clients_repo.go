package repository

import (
	"context"

	"hospverse-api/internal/domain"
)

// ClientsRepository is platform-level data: clinic accounts and their
// branches. Resolved on every request, so GetClientBySubdomain must stay
// cheap (subdomain has a unique index).
type ClientsRepository interface {
	GetClient(ctx context.Context, clientID string) (*domain.Client, error)
	GetClientBySubdomain(ctx context.Context, subdomain string) (*domain.Client, error)
	ListClients(ctx context.Context, filter ClientFilters) ([]*domain.Client, error)
	CreateClient(ctx context.Context, client *domain.Client) (*domain.Client, error)
	// UpdateClient overwrites the stored record. Callers merge partial
	// payloads over the existing record before calling.
	UpdateClient(ctx context.Context, client *domain.Client) error
	SetClientStatus(ctx context.Context, clientID, status string) error
	IncrementAPIUsage(ctx context.Context, clientID string) error

	ListBranches(ctx context.Context, clientID string) ([]*domain.ClientBranch, error)
	CreateBranch(ctx context.Context, branch *domain.ClientBranch) (*domain.ClientBranch, error)
}

// ClientFilters narrows ListClients.
type ClientFilters struct {
	Status string // active | inactive | trial | suspended
	Plan   string
	Search string // name or subdomain, case-insensitive substring
}
