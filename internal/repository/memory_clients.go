package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// MemoryClientsRepo backs the platform endpoints when DB is disabled.
// Also the fixture store for handler tests.
type MemoryClientsRepo struct {
	mu       sync.RWMutex
	clients  map[string]domain.Client
	branches map[string]domain.ClientBranch
}

func NewMemoryClientsRepo() *MemoryClientsRepo {
	return &MemoryClientsRepo{
		clients:  map[string]domain.Client{},
		branches: map[string]domain.ClientBranch{},
	}
}

var _ ClientsRepository = (*MemoryClientsRepo)(nil)

func cloneClient(c domain.Client) *domain.Client {
	out := c
	out.ModulesEnabled = append([]string(nil), c.ModulesEnabled...)
	if c.RolePermissions != nil {
		out.RolePermissions = make(map[string][]string, len(c.RolePermissions))
		for k, v := range c.RolePermissions {
			out.RolePermissions[k] = append([]string(nil), v...)
		}
	}
	return &out
}

func (r *MemoryClientsRepo) GetClient(_ context.Context, clientID string) (*domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[clientID]
	if !ok {
		return nil, fmt.Errorf("client not found: id '%s' %w", clientID, ErrNotFound)
	}
	return cloneClient(c), nil
}

func (r *MemoryClientsRepo) GetClientBySubdomain(_ context.Context, subdomain string) (*domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.clients {
		if c.Subdomain == subdomain {
			return cloneClient(c), nil
		}
	}
	return nil, fmt.Errorf("client not found: subdomain '%s' %w", subdomain, ErrNotFound)
}

func (r *MemoryClientsRepo) ListClients(_ context.Context, filter ClientFilters) ([]*domain.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := []*domain.Client{}
	for _, c := range r.clients {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Plan != "" && c.Plan != filter.Plan {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(c.Name), needle) &&
				!strings.Contains(strings.ToLower(c.Subdomain), needle) {
				continue
			}
		}
		all = append(all, cloneClient(c))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (r *MemoryClientsRepo) CreateClient(_ context.Context, client *domain.Client) (*domain.Client, error) {
	if client == nil || client.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	if client.Status == "" {
		client.Status = "active"
	}
	if client.Plan == "" {
		client.Plan = "basic"
	}
	if client.ModulesEnabled == nil {
		client.ModulesEnabled = []string{}
	}
	r.clients[client.ID] = *cloneClient(*client)
	return client, nil
}

func (r *MemoryClientsRepo) UpdateClient(_ context.Context, client *domain.Client) error {
	if client == nil || client.ID == "" {
		return fmt.Errorf("client id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[client.ID]; !ok {
		return fmt.Errorf("client not found: id '%s' %w", client.ID, ErrNotFound)
	}
	r.clients[client.ID] = *cloneClient(*client)
	return nil
}

func (r *MemoryClientsRepo) SetClientStatus(_ context.Context, clientID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[clientID]
	if !ok {
		return fmt.Errorf("client not found: id '%s' %w", clientID, ErrNotFound)
	}
	c.Status = status
	r.clients[clientID] = c
	return nil
}

func (r *MemoryClientsRepo) IncrementAPIUsage(_ context.Context, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[clientID]
	if !ok {
		return nil
	}
	c.APIUsage++
	r.clients[clientID] = c
	return nil
}

func (r *MemoryClientsRepo) ListBranches(_ context.Context, clientID string) ([]*domain.ClientBranch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	branches := []*domain.ClientBranch{}
	for _, b := range r.branches {
		if b.ClientID != clientID {
			continue
		}
		copy := b
		branches = append(branches, &copy)
	}
	sort.Slice(branches, func(i, j int) bool {
		if branches[i].IsMain != branches[j].IsMain {
			return branches[i].IsMain
		}
		return branches[i].Name < branches[j].Name
	})
	return branches, nil
}

func (r *MemoryClientsRepo) CreateBranch(_ context.Context, branch *domain.ClientBranch) (*domain.ClientBranch, error) {
	if branch == nil || branch.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if branch.ID == "" {
		branch.ID = uuid.NewString()
	}
	r.branches[branch.ID] = *branch
	return branch, nil
}
