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

// MemoryLeadsRepo is the dev/test fallback for the CRM funnel.
type MemoryLeadsRepo struct {
	mu        sync.RWMutex
	leads     map[string]domain.Lead
	converted map[string]domain.ConvertedLead
}

func NewMemoryLeadsRepo() *MemoryLeadsRepo {
	return &MemoryLeadsRepo{
		leads:     map[string]domain.Lead{},
		converted: map[string]domain.ConvertedLead{},
	}
}

var _ LeadsRepository = (*MemoryLeadsRepo)(nil)

func cloneLead(l domain.Lead) *domain.Lead {
	out := l
	out.StatusHistory = append([]domain.LeadStatusEntry(nil), l.StatusHistory...)
	out.NotesHistory = append([]domain.LeadNoteEntry(nil), l.NotesHistory...)
	return &out
}

func (r *MemoryLeadsRepo) ListLeads(_ context.Context, clientID string, filter LeadFilters) ([]*domain.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	leads := []*domain.Lead{}
	for _, l := range r.leads {
		if l.ClientID != clientID {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.Source != "" && l.Source != filter.Source {
			continue
		}
		if filter.AssignedTo != "" && l.AssignedTo != filter.AssignedTo && l.AssignedToID != filter.AssignedTo {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(l.FullName), needle) &&
				!strings.Contains(l.Mobile, filter.Search) &&
				!strings.Contains(strings.ToLower(l.Email), needle) {
				continue
			}
		}
		leads = append(leads, cloneLead(l))
	}
	sort.Slice(leads, func(i, j int) bool { return leads[i].CreatedAt > leads[j].CreatedAt })
	return leads, nil
}

func (r *MemoryLeadsRepo) GetLead(_ context.Context, clientID, id string) (*domain.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.leads[id]
	if !ok || l.ClientID != clientID {
		return nil, fmt.Errorf("lead not found: id '%s' %w", id, ErrNotFound)
	}
	return cloneLead(l), nil
}

func (r *MemoryLeadsRepo) CreateLead(_ context.Context, lead *domain.Lead) (*domain.Lead, error) {
	if lead == nil || lead.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	if lead.FullName == "" {
		return nil, fmt.Errorf("full_name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.Status == "" {
		lead.Status = "new"
	}
	if lead.StatusHistory == nil {
		lead.StatusHistory = []domain.LeadStatusEntry{}
	}
	if lead.NotesHistory == nil {
		lead.NotesHistory = []domain.LeadNoteEntry{}
	}
	r.leads[lead.ID] = *cloneLead(*lead)
	return lead, nil
}

func (r *MemoryLeadsRepo) UpdateLead(_ context.Context, lead *domain.Lead) error {
	if lead == nil || lead.ID == "" {
		return fmt.Errorf("lead id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.leads[lead.ID]
	if !ok || existing.ClientID != lead.ClientID {
		return fmt.Errorf("lead not found: id '%s' %w", lead.ID, ErrNotFound)
	}
	r.leads[lead.ID] = *cloneLead(*lead)
	return nil
}

func (r *MemoryLeadsRepo) ListConvertedLeads(_ context.Context, clientID string) ([]*domain.ConvertedLead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	converted := []*domain.ConvertedLead{}
	for _, c := range r.converted {
		if c.ClientID != clientID {
			continue
		}
		out := c
		converted = append(converted, &out)
	}
	sort.Slice(converted, func(i, j int) bool { return converted[i].ConvertedAt > converted[j].ConvertedAt })
	return converted, nil
}

func (r *MemoryLeadsRepo) CreateConvertedLead(_ context.Context, cl *domain.ConvertedLead) (*domain.ConvertedLead, error) {
	if cl == nil || cl.ClientID == "" || cl.LeadID == "" {
		return nil, fmt.Errorf("client_id and lead_id are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cl.ID == "" {
		cl.ID = uuid.NewString()
	}
	r.converted[cl.ID] = *cl
	return cl, nil
}
