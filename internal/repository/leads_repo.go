package repository

import (
	"context"

	"hospverse-api/internal/domain"
)

// LeadsRepository covers the CRM funnel. History arrays are stored inline
// on the lead record; conversions additionally write a ConvertedLead row.
type LeadsRepository interface {
	ListLeads(ctx context.Context, clientID string, filter LeadFilters) ([]*domain.Lead, error)
	GetLead(ctx context.Context, clientID, id string) (*domain.Lead, error)
	CreateLead(ctx context.Context, lead *domain.Lead) (*domain.Lead, error)
	UpdateLead(ctx context.Context, lead *domain.Lead) error

	ListConvertedLeads(ctx context.Context, clientID string) ([]*domain.ConvertedLead, error)
	CreateConvertedLead(ctx context.Context, cl *domain.ConvertedLead) (*domain.ConvertedLead, error)
}

// LeadFilters narrows ListLeads.
type LeadFilters struct {
	Status     string
	Source     string
	AssignedTo string
	Search     string // name, mobile or email
}
