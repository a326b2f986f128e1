package repository

import (
	"context"

	"hospverse-api/internal/domain"
)

// ProceduresRepository covers technician work items, the session history
// written on completion, and doctor-to-technician assignments.
type ProceduresRepository interface {
	ListProcedures(ctx context.Context, clientID string, filter ProcedureFilters) ([]*domain.Procedure, error)
	GetProcedure(ctx context.Context, clientID, id string) (*domain.Procedure, error)
	CreateProcedure(ctx context.Context, p *domain.Procedure) (*domain.Procedure, error)
	UpdateProcedure(ctx context.Context, p *domain.Procedure) error

	ListSessionHistory(ctx context.Context, clientID, patientID string) ([]*domain.SessionHistoryEntry, error)
	CreateSessionHistory(ctx context.Context, e *domain.SessionHistoryEntry) (*domain.SessionHistoryEntry, error)

	ListAssignments(ctx context.Context, clientID string) ([]*domain.TechnicianAssignment, error)
	CreateAssignment(ctx context.Context, a *domain.TechnicianAssignment) (*domain.TechnicianAssignment, error)
}

// ProcedureFilters narrows ListProcedures.
type ProcedureFilters struct {
	Status string
	Date   string // YYYY-MM-DD
}
