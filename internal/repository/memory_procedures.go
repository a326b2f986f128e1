package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// MemoryProceduresRepo is the dev/test fallback for technician work
// items, session history and assignments.
type MemoryProceduresRepo struct {
	mu          sync.RWMutex
	procedures  map[string]domain.Procedure
	sessions    map[string]domain.SessionHistoryEntry
	assignments map[string]domain.TechnicianAssignment
}

func NewMemoryProceduresRepo() *MemoryProceduresRepo {
	return &MemoryProceduresRepo{
		procedures:  map[string]domain.Procedure{},
		sessions:    map[string]domain.SessionHistoryEntry{},
		assignments: map[string]domain.TechnicianAssignment{},
	}
}

var _ ProceduresRepository = (*MemoryProceduresRepo)(nil)

func (r *MemoryProceduresRepo) ListProcedures(_ context.Context, clientID string, filter ProcedureFilters) ([]*domain.Procedure, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	procedures := []*domain.Procedure{}
	for _, p := range r.procedures {
		if p.ClientID != clientID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Date != "" && p.Date != filter.Date {
			continue
		}
		out := p
		procedures = append(procedures, &out)
	}
	sort.Slice(procedures, func(i, j int) bool { return procedures[i].ScheduledTime < procedures[j].ScheduledTime })
	return procedures, nil
}

func (r *MemoryProceduresRepo) GetProcedure(_ context.Context, clientID, id string) (*domain.Procedure, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.procedures[id]
	if !ok || p.ClientID != clientID {
		return nil, fmt.Errorf("procedure not found: id '%s' %w", id, ErrNotFound)
	}
	out := p
	return &out, nil
}

func (r *MemoryProceduresRepo) CreateProcedure(_ context.Context, p *domain.Procedure) (*domain.Procedure, error) {
	if p == nil || p.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = "pending"
	}
	r.procedures[p.ID] = *p
	return p, nil
}

func (r *MemoryProceduresRepo) UpdateProcedure(_ context.Context, p *domain.Procedure) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("procedure id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.procedures[p.ID]
	if !ok || existing.ClientID != p.ClientID {
		return fmt.Errorf("procedure not found: id '%s' %w", p.ID, ErrNotFound)
	}
	r.procedures[p.ID] = *p
	return nil
}

func (r *MemoryProceduresRepo) ListSessionHistory(_ context.Context, clientID, patientID string) ([]*domain.SessionHistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := []*domain.SessionHistoryEntry{}
	for _, e := range r.sessions {
		if e.ClientID != clientID {
			continue
		}
		if patientID != "" && e.PatientID != patientID {
			continue
		}
		out := e
		entries = append(entries, &out)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date > entries[j].Date
		}
		return entries[i].EndTime > entries[j].EndTime
	})
	return entries, nil
}

func (r *MemoryProceduresRepo) CreateSessionHistory(_ context.Context, e *domain.SessionHistoryEntry) (*domain.SessionHistoryEntry, error) {
	if e == nil || e.ClientID == "" || e.PatientID == "" {
		return nil, fmt.Errorf("client_id and patient_id are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	r.sessions[e.ID] = *e
	return e, nil
}

func (r *MemoryProceduresRepo) ListAssignments(_ context.Context, clientID string) ([]*domain.TechnicianAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	assignments := []*domain.TechnicianAssignment{}
	for _, a := range r.assignments {
		if a.ClientID != clientID {
			continue
		}
		out := a
		assignments = append(assignments, &out)
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].AssignedAt > assignments[j].AssignedAt })
	return assignments, nil
}

func (r *MemoryProceduresRepo) CreateAssignment(_ context.Context, a *domain.TechnicianAssignment) (*domain.TechnicianAssignment, error) {
	if a == nil || a.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	r.assignments[a.ID] = *a
	return a, nil
}
