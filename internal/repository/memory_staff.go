package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// MemoryStaffRepo is the dev/test fallback for the staff roster and HR
// records.
type MemoryStaffRepo struct {
	mu         sync.RWMutex
	staff      map[string]domain.Staff
	documents  map[string]domain.StaffDocument
	shifts     map[string]domain.Shift
	attendance map[string]domain.AttendanceRecord
	notes      map[string]domain.PerformanceNote
}

func NewMemoryStaffRepo() *MemoryStaffRepo {
	return &MemoryStaffRepo{
		staff:      map[string]domain.Staff{},
		documents:  map[string]domain.StaffDocument{},
		shifts:     map[string]domain.Shift{},
		attendance: map[string]domain.AttendanceRecord{},
		notes:      map[string]domain.PerformanceNote{},
	}
}

var _ StaffRepository = (*MemoryStaffRepo)(nil)

func (r *MemoryStaffRepo) ListStaff(_ context.Context, clientID string, filter StaffFilters) ([]*domain.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := []*domain.Staff{}
	for _, s := range r.staff {
		if s.ClientID != clientID {
			continue
		}
		if filter.Role != "" && s.Role != filter.Role {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.Branch != "" && s.Branch != filter.Branch {
			continue
		}
		out := s
		members = append(members, &out)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members, nil
}

func (r *MemoryStaffRepo) GetStaff(_ context.Context, clientID, id string) (*domain.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.staff[id]
	if !ok || s.ClientID != clientID {
		return nil, fmt.Errorf("staff not found: id '%s' %w", id, ErrNotFound)
	}
	out := s
	return &out, nil
}

func (r *MemoryStaffRepo) CreateStaff(_ context.Context, staff *domain.Staff) (*domain.Staff, error) {
	if staff == nil || staff.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	if staff.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}
	if staff.Status == "" {
		staff.Status = "active"
	}
	r.staff[staff.ID] = *staff
	return staff, nil
}

func (r *MemoryStaffRepo) UpdateStaff(_ context.Context, staff *domain.Staff) error {
	if staff == nil || staff.ID == "" {
		return fmt.Errorf("staff id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.staff[staff.ID]
	if !ok || existing.ClientID != staff.ClientID {
		return fmt.Errorf("staff not found: id '%s' %w", staff.ID, ErrNotFound)
	}
	r.staff[staff.ID] = *staff
	return nil
}

func (r *MemoryStaffRepo) ListDocuments(_ context.Context, clientID, staffID string) ([]*domain.StaffDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := []*domain.StaffDocument{}
	for _, d := range r.documents {
		if d.ClientID != clientID {
			continue
		}
		if staffID != "" && d.StaffID != staffID {
			continue
		}
		out := d
		docs = append(docs, &out)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].UploadedAt > docs[j].UploadedAt })
	return docs, nil
}

func (r *MemoryStaffRepo) CreateDocument(_ context.Context, doc *domain.StaffDocument) (*domain.StaffDocument, error) {
	if doc == nil || doc.ClientID == "" || doc.StaffID == "" {
		return nil, fmt.Errorf("client_id and staff_id are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	r.documents[doc.ID] = *doc
	return doc, nil
}

func (r *MemoryStaffRepo) ListShifts(_ context.Context, clientID, staffID string) ([]*domain.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	shifts := []*domain.Shift{}
	for _, s := range r.shifts {
		if s.ClientID != clientID {
			continue
		}
		if staffID != "" && s.StaffID != staffID {
			continue
		}
		out := s
		shifts = append(shifts, &out)
	}
	sort.Slice(shifts, func(i, j int) bool { return shifts[i].StartTime < shifts[j].StartTime })
	return shifts, nil
}

func (r *MemoryStaffRepo) CreateShift(_ context.Context, shift *domain.Shift) (*domain.Shift, error) {
	if shift == nil || shift.ClientID == "" || shift.StaffID == "" {
		return nil, fmt.Errorf("client_id and staff_id are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if shift.ID == "" {
		shift.ID = uuid.NewString()
	}
	if shift.Status == "" {
		shift.Status = "scheduled"
	}
	r.shifts[shift.ID] = *shift
	return shift, nil
}

func (r *MemoryStaffRepo) ListAttendance(_ context.Context, clientID, staffID, date string) ([]*domain.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := []*domain.AttendanceRecord{}
	for _, a := range r.attendance {
		if a.ClientID != clientID {
			continue
		}
		if staffID != "" && a.StaffID != staffID {
			continue
		}
		if date != "" && a.Date != date {
			continue
		}
		out := a
		records = append(records, &out)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date > records[j].Date })
	return records, nil
}

func (r *MemoryStaffRepo) CreateAttendance(_ context.Context, rec *domain.AttendanceRecord) (*domain.AttendanceRecord, error) {
	if rec == nil || rec.ClientID == "" || rec.StaffID == "" {
		return nil, fmt.Errorf("client_id and staff_id are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	r.attendance[rec.ID] = *rec
	return rec, nil
}

func (r *MemoryStaffRepo) ListPerformanceNotes(_ context.Context, clientID, staffID string) ([]*domain.PerformanceNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	notes := []*domain.PerformanceNote{}
	for _, n := range r.notes {
		if n.ClientID != clientID {
			continue
		}
		if staffID != "" && n.StaffID != staffID {
			continue
		}
		out := n
		notes = append(notes, &out)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].AddedAt > notes[j].AddedAt })
	return notes, nil
}

func (r *MemoryStaffRepo) CreatePerformanceNote(_ context.Context, note *domain.PerformanceNote) (*domain.PerformanceNote, error) {
	if note == nil || note.ClientID == "" || note.StaffID == "" {
		return nil, fmt.Errorf("client_id and staff_id are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	r.notes[note.ID] = *note
	return note, nil
}
