package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// MemoryAppointmentsRepo is the dev/test fallback for appointments and
// the reception queue.
type MemoryAppointmentsRepo struct {
	mu           sync.RWMutex
	appointments map[string]domain.Appointment
	queue        map[string]domain.QueueEntry
}

func NewMemoryAppointmentsRepo() *MemoryAppointmentsRepo {
	return &MemoryAppointmentsRepo{
		appointments: map[string]domain.Appointment{},
		queue:        map[string]domain.QueueEntry{},
	}
}

var _ AppointmentsRepository = (*MemoryAppointmentsRepo)(nil)

func (r *MemoryAppointmentsRepo) ListAppointments(_ context.Context, clientID string, filter AppointmentFilters) ([]*domain.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	appts := []*domain.Appointment{}
	for _, a := range r.appointments {
		if a.ClientID != clientID {
			continue
		}
		if filter.Date != "" && a.Date != filter.Date {
			continue
		}
		if filter.DoctorID != "" && a.DoctorID != filter.DoctorID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out := a
		appts = append(appts, &out)
	}
	sort.Slice(appts, func(i, j int) bool {
		if appts[i].Date != appts[j].Date {
			return appts[i].Date < appts[j].Date
		}
		return appts[i].Time < appts[j].Time
	})
	return appts, nil
}

func (r *MemoryAppointmentsRepo) GetAppointment(_ context.Context, clientID, id string) (*domain.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.appointments[id]
	if !ok || a.ClientID != clientID {
		return nil, fmt.Errorf("appointment not found: id '%s' %w", id, ErrNotFound)
	}
	out := a
	return &out, nil
}

func (r *MemoryAppointmentsRepo) CreateAppointment(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if appt == nil || appt.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	r.appointments[appt.ID] = *appt
	return appt, nil
}

func (r *MemoryAppointmentsRepo) UpdateAppointment(_ context.Context, appt *domain.Appointment) error {
	if appt == nil || appt.ID == "" {
		return fmt.Errorf("appointment id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.appointments[appt.ID]
	if !ok || existing.ClientID != appt.ClientID {
		return fmt.Errorf("appointment not found: id '%s' %w", appt.ID, ErrNotFound)
	}
	r.appointments[appt.ID] = *appt
	return nil
}

func (r *MemoryAppointmentsRepo) ListQueue(_ context.Context, clientID string) ([]*domain.QueueEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := []*domain.QueueEntry{}
	for _, q := range r.queue {
		if q.ClientID != clientID {
			continue
		}
		out := q
		entries = append(entries, &out)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].QueueNumber < entries[j].QueueNumber })
	return entries, nil
}

func (r *MemoryAppointmentsRepo) GetQueueEntry(_ context.Context, clientID, id string) (*domain.QueueEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.queue[id]
	if !ok || q.ClientID != clientID {
		return nil, fmt.Errorf("queue entry not found: id '%s' %w", id, ErrNotFound)
	}
	out := q
	return &out, nil
}

func (r *MemoryAppointmentsRepo) CreateQueueEntry(_ context.Context, entry *domain.QueueEntry) (*domain.QueueEntry, error) {
	if entry == nil || entry.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	r.queue[entry.ID] = *entry
	return entry, nil
}

func (r *MemoryAppointmentsRepo) UpdateQueueEntry(_ context.Context, entry *domain.QueueEntry) error {
	if entry == nil || entry.ID == "" {
		return fmt.Errorf("queue entry id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.queue[entry.ID]
	if !ok || existing.ClientID != entry.ClientID {
		return fmt.Errorf("queue entry not found: id '%s' %w", entry.ID, ErrNotFound)
	}
	r.queue[entry.ID] = *entry
	return nil
}
