package repository

import (
	"context"

	"hospverse-api/internal/domain"
)

// AppointmentsRepository covers bookings and the reception walk-in queue.
type AppointmentsRepository interface {
	ListAppointments(ctx context.Context, clientID string, filter AppointmentFilters) ([]*domain.Appointment, error)
	GetAppointment(ctx context.Context, clientID, id string) (*domain.Appointment, error)
	CreateAppointment(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	UpdateAppointment(ctx context.Context, appt *domain.Appointment) error

	ListQueue(ctx context.Context, clientID string) ([]*domain.QueueEntry, error)
	CreateQueueEntry(ctx context.Context, entry *domain.QueueEntry) (*domain.QueueEntry, error)
	UpdateQueueEntry(ctx context.Context, entry *domain.QueueEntry) error
	GetQueueEntry(ctx context.Context, clientID, id string) (*domain.QueueEntry, error)
}

// AppointmentFilters narrows ListAppointments.
type AppointmentFilters struct {
	Date     string // YYYY-MM-DD
	DoctorID string
	Status   string
}
