package repository

import (
	"context"

	"hospverse-api/internal/domain"
)

// StaffRepository covers the staff roster and the HR records hanging off
// it: documents, shifts, attendance, performance notes.
type StaffRepository interface {
	ListStaff(ctx context.Context, clientID string, filter StaffFilters) ([]*domain.Staff, error)
	GetStaff(ctx context.Context, clientID, id string) (*domain.Staff, error)
	CreateStaff(ctx context.Context, staff *domain.Staff) (*domain.Staff, error)
	UpdateStaff(ctx context.Context, staff *domain.Staff) error

	ListDocuments(ctx context.Context, clientID, staffID string) ([]*domain.StaffDocument, error)
	CreateDocument(ctx context.Context, doc *domain.StaffDocument) (*domain.StaffDocument, error)

	ListShifts(ctx context.Context, clientID, staffID string) ([]*domain.Shift, error)
	CreateShift(ctx context.Context, shift *domain.Shift) (*domain.Shift, error)

	ListAttendance(ctx context.Context, clientID, staffID, date string) ([]*domain.AttendanceRecord, error)
	CreateAttendance(ctx context.Context, rec *domain.AttendanceRecord) (*domain.AttendanceRecord, error)

	ListPerformanceNotes(ctx context.Context, clientID, staffID string) ([]*domain.PerformanceNote, error)
	CreatePerformanceNote(ctx context.Context, note *domain.PerformanceNote) (*domain.PerformanceNote, error)
}

// StaffFilters narrows ListStaff.
type StaffFilters struct {
	Role   string
	Status string
	Branch string
}
