package repository

import (
	"context"

	"hospverse-api/internal/domain"
)

// PhotosRepository covers photo sessions and their photo records.
// Session counters are maintained by the handlers, not here.
type PhotosRepository interface {
	ListSessions(ctx context.Context, clientID, patientID string) ([]*domain.PhotoSession, error)
	GetSession(ctx context.Context, clientID, id string) (*domain.PhotoSession, error)
	CreateSession(ctx context.Context, s *domain.PhotoSession) (*domain.PhotoSession, error)
	UpdateSession(ctx context.Context, s *domain.PhotoSession) error
	DeleteSession(ctx context.Context, clientID, id string) error

	ListPhotos(ctx context.Context, clientID string, filter PhotoFilters) ([]*domain.PatientPhoto, error)
	GetPhoto(ctx context.Context, clientID, id string) (*domain.PatientPhoto, error)
	CreatePhoto(ctx context.Context, p *domain.PatientPhoto) (*domain.PatientPhoto, error)
	DeletePhoto(ctx context.Context, clientID, id string) error
}

// PhotoFilters narrows ListPhotos.
type PhotoFilters struct {
	PatientID string
	SessionID string
	Type      string // before | after | in-progress
}
