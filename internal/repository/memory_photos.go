package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// MemoryPhotosRepo is the dev/test fallback for photo sessions and
// patient photos.
type MemoryPhotosRepo struct {
	mu       sync.RWMutex
	sessions map[string]domain.PhotoSession
	photos   map[string]domain.PatientPhoto
}

func NewMemoryPhotosRepo() *MemoryPhotosRepo {
	return &MemoryPhotosRepo{
		sessions: map[string]domain.PhotoSession{},
		photos:   map[string]domain.PatientPhoto{},
	}
}

var _ PhotosRepository = (*MemoryPhotosRepo)(nil)

func (r *MemoryPhotosRepo) ListSessions(_ context.Context, clientID, patientID string) ([]*domain.PhotoSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessions := []*domain.PhotoSession{}
	for _, s := range r.sessions {
		if s.ClientID != clientID {
			continue
		}
		if patientID != "" && s.PatientID != patientID {
			continue
		}
		out := s
		sessions = append(sessions, &out)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Date > sessions[j].Date })
	return sessions, nil
}

func (r *MemoryPhotosRepo) GetSession(_ context.Context, clientID, id string) (*domain.PhotoSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok || s.ClientID != clientID {
		return nil, fmt.Errorf("photo session not found: id '%s' %w", id, ErrNotFound)
	}
	out := s
	return &out, nil
}

func (r *MemoryPhotosRepo) CreateSession(_ context.Context, s *domain.PhotoSession) (*domain.PhotoSession, error) {
	if s == nil || s.ClientID == "" || s.PatientID == "" {
		return nil, fmt.Errorf("client_id and patient_id are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	r.sessions[s.ID] = *s
	return s, nil
}

func (r *MemoryPhotosRepo) UpdateSession(_ context.Context, s *domain.PhotoSession) error {
	if s == nil || s.ID == "" {
		return fmt.Errorf("photo session id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.sessions[s.ID]
	if !ok || existing.ClientID != s.ClientID {
		return fmt.Errorf("photo session not found: id '%s' %w", s.ID, ErrNotFound)
	}
	r.sessions[s.ID] = *s
	return nil
}

func (r *MemoryPhotosRepo) DeleteSession(_ context.Context, clientID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.ClientID != clientID {
		return fmt.Errorf("photo session not found: id '%s' %w", id, ErrNotFound)
	}
	delete(r.sessions, id)
	return nil
}

func (r *MemoryPhotosRepo) ListPhotos(_ context.Context, clientID string, filter PhotoFilters) ([]*domain.PatientPhoto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	photos := []*domain.PatientPhoto{}
	for _, p := range r.photos {
		if p.ClientID != clientID {
			continue
		}
		if filter.PatientID != "" && p.PatientID != filter.PatientID {
			continue
		}
		if filter.SessionID != "" && p.SessionID != filter.SessionID {
			continue
		}
		if filter.Type != "" && p.Type != filter.Type {
			continue
		}
		out := p
		photos = append(photos, &out)
	}
	sort.Slice(photos, func(i, j int) bool { return photos[i].UploadedAt > photos[j].UploadedAt })
	return photos, nil
}

func (r *MemoryPhotosRepo) GetPhoto(_ context.Context, clientID, id string) (*domain.PatientPhoto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.photos[id]
	if !ok || p.ClientID != clientID {
		return nil, fmt.Errorf("photo not found: id '%s' %w", id, ErrNotFound)
	}
	out := p
	return &out, nil
}

func (r *MemoryPhotosRepo) CreatePhoto(_ context.Context, p *domain.PatientPhoto) (*domain.PatientPhoto, error) {
	if p == nil || p.ClientID == "" || p.PatientID == "" {
		return nil, fmt.Errorf("client_id and patient_id are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	r.photos[p.ID] = *p
	return p, nil
}

func (r *MemoryPhotosRepo) DeletePhoto(_ context.Context, clientID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.photos[id]
	if !ok || p.ClientID != clientID {
		return fmt.Errorf("photo not found: id '%s' %w", id, ErrNotFound)
	}
	delete(r.photos, id)
	return nil
}
