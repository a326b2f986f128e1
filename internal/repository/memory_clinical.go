package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// MemoryClinicalRepo is the dev/test fallback for SOAP notes and
// treatment records.
type MemoryClinicalRepo struct {
	mu         sync.RWMutex
	notes      map[string]domain.SOAPNote
	treatments map[string]domain.TreatmentRecord
}

func NewMemoryClinicalRepo() *MemoryClinicalRepo {
	return &MemoryClinicalRepo{
		notes:      map[string]domain.SOAPNote{},
		treatments: map[string]domain.TreatmentRecord{},
	}
}

var _ ClinicalRepository = (*MemoryClinicalRepo)(nil)

func (r *MemoryClinicalRepo) ListSOAPNotes(_ context.Context, clientID, patientID string) ([]*domain.SOAPNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	notes := []*domain.SOAPNote{}
	for _, n := range r.notes {
		if n.ClientID != clientID {
			continue
		}
		if patientID != "" && n.PatientID != patientID {
			continue
		}
		out := n
		notes = append(notes, &out)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].CreatedAt > notes[j].CreatedAt })
	return notes, nil
}

func (r *MemoryClinicalRepo) GetSOAPNote(_ context.Context, clientID, id string) (*domain.SOAPNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.notes[id]
	if !ok || n.ClientID != clientID {
		return nil, fmt.Errorf("soap note not found: id '%s' %w", id, ErrNotFound)
	}
	out := n
	return &out, nil
}

func (r *MemoryClinicalRepo) CreateSOAPNote(_ context.Context, note *domain.SOAPNote) (*domain.SOAPNote, error) {
	if note == nil || note.ClientID == "" || note.PatientID == "" {
		return nil, fmt.Errorf("client_id and patient_id are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	r.notes[note.ID] = *note
	return note, nil
}

func (r *MemoryClinicalRepo) ListTreatmentRecords(_ context.Context, clientID, patientID string) ([]*domain.TreatmentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := []*domain.TreatmentRecord{}
	for _, rec := range r.treatments {
		if rec.ClientID != clientID {
			continue
		}
		if patientID != "" && rec.PatientID != patientID {
			continue
		}
		out := rec
		records = append(records, &out)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date > records[j].Date })
	return records, nil
}

func (r *MemoryClinicalRepo) CreateTreatmentRecord(_ context.Context, rec *domain.TreatmentRecord) (*domain.TreatmentRecord, error) {
	if rec == nil || rec.ClientID == "" || rec.PatientID == "" {
		return nil, fmt.Errorf("client_id and patient_id are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	r.treatments[rec.ID] = *rec
	return rec, nil
}
