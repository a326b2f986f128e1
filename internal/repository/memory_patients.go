package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// MemoryPatientsRepo is the dev/test fallback for patient data.
type MemoryPatientsRepo struct {
	mu       sync.RWMutex
	patients map[string]domain.Patient
	consents map[string]domain.ConsentForm
}

func NewMemoryPatientsRepo() *MemoryPatientsRepo {
	return &MemoryPatientsRepo{
		patients: map[string]domain.Patient{},
		consents: map[string]domain.ConsentForm{},
	}
}

var _ PatientsRepository = (*MemoryPatientsRepo)(nil)

func (r *MemoryPatientsRepo) ListPatients(_ context.Context, clientID string, filter PatientFilters) ([]*domain.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	patients := []*domain.Patient{}
	for _, p := range r.patients {
		if p.ClientID != clientID {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(p.FullName), needle) &&
				!strings.Contains(p.Mobile, filter.Search) {
				continue
			}
		}
		if filter.Branch != "" && p.ClinicBranch != filter.Branch {
			continue
		}
		out := p
		patients = append(patients, &out)
	}
	sort.Slice(patients, func(i, j int) bool { return patients[i].RegisteredAt > patients[j].RegisteredAt })
	return patients, nil
}

func (r *MemoryPatientsRepo) GetPatient(_ context.Context, clientID, id string) (*domain.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.patients[id]
	if !ok || p.ClientID != clientID {
		return nil, fmt.Errorf("patient not found: id '%s' %w", id, ErrNotFound)
	}
	out := p
	return &out, nil
}

func (r *MemoryPatientsRepo) CreatePatient(_ context.Context, patient *domain.Patient) (*domain.Patient, error) {
	if patient == nil || patient.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	if patient.FullName == "" {
		return nil, fmt.Errorf("full_name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if patient.ID == "" {
		patient.ID = uuid.NewString()
	}
	r.patients[patient.ID] = *patient
	return patient, nil
}

func (r *MemoryPatientsRepo) ListConsentForms(_ context.Context, clientID, patientID string) ([]*domain.ConsentForm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	forms := []*domain.ConsentForm{}
	for _, f := range r.consents {
		if f.ClientID != clientID {
			continue
		}
		if patientID != "" && f.PatientID != patientID {
			continue
		}
		out := f
		forms = append(forms, &out)
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i].UploadedAt > forms[j].UploadedAt })
	return forms, nil
}

func (r *MemoryPatientsRepo) CreateConsentForm(_ context.Context, form *domain.ConsentForm) (*domain.ConsentForm, error) {
	if form == nil || form.ClientID == "" || form.PatientID == "" {
		return nil, fmt.Errorf("client_id and patient_id are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if form.ID == "" {
		form.ID = uuid.NewString()
	}
	r.consents[form.ID] = *form
	return form, nil
}
