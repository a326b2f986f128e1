package repository

import (
	"context"

	"hospverse-api/internal/domain"
)

// PatientsRepository is per-clinic patient master data plus consent-form
// metadata. Every query is scoped by client_id.
type PatientsRepository interface {
	ListPatients(ctx context.Context, clientID string, filter PatientFilters) ([]*domain.Patient, error)
	GetPatient(ctx context.Context, clientID, id string) (*domain.Patient, error)
	CreatePatient(ctx context.Context, patient *domain.Patient) (*domain.Patient, error)

	ListConsentForms(ctx context.Context, clientID, patientID string) ([]*domain.ConsentForm, error)
	CreateConsentForm(ctx context.Context, form *domain.ConsentForm) (*domain.ConsentForm, error)
}

// PatientFilters narrows ListPatients.
type PatientFilters struct {
	Search string // name or mobile, case-insensitive substring
	Branch string
}
