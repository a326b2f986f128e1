package repository

import (
	"context"

	"hospverse-api/internal/domain"
)

// ClinicalRepository covers SOAP notes and treatment records.
type ClinicalRepository interface {
	ListSOAPNotes(ctx context.Context, clientID, patientID string) ([]*domain.SOAPNote, error)
	GetSOAPNote(ctx context.Context, clientID, id string) (*domain.SOAPNote, error)
	CreateSOAPNote(ctx context.Context, note *domain.SOAPNote) (*domain.SOAPNote, error)

	ListTreatmentRecords(ctx context.Context, clientID, patientID string) ([]*domain.TreatmentRecord, error)
	CreateTreatmentRecord(ctx context.Context, rec *domain.TreatmentRecord) (*domain.TreatmentRecord, error)
}
