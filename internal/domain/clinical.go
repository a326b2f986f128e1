package domain

// SOAPNote is a clinical note with draft/submitted status, authored by a
// doctor. Aligns with the hosted `soap_notes` table.
type SOAPNote struct {
	ID            string `json:"id"`
	ClientID      string `json:"client_id"`
	PatientID     string `json:"patient_id"`
	AppointmentID string `json:"appointment_id,omitempty"`
	Subjective    string `json:"subjective,omitempty"`
	Objective     string `json:"objective,omitempty"`
	Assessment    string `json:"assessment,omitempty"`
	Plan          string `json:"plan,omitempty"`
	Status        string `json:"status"` // draft | submitted
	CreatedAt     string `json:"created_at"`
}

// TreatmentRecord is one row of a patient's visit history.
type TreatmentRecord struct {
	ID            string `json:"id"`
	ClientID      string `json:"client_id"`
	PatientID     string `json:"patient_id"`
	Procedure     string `json:"procedure"`
	Date          string `json:"date"`
	Status        string `json:"status,omitempty"`
	PerformedBy   string `json:"performed_by,omitempty"`
	PerformedByID string `json:"performed_by_id,omitempty"`
	Notes         string `json:"notes,omitempty"`
}
