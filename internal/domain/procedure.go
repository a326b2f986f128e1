package domain

// Procedure is a technician work item assigned by a doctor.
// Aligns with the hosted `procedures` table.
type Procedure struct {
	ID              string `json:"id"`
	ClientID        string `json:"client_id"`
	PatientID       string `json:"patient_id"`
	PatientName     string `json:"patient_name"`
	PatientAge      int    `json:"patient_age,omitempty"`
	PatientPhone    string `json:"patient_phone,omitempty"`
	Procedure       string `json:"procedure"`
	Duration        int    `json:"duration"` // planned minutes
	AssignedBy      string `json:"assigned_by"`
	AssignedByID    string `json:"assigned_by_id,omitempty"`
	ScheduledTime   string `json:"scheduled_time"` // HH:MM
	Status          string `json:"status"`         // pending | in-progress | completed
	Notes           string `json:"notes,omitempty"`
	AssignedAt      string `json:"assigned_at"`
	Date            string `json:"date"` // YYYY-MM-DD
	StartTime       string `json:"start_time,omitempty"`
	EndTime         string `json:"end_time,omitempty"`
	CompletionNotes string `json:"completion_notes,omitempty"`
	ActualDuration  int    `json:"actual_duration,omitempty"`
}

// SessionHistoryEntry is the append-only record written when a technician
// completes a procedure session.
type SessionHistoryEntry struct {
	ID          string `json:"id"`
	ClientID    string `json:"client_id"`
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	Procedure   string `json:"procedure"`
	Duration    int    `json:"duration"`
	AssignedBy  string `json:"assigned_by,omitempty"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
	Status      string `json:"status"`
	Notes       string `json:"notes,omitempty"`
}

// TechnicianAssignment is a doctor-to-technician handoff record.
type TechnicianAssignment struct {
	ID           string `json:"id"`
	ClientID     string `json:"client_id"`
	PatientID    string `json:"patient_id,omitempty"`
	PatientName  string `json:"patient_name,omitempty"`
	TechnicianID string `json:"technician_id,omitempty"`
	Procedure    string `json:"procedure,omitempty"`
	Notes        string `json:"notes,omitempty"`
	Status       string `json:"status"`
	AssignedAt   string `json:"assigned_at"`
}
