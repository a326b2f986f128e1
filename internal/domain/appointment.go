package domain

// Appointment aligns with the hosted `appointments` table. Doctor name is
// denormalized from staff at booking time.
type Appointment struct {
	ID           string `json:"id"`
	ClientID     string `json:"client_id"`
	PatientID    string `json:"patient_id,omitempty"`
	PatientName  string `json:"patient_name"`
	PatientPhone string `json:"patient_phone,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Age          int    `json:"age,omitempty"`
	DoctorID     string `json:"doctor_id"`
	DoctorName   string `json:"doctor_name"`
	Date         string `json:"date"`   // YYYY-MM-DD
	Time         string `json:"time"`   // HH:MM
	Status       string `json:"status"` // confirmed | waiting | completed | cancelled
	Type         string `json:"type,omitempty"`
	Notes        string `json:"notes,omitempty"`
	BookedAt     string `json:"booked_at,omitempty"`
}

// QueueEntry is one checked-in patient awaiting service at reception.
type QueueEntry struct {
	ID          string `json:"id"`
	ClientID    string `json:"client_id"`
	PatientID   string `json:"patient_id,omitempty"`
	PatientName string `json:"patient_name"`
	DoctorName  string `json:"doctor_name,omitempty"`
	QueueNumber int    `json:"queue_number"`
	Status      string `json:"status"` // waiting | in-consultation | completed
	CheckedInAt string `json:"checked_in_at"`
}
