package domain

// Patient aligns with the hosted `patients` table. Registered at reception.
type Patient struct {
	ID              string `json:"id"`
	ClientID        string `json:"client_id"`
	FullName        string `json:"full_name"`
	Mobile          string `json:"mobile,omitempty"`
	Email           string `json:"email,omitempty"`
	Gender          string `json:"gender,omitempty"`
	DateOfBirth     string `json:"date_of_birth,omitempty"`
	AppointmentType string `json:"appointment_type,omitempty"` // new | follow-up
	ReferredBy      string `json:"referred_by,omitempty"`
	ClinicBranch    string `json:"clinic_branch,omitempty"`
	RegisteredAt    string `json:"registered_at"`
}

// ConsentForm is the stored record of a signed consent upload. The file
// itself lives in external storage; only metadata is kept here.
type ConsentForm struct {
	ID          string `json:"id"`
	ClientID    string `json:"client_id"`
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	FileType    string `json:"file_type,omitempty"`
	FileName    string `json:"file_name,omitempty"`
	Signature   string `json:"signature,omitempty"`
	UploadedAt  string `json:"uploaded_at"`
}
