package domain

// PhotoSession groups a patient's before/after photos for one procedure.
// Counters are bumped by upload/delete handlers, read-modify-write.
type PhotoSession struct {
	ID              string `json:"id"`
	ClientID        string `json:"client_id"`
	PatientID       string `json:"patient_id"`
	PatientName     string `json:"patient_name,omitempty"`
	Date            string `json:"date"`
	Procedure       string `json:"procedure,omitempty"`
	DoctorID        string `json:"doctor_id,omitempty"`
	DoctorName      string `json:"doctor_name,omitempty"`
	BeforeCount     int    `json:"before_count"`
	AfterCount      int    `json:"after_count"`
	InProgressCount int    `json:"in_progress_count"`
}

// PatientPhoto is one stored photo record; the image lives in external
// storage and is referenced by URL only.
type PatientPhoto struct {
	ID           string `json:"id"`
	ClientID     string `json:"client_id"`
	PatientID    string `json:"patient_id"`
	PatientName  string `json:"patient_name,omitempty"`
	SessionID    string `json:"session_id"`
	SessionDate  string `json:"session_date,omitempty"`
	Type         string `json:"type"` // before | after | in-progress
	ImageURL     string `json:"image_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	FileName     string `json:"file_name,omitempty"`
	FileSize     int64  `json:"file_size,omitempty"`
	UploadedBy   string `json:"uploaded_by,omitempty"`
	UploadedAt   string `json:"uploaded_at"`
	Notes        string `json:"notes,omitempty"`
	DoctorID     string `json:"doctor_id,omitempty"`
	DoctorName   string `json:"doctor_name,omitempty"`
}
