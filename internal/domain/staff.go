package domain

import "encoding/json"

// Staff aligns with the hosted `staff` table. Personal and employment
// details are free-form documents owned by the HR frontend.
type Staff struct {
	ID                string          `json:"id"`
	ClientID          string          `json:"client_id"`
	Name              string          `json:"name"`
	Role              string          `json:"role"` // doctor | technician | receptionist | ...
	Department        string          `json:"department,omitempty"`
	Branch            string          `json:"branch,omitempty"`
	Email             string          `json:"email,omitempty"`
	Phone             string          `json:"phone,omitempty"`
	JoinDate          string          `json:"join_date,omitempty"`
	Status            string          `json:"status"` // active | inactive
	Avatar            string          `json:"avatar,omitempty"`
	Specialization    string          `json:"specialization,omitempty"`
	Available         bool            `json:"available"`
	PersonalDetails   json.RawMessage `json:"personal_details,omitempty"`
	EmploymentDetails json.RawMessage `json:"employment_details,omitempty"`
}

// StaffDocument is an uploaded-document record (metadata only).
type StaffDocument struct {
	ID         string `json:"id"`
	ClientID   string `json:"client_id"`
	StaffID    string `json:"staff_id"`
	Type       string `json:"type"`
	Name       string `json:"name"`
	FileName   string `json:"file_name,omitempty"`
	FileType   string `json:"file_type,omitempty"`
	UploadedAt string `json:"uploaded_at"`
	ExpiryDate string `json:"expiry_date,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// Shift aligns with the hosted `shifts` table.
type Shift struct {
	ID        string `json:"id"`
	ClientID  string `json:"client_id"`
	StaffID   string `json:"staff_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"` // scheduled | completed | missed
}

// PerformanceNote is an HR note against a staff member.
type PerformanceNote struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
	StaffID  string `json:"staff_id"`
	Note     string `json:"note,omitempty"`
	Rating   int    `json:"rating,omitempty"`
	AddedBy  string `json:"added_by,omitempty"`
	AddedAt  string `json:"added_at,omitempty"`
}

// SalaryStructure aligns with the hosted `salary_structures` table.
type SalaryStructure struct {
	ID          string  `json:"id"`
	ClientID    string  `json:"client_id"`
	StaffID     string  `json:"staff_id"`
	BasicSalary float64 `json:"basic_salary"`
	Allowances  float64 `json:"allowances"`
	Deductions  float64 `json:"deductions"`
}

// AttendanceRecord is one day of attendance for a staff member.
type AttendanceRecord struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
	StaffID  string `json:"staff_id"`
	Date     string `json:"date"`   // YYYY-MM-DD
	Status   string `json:"status"` // present | absent | leave | half-day
	CheckIn  string `json:"check_in,omitempty"`
	CheckOut string `json:"check_out,omitempty"`
}
