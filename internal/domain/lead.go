package domain

// LeadStatusEntry is one append-only status_history element.
type LeadStatusEntry struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	ChangedBy string `json:"changed_by"`
	ChangedAt string `json:"changed_at"`
	Notes     string `json:"notes,omitempty"`
}

// LeadNoteEntry is one append-only notes_history element.
type LeadNoteEntry struct {
	ID      string `json:"id"`
	Note    string `json:"note"`
	AddedBy string `json:"added_by,omitempty"`
	AddedAt string `json:"added_at"`
}

// Lead is a prospective patient tracked through the funnel
// new -> contacted -> consulted -> converted/dropped.
// History arrays are mutated by read-modify-write on the whole record.
type Lead struct {
	ID            string            `json:"id"`
	ClientID      string            `json:"client_id"`
	FullName      string            `json:"full_name"`
	Mobile        string            `json:"mobile,omitempty"`
	Email         string            `json:"email,omitempty"`
	Source        string            `json:"source,omitempty"` // whatsapp | form | walk-in | instagram | ...
	Status        string            `json:"status"`
	AssignedTo    string            `json:"assigned_to,omitempty"`
	AssignedToID  string            `json:"assigned_to_id,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	CreatedAt     string            `json:"created_at"`
	UpdatedAt     string            `json:"updated_at"`
	ConvertedAt   string            `json:"converted_at,omitempty"`
	DropReason    string            `json:"drop_reason,omitempty"`
	StatusHistory []LeadStatusEntry `json:"status_history"`
	NotesHistory  []LeadNoteEntry   `json:"notes_history"`
}

// ConvertedLead links a converted lead to the patient record it produced.
type ConvertedLead struct {
	ID          string `json:"id"`
	ClientID    string `json:"client_id"`
	LeadID      string `json:"lead_id"`
	PatientID   string `json:"patient_id"`
	FullName    string `json:"full_name"`
	Mobile      string `json:"mobile,omitempty"`
	Email       string `json:"email,omitempty"`
	ConvertedAt string `json:"converted_at"`
	ConvertedBy string `json:"converted_by,omitempty"`
	Source      string `json:"source,omitempty"`
}
