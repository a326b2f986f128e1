package domain

// ActivityLog is a per-clinic audit entry shown on the admin dashboard.
type ActivityLog struct {
	ID         string `json:"id"`
	ClientID   string `json:"client_id"`
	Timestamp  string `json:"timestamp"`
	User       string `json:"user,omitempty"`
	UserRole   string `json:"user_role,omitempty"`
	Module     string `json:"module,omitempty"`
	Action     string `json:"action,omitempty"`
	ActionType string `json:"action_type,omitempty"`
	IPAddress  string `json:"ip_address,omitempty"`
	Details    string `json:"details,omitempty"`
}

// UsageLog is one API hit recorded against a clinic.
type UsageLog struct {
	ID        string `json:"id"`
	ClientID  string `json:"client_id"`
	Timestamp string `json:"timestamp"`
	Endpoint  string `json:"endpoint,omitempty"`
	Method    string `json:"method,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
	Status    int    `json:"status,omitempty"`
}

// SystemLog is a platform-wide event, optionally tied to a clinic.
type SystemLog struct {
	ID         string `json:"id"`
	ClientID   string `json:"client_id,omitempty"`
	ClientName string `json:"client_name,omitempty"`
	Timestamp  string `json:"timestamp"`
	Type       string `json:"type"` // api | error | auth | module
	Action     string `json:"action"`
	Details    string `json:"details,omitempty"`
	IPAddress  string `json:"ip_address,omitempty"`
}
