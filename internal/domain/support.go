package domain

// SupportTicket is a platform-level ticket raised by a clinic.
type SupportTicket struct {
	ID           string `json:"id"`
	ClientID     string `json:"client_id"`
	ClientName   string `json:"client_name,omitempty"`
	Subject      string `json:"subject"`
	Description  string `json:"description,omitempty"`
	Status       string `json:"status"`   // open | in-progress | resolved | closed
	Priority     string `json:"priority"` // low | medium | high | critical
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
	AssignedTo   string `json:"assigned_to,omitempty"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
}

// TicketMessage is one message on a support ticket thread.
type TicketMessage struct {
	ID         string `json:"id"`
	TicketID   string `json:"ticket_id"`
	Message    string `json:"message"`
	Sender     string `json:"sender"` // client | support
	SenderName string `json:"sender_name"`
	Timestamp  string `json:"timestamp"`
}
