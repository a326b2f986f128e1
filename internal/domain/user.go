package domain

// UserProfile links an auth-provider identity to a clinic and a role.
// Aligns with the hosted `user_profiles` table.
type UserProfile struct {
	ID         string `json:"id"`
	AuthUserID string `json:"auth_user_id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role"` // admin | super_admin | doctor | technician | receptionist | crm roles...
	ClientID   string `json:"client_id,omitempty"`
	IsActive   bool   `json:"is_active"`
}
