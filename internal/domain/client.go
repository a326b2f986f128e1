package domain

// Client is a clinic account (one tenant), keyed by its unique subdomain.
// Aligns with the hosted `clients` table.
type Client struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Subdomain      string   `json:"subdomain"`
	Logo           string   `json:"logo,omitempty"`
	Plan           string   `json:"plan"`   // basic | professional | enterprise | trial
	Status         string   `json:"status"` // active | inactive | trial | suspended
	CreatedAt      string   `json:"created_at"`
	ExpiresAt      string   `json:"expires_at,omitempty"`
	ContactName    string   `json:"contact_name,omitempty"`
	ContactEmail   string   `json:"contact_email,omitempty"`
	ContactPhone   string   `json:"contact_phone,omitempty"`
	ModulesEnabled []string `json:"modules_enabled"`
	// RolePermissions maps a role name to its permission list, managed by
	// the platform operator per clinic.
	RolePermissions map[string][]string `json:"role_permissions,omitempty"`
	APIUsage        int                 `json:"api_usage"`
	ActiveUsers     int                 `json:"active_users"`
	MaxUsers        int                 `json:"max_users,omitempty"`
	MaxStorageMB    int                 `json:"max_storage_mb,omitempty"`
	LastLogin       string              `json:"last_login,omitempty"`
}

// HasModule reports whether the named feature module is enabled.
func (c *Client) HasModule(name string) bool {
	for _, m := range c.ModulesEnabled {
		if m == name {
			return true
		}
	}
	return false
}

// ClientBranch is a physical location belonging to a clinic.
type ClientBranch struct {
	ID        string `json:"id"`
	ClientID  string `json:"client_id"`
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	IsMain    bool   `json:"is_main"`
	CreatedAt string `json:"created_at"`
}
