package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// PostgresClientsRepository implements ClientsRepository over the clients
// and client_branches tables.
type PostgresClientsRepository struct {
	db *sql.DB
}

func NewPostgresClientsRepository(db *sql.DB) *PostgresClientsRepository {
	return &PostgresClientsRepository{db: db}
}

var _ ClientsRepository = (*PostgresClientsRepository)(nil)

const clientColumns = `
	id,
	name,
	COALESCE(subdomain, '') AS subdomain,
	COALESCE(logo, '') AS logo,
	COALESCE(plan, 'basic') AS plan,
	COALESCE(status, 'active') AS status,
	COALESCE(created_at::text, '') AS created_at,
	COALESCE(expires_at::text, '') AS expires_at,
	COALESCE(contact_name, '') AS contact_name,
	COALESCE(contact_email, '') AS contact_email,
	COALESCE(contact_phone, '') AS contact_phone,
	COALESCE(modules_enabled, '[]'::jsonb) AS modules_enabled,
	COALESCE(role_permissions, '{}'::jsonb) AS role_permissions,
	COALESCE(api_usage, 0) AS api_usage,
	COALESCE(active_users, 0) AS active_users,
	COALESCE(max_users, 0) AS max_users,
	COALESCE(max_storage_mb, 0) AS max_storage_mb,
	COALESCE(last_login::text, '') AS last_login`

func scanClient(row interface{ Scan(...any) error }) (*domain.Client, error) {
	var c domain.Client
	var modulesRaw, rolesRaw []byte
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Subdomain,
		&c.Logo,
		&c.Plan,
		&c.Status,
		&c.CreatedAt,
		&c.ExpiresAt,
		&c.ContactName,
		&c.ContactEmail,
		&c.ContactPhone,
		&modulesRaw,
		&rolesRaw,
		&c.APIUsage,
		&c.ActiveUsers,
		&c.MaxUsers,
		&c.MaxStorageMB,
		&c.LastLogin,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(modulesRaw, &c.ModulesEnabled); err != nil {
		return nil, fmt.Errorf("failed to decode modules_enabled: %w", err)
	}
	if err := json.Unmarshal(rolesRaw, &c.RolePermissions); err != nil {
		return nil, fmt.Errorf("failed to decode role_permissions: %w", err)
	}
	return &c, nil
}

func (r *PostgresClientsRepository) GetClient(ctx context.Context, clientID string) (*domain.Client, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE id = $1`, clientColumns)
	c, err := scanClient(r.db.QueryRowContext(ctx, query, clientID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("client not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return c, nil
}

func (r *PostgresClientsRepository) GetClientBySubdomain(ctx context.Context, subdomain string) (*domain.Client, error) {
	if subdomain == "" {
		return nil, fmt.Errorf("subdomain is required")
	}
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE subdomain = $1`, clientColumns)
	c, err := scanClient(r.db.QueryRowContext(ctx, query, subdomain))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("client not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get client by subdomain: %w", err)
	}
	return c, nil
}

func (r *PostgresClientsRepository) ListClients(ctx context.Context, filter ClientFilters) ([]*domain.Client, error) {
	where := []string{}
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.Plan != "" {
		where = append(where, fmt.Sprintf("plan = $%d", argIdx))
		args = append(args, filter.Plan)
		argIdx++
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR subdomain ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	query := fmt.Sprintf(`SELECT %s FROM clients %s ORDER BY name`, clientColumns, whereClause)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []*domain.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clients: %w", err)
	}
	return clients, nil
}

func (r *PostgresClientsRepository) CreateClient(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	if client == nil {
		return nil, fmt.Errorf("client is required")
	}
	if client.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	if client.Status == "" {
		client.Status = "active"
	}
	if client.Plan == "" {
		client.Plan = "basic"
	}
	if client.ModulesEnabled == nil {
		client.ModulesEnabled = []string{}
	}

	modulesRaw, err := json.Marshal(client.ModulesEnabled)
	if err != nil {
		return nil, fmt.Errorf("failed to encode modules_enabled: %w", err)
	}
	rolesRaw, err := json.Marshal(client.RolePermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode role_permissions: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO clients (
			id, name, subdomain, logo, plan, status, created_at, expires_at,
			contact_name, contact_email, contact_phone, modules_enabled,
			role_permissions, api_usage, active_users, max_users, max_storage_mb
		) VALUES (
			$1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6,
			NULLIF($7, '')::timestamptz, NULLIF($8, '')::timestamptz,
			NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''),
			$12::jsonb, $13::jsonb, $14, $15, $16, $17
		)`,
		client.ID, client.Name, client.Subdomain, client.Logo, client.Plan,
		client.Status, client.CreatedAt, client.ExpiresAt, client.ContactName,
		client.ContactEmail, client.ContactPhone, string(modulesRaw),
		string(rolesRaw), client.APIUsage, client.ActiveUsers, client.MaxUsers,
		client.MaxStorageMB,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func (r *PostgresClientsRepository) UpdateClient(ctx context.Context, client *domain.Client) error {
	if client == nil || client.ID == "" {
		return fmt.Errorf("client id is required")
	}

	modulesRaw, err := json.Marshal(client.ModulesEnabled)
	if err != nil {
		return fmt.Errorf("failed to encode modules_enabled: %w", err)
	}
	rolesRaw, err := json.Marshal(client.RolePermissions)
	if err != nil {
		return fmt.Errorf("failed to encode role_permissions: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE clients SET
			name = $2,
			subdomain = NULLIF($3, ''),
			logo = NULLIF($4, ''),
			plan = $5,
			status = $6,
			expires_at = NULLIF($7, '')::timestamptz,
			contact_name = NULLIF($8, ''),
			contact_email = NULLIF($9, ''),
			contact_phone = NULLIF($10, ''),
			modules_enabled = $11::jsonb,
			role_permissions = $12::jsonb,
			api_usage = $13,
			active_users = $14,
			max_users = $15,
			max_storage_mb = $16,
			last_login = NULLIF($17, '')::timestamptz
		WHERE id = $1`,
		client.ID, client.Name, client.Subdomain, client.Logo, client.Plan,
		client.Status, client.ExpiresAt, client.ContactName, client.ContactEmail,
		client.ContactPhone, string(modulesRaw), string(rolesRaw),
		client.APIUsage, client.ActiveUsers, client.MaxUsers,
		client.MaxStorageMB, client.LastLogin,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("client not found: id '%s' %w", client.ID, ErrNotFound)
	}
	return nil
}

func (r *PostgresClientsRepository) SetClientStatus(ctx context.Context, clientID, status string) error {
	if clientID == "" {
		return fmt.Errorf("client_id is required")
	}
	if status == "" {
		return fmt.Errorf("status is required")
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE clients SET status = $2 WHERE id = $1`, clientID, status)
	if err != nil {
		return fmt.Errorf("failed to set client status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("client not found: id '%s' %w", clientID, ErrNotFound)
	}
	return nil
}

func (r *PostgresClientsRepository) IncrementAPIUsage(ctx context.Context, clientID string) error {
	if clientID == "" {
		return fmt.Errorf("client_id is required")
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE clients SET api_usage = COALESCE(api_usage, 0) + 1 WHERE id = $1`, clientID)
	if err != nil {
		return fmt.Errorf("failed to increment api usage: %w", err)
	}
	return nil
}

func (r *PostgresClientsRepository) ListBranches(ctx context.Context, clientID string) ([]*domain.ClientBranch, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT
			id, client_id, name,
			COALESCE(address, '') AS address,
			COALESCE(phone, '') AS phone,
			COALESCE(is_main, false) AS is_main,
			COALESCE(created_at::text, '') AS created_at
		FROM client_branches
		WHERE client_id = $1
		ORDER BY is_main DESC, name`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer rows.Close()

	branches := []*domain.ClientBranch{}
	for rows.Next() {
		var b domain.ClientBranch
		if err := rows.Scan(&b.ID, &b.ClientID, &b.Name, &b.Address, &b.Phone, &b.IsMain, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		branches = append(branches, &b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}
	return branches, nil
}

func (r *PostgresClientsRepository) CreateBranch(ctx context.Context, branch *domain.ClientBranch) (*domain.ClientBranch, error) {
	if branch == nil || branch.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	if branch.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if branch.ID == "" {
		branch.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO client_branches (id, client_id, name, address, phone, is_main, created_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, NULLIF($7, '')::timestamptz)`,
		branch.ID, branch.ClientID, branch.Name, branch.Address, branch.Phone,
		branch.IsMain, branch.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create branch: %w", err)
	}
	return branch, nil
}
