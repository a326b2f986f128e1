package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// PostgresLogsRepository implements LogsRepository over activity_logs,
// usage_logs and system_logs.
type PostgresLogsRepository struct {
	db *sql.DB
}

func NewPostgresLogsRepository(db *sql.DB) *PostgresLogsRepository {
	return &PostgresLogsRepository{db: db}
}

var _ LogsRepository = (*PostgresLogsRepository)(nil)

func (r *PostgresLogsRepository) ListActivityLogs(ctx context.Context, clientID string, limit int) ([]*domain.ActivityLog, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT
			id, client_id,
			COALESCE(timestamp::text, '') AS timestamp,
			COALESCE("user", '') AS "user",
			COALESCE(user_role, '') AS user_role,
			COALESCE(module, '') AS module,
			COALESCE(action, '') AS action,
			COALESCE(action_type, '') AS action_type,
			COALESCE(ip_address, '') AS ip_address,
			COALESCE(details, '') AS details
		FROM activity_logs
		WHERE client_id = $1
		ORDER BY timestamp DESC
		LIMIT $2`, clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}
	defer rows.Close()

	logs := []*domain.ActivityLog{}
	for rows.Next() {
		var l domain.ActivityLog
		if err := rows.Scan(&l.ID, &l.ClientID, &l.Timestamp, &l.User,
			&l.UserRole, &l.Module, &l.Action, &l.ActionType, &l.IPAddress,
			&l.Details); err != nil {
			return nil, fmt.Errorf("failed to scan activity log: %w", err)
		}
		logs = append(logs, &l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity logs: %w", err)
	}
	return logs, nil
}

func (r *PostgresLogsRepository) CreateActivityLog(ctx context.Context, log *domain.ActivityLog) error {
	if log == nil || log.ClientID == "" {
		return fmt.Errorf("client_id is required")
	}
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_logs (id, client_id, timestamp, "user", user_role, module, action, action_type, ip_address, details)
		 VALUES ($1, $2, NULLIF($3, '')::timestamptz, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''))`,
		log.ID, log.ClientID, log.Timestamp, log.User, log.UserRole,
		log.Module, log.Action, log.ActionType, log.IPAddress, log.Details,
	)
	if err != nil {
		return fmt.Errorf("failed to create activity log: %w", err)
	}
	return nil
}

func (r *PostgresLogsRepository) ListUsageLogs(ctx context.Context, clientID string, limit int) ([]*domain.UsageLog, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT
			id, client_id,
			COALESCE(timestamp::text, '') AS timestamp,
			COALESCE(endpoint, '') AS endpoint,
			COALESCE(method, '') AS method,
			COALESCE(ip_address, '') AS ip_address,
			COALESCE(status, 0) AS status
		FROM usage_logs
		WHERE client_id = $1
		ORDER BY timestamp DESC
		LIMIT $2`, clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage logs: %w", err)
	}
	defer rows.Close()

	logs := []*domain.UsageLog{}
	for rows.Next() {
		var l domain.UsageLog
		if err := rows.Scan(&l.ID, &l.ClientID, &l.Timestamp, &l.Endpoint,
			&l.Method, &l.IPAddress, &l.Status); err != nil {
			return nil, fmt.Errorf("failed to scan usage log: %w", err)
		}
		logs = append(logs, &l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate usage logs: %w", err)
	}
	return logs, nil
}

func (r *PostgresLogsRepository) CreateUsageLog(ctx context.Context, log *domain.UsageLog) error {
	if log == nil || log.ClientID == "" {
		return fmt.Errorf("client_id is required")
	}
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO usage_logs (id, client_id, timestamp, endpoint, method, ip_address, status)
		 VALUES ($1, $2, NULLIF($3, '')::timestamptz, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7)`,
		log.ID, log.ClientID, log.Timestamp, log.Endpoint, log.Method,
		log.IPAddress, log.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create usage log: %w", err)
	}
	return nil
}

func (r *PostgresLogsRepository) CountUsageLogsSince(ctx context.Context, since string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM usage_logs WHERE timestamp >= $1::timestamptz`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count usage logs: %w", err)
	}
	return count, nil
}

func (r *PostgresLogsRepository) ListSystemLogs(ctx context.Context, clientID, logType string, limit int) ([]*domain.SystemLog, error) {
	if limit <= 0 {
		limit = 100
	}
	where := []string{}
	args := []any{}
	argIdx := 1

	if clientID != "" {
		where = append(where, fmt.Sprintf("client_id = $%d", argIdx))
		args = append(args, clientID)
		argIdx++
	}
	if logType != "" {
		where = append(where, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, logType)
		argIdx++
	}
	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT
			id,
			COALESCE(client_id, '') AS client_id,
			COALESCE(client_name, '') AS client_name,
			COALESCE(timestamp::text, '') AS timestamp,
			COALESCE(type, '') AS type,
			COALESCE(action, '') AS action,
			COALESCE(details, '') AS details,
			COALESCE(ip_address, '') AS ip_address
		FROM system_logs
		%s
		ORDER BY timestamp DESC
		LIMIT $%d`, whereClause, argIdx)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list system logs: %w", err)
	}
	defer rows.Close()

	logs := []*domain.SystemLog{}
	for rows.Next() {
		var l domain.SystemLog
		if err := rows.Scan(&l.ID, &l.ClientID, &l.ClientName, &l.Timestamp,
			&l.Type, &l.Action, &l.Details, &l.IPAddress); err != nil {
			return nil, fmt.Errorf("failed to scan system log: %w", err)
		}
		logs = append(logs, &l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate system logs: %w", err)
	}
	return logs, nil
}

func (r *PostgresLogsRepository) CreateSystemLog(ctx context.Context, log *domain.SystemLog) error {
	if log == nil {
		return fmt.Errorf("log is required")
	}
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO system_logs (id, client_id, client_name, timestamp, type, action, details, ip_address)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, '')::timestamptz, $5, $6, NULLIF($7, ''), NULLIF($8, ''))`,
		log.ID, log.ClientID, log.ClientName, log.Timestamp, log.Type,
		log.Action, log.Details, log.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("failed to create system log: %w", err)
	}
	return nil
}
