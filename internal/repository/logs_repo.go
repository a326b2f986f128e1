package repository

import (
	"context"

	"hospverse-api/internal/domain"
)

// LogsRepository covers the three log streams: per-clinic activity,
// per-clinic API usage, and platform-wide system events. Newest first.
type LogsRepository interface {
	ListActivityLogs(ctx context.Context, clientID string, limit int) ([]*domain.ActivityLog, error)
	CreateActivityLog(ctx context.Context, log *domain.ActivityLog) error

	ListUsageLogs(ctx context.Context, clientID string, limit int) ([]*domain.UsageLog, error)
	CreateUsageLog(ctx context.Context, log *domain.UsageLog) error
	// CountUsageLogsSince counts API hits across all clinics from the
	// given RFC3339 instant; feeds the platform stats dashboard.
	CountUsageLogsSince(ctx context.Context, since string) (int, error)

	// ListSystemLogs is platform-wide; clientID narrows when non-empty.
	ListSystemLogs(ctx context.Context, clientID, logType string, limit int) ([]*domain.SystemLog, error)
	CreateSystemLog(ctx context.Context, log *domain.SystemLog) error
}
