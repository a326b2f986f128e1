package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// MemoryLogsRepo is the dev/test fallback for the three log streams.
type MemoryLogsRepo struct {
	mu       sync.RWMutex
	activity []domain.ActivityLog
	usage    []domain.UsageLog
	system   []domain.SystemLog
}

func NewMemoryLogsRepo() *MemoryLogsRepo {
	return &MemoryLogsRepo{}
}

var _ LogsRepository = (*MemoryLogsRepo)(nil)

func (r *MemoryLogsRepo) ListActivityLogs(_ context.Context, clientID string, limit int) ([]*domain.ActivityLog, error) {
	if limit <= 0 {
		limit = 100
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	logs := []*domain.ActivityLog{}
	for _, l := range r.activity {
		if l.ClientID != clientID {
			continue
		}
		out := l
		logs = append(logs, &out)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Timestamp > logs[j].Timestamp })
	if len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

func (r *MemoryLogsRepo) CreateActivityLog(_ context.Context, log *domain.ActivityLog) error {
	if log == nil || log.ClientID == "" {
		return fmt.Errorf("client_id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	r.activity = append(r.activity, *log)
	return nil
}

func (r *MemoryLogsRepo) ListUsageLogs(_ context.Context, clientID string, limit int) ([]*domain.UsageLog, error) {
	if limit <= 0 {
		limit = 100
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	logs := []*domain.UsageLog{}
	for _, l := range r.usage {
		if l.ClientID != clientID {
			continue
		}
		out := l
		logs = append(logs, &out)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Timestamp > logs[j].Timestamp })
	if len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

func (r *MemoryLogsRepo) CreateUsageLog(_ context.Context, log *domain.UsageLog) error {
	if log == nil || log.ClientID == "" {
		return fmt.Errorf("client_id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	r.usage = append(r.usage, *log)
	return nil
}

func (r *MemoryLogsRepo) CountUsageLogsSince(_ context.Context, since string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, l := range r.usage {
		if l.Timestamp >= since {
			count++
		}
	}
	return count, nil
}

func (r *MemoryLogsRepo) ListSystemLogs(_ context.Context, clientID, logType string, limit int) ([]*domain.SystemLog, error) {
	if limit <= 0 {
		limit = 100
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	logs := []*domain.SystemLog{}
	for _, l := range r.system {
		if clientID != "" && l.ClientID != clientID {
			continue
		}
		if logType != "" && l.Type != logType {
			continue
		}
		out := l
		logs = append(logs, &out)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Timestamp > logs[j].Timestamp })
	if len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

func (r *MemoryLogsRepo) CreateSystemLog(_ context.Context, log *domain.SystemLog) error {
	if log == nil {
		return fmt.Errorf("log is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	r.system = append(r.system, *log)
	return nil
}
