package httpapi

import (
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"hospverse-api/internal/domain"
	"hospverse-api/internal/repository"
)

// TenantResolver maps the request Host to a clinic before routing.
// skinova.hospverse.com resolves the clinic whose subdomain is "skinova".
type TenantResolver struct {
	clients    repository.ClientsRepository
	logs       repository.LogsRepository
	baseDomain string
	env        string
	logger     *zap.Logger
}

func NewTenantResolver(clients repository.ClientsRepository, logs repository.LogsRepository, baseDomain, env string, logger *zap.Logger) *TenantResolver {
	return &TenantResolver{
		clients:    clients,
		logs:       logs,
		baseDomain: baseDomain,
		env:        env,
		logger:     logger,
	}
}

// Middleware attaches a TenantContext to every request. Resolution failures
// are not errors here; gated endpoints answer 404 for an unresolved tenant.
// Super-admin endpoints operate across clinics and skip resolution.
func (t *TenantResolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/super-admin") ||
			r.URL.Path == "/metrics" || r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		sub := t.subdomain(r)
		tc := TenantContext{Subdomain: sub}
		if sub != "" {
			client, err := t.clients.GetClientBySubdomain(r.Context(), sub)
			if err != nil {
				t.logger.Warn("tenant resolution failed",
					zap.String("subdomain", sub), zap.Error(err))
			} else {
				tc.Client = client
				t.recordUsage(r, client)
			}
		}

		next.ServeHTTP(w, r.WithContext(withTenant(r.Context(), tc)))
	})
}

// subdomain extracts the first Host label. Local development has no
// wildcard DNS, so a ?tenant= query override stands in for the subdomain.
func (t *TenantResolver) subdomain(r *http.Request) string {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	local := host == "localhost" || host == "127.0.0.1"
	if local || t.env != "production" {
		if sub := r.URL.Query().Get("tenant"); sub != "" {
			return sub
		}
		if local {
			return ""
		}
	}

	sub, ok := strings.CutSuffix(host, "."+t.baseDomain)
	if ok && !strings.Contains(sub, ".") {
		return sub
	}
	// Unknown domain shape, fall back to the first label.
	if i := strings.Index(host, "."); i > 0 {
		return host[:i]
	}
	return ""
}

// recordUsage bumps the clinic's api_usage counter and appends a usage log
// row. Both are best effort, a failed write never blocks the request.
func (t *TenantResolver) recordUsage(r *http.Request, client *domain.Client) {
	ctx := r.Context()
	if err := t.clients.IncrementAPIUsage(ctx, client.ID); err != nil {
		t.logger.Warn("api usage increment failed", zap.Error(err))
	}
	log := &domain.UsageLog{
		ClientID:  client.ID,
		Timestamp: nowRFC3339(),
		Endpoint:  r.URL.Path,
		Method:    r.Method,
		IPAddress: remoteIP(r),
	}
	if err := t.logs.CreateUsageLog(ctx, log); err != nil {
		t.logger.Warn("usage log write failed", zap.Error(err))
	}
}

func remoteIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.Index(fwd, ","); i > 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
