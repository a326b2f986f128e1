package httpapi

import (
	"context"

	"hospverse-api/internal/domain"
)

type ctxKey int

const (
	tenantCtxKey ctxKey = iota
	identityCtxKey
)

// TenantContext is attached to every request by the tenant resolver. A zero
// value (nil Client) means the Host did not map to a known clinic; module
// gates turn that into a 404.
type TenantContext struct {
	Subdomain string
	Client    *domain.Client
}

func (tc TenantContext) Resolved() bool { return tc.Client != nil }

// ClientID is the clinic id all row lookups are scoped by.
func (tc TenantContext) ClientID() string {
	if tc.Client == nil {
		return ""
	}
	return tc.Client.ID
}

func withTenant(ctx context.Context, tc TenantContext) context.Context {
	return context.WithValue(ctx, tenantCtxKey, tc)
}

// tenantFrom returns the TenantContext attached by the resolver, or the
// zero value when the middleware did not run (tenant-exempt paths).
func tenantFrom(ctx context.Context) TenantContext {
	tc, _ := ctx.Value(tenantCtxKey).(TenantContext)
	return tc
}

func withIdentity(ctx context.Context, p *domain.UserProfile) context.Context {
	return context.WithValue(ctx, identityCtxKey, p)
}

// identityFrom returns the verified caller profile set by the role gate,
// or nil on endpoints that only check the module gate.
func identityFrom(ctx context.Context) *domain.UserProfile {
	p, _ := ctx.Value(identityCtxKey).(*domain.UserProfile)
	return p
}
