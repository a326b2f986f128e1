package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"hospverse-api/internal/authn"
	"hospverse-api/internal/domain"
	"hospverse-api/internal/repository"
	"hospverse-api/internal/store"
)

// Guard holds the access checks handlers compose per endpoint: the module
// gate (feature enabled for the clinic) and the role gate (verified caller
// with the required role).
type Guard struct {
	auth     authn.Client
	users    repository.UsersRepository
	cache    store.KV
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewGuard(auth authn.Client, users repository.UsersRepository, cache store.KV, cacheTTL time.Duration, logger *zap.Logger) *Guard {
	return &Guard{
		auth:     auth,
		users:    users,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// RequireModule rejects requests whose tenant is unresolved (404) or whose
// clinic does not have the named module enabled (403). label is the
// human-readable module name used in the error body.
func (g *Guard) RequireModule(module, label string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tc := tenantFrom(r.Context())
		if !tc.Resolved() {
			writeError(w, http.StatusNotFound, "Tenant not found")
			return
		}
		if !tc.Client.HasModule(module) {
			writeError(w, http.StatusForbidden, label+" module is not enabled for this tenant")
			return
		}
		next(w, r)
	}
}

// RequireRole verifies the bearer token against the auth provider, loads
// the caller's profile and rejects callers whose role does not match. The
// verified profile is attached to the request context.
func (g *Guard) RequireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Missing or invalid authorization header")
			return
		}

		profile, err := g.identify(r, token)
		if err != nil {
			if errors.Is(err, authn.ErrInvalidToken) {
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusForbidden, "Unauthorized - "+roleLabel(role)+" access required")
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if profile.Role != role {
			writeError(w, http.StatusForbidden, "Unauthorized - "+roleLabel(role)+" access required")
			return
		}

		next(w, r.WithContext(withIdentity(r.Context(), profile)))
	}
}

// identify resolves a token to a user profile, consulting the cache first.
// Token verification is a provider round trip, so verified identities are
// cached for a short TTL keyed by token hash.
func (g *Guard) identify(r *http.Request, token string) (*domain.UserProfile, error) {
	ctx := r.Context()
	key := "authn:" + tokenHash(token)

	if cached, err := g.cache.Get(ctx, key); err == nil {
		var profile domain.UserProfile
		if err := json.Unmarshal([]byte(cached), &profile); err == nil {
			return &profile, nil
		}
	} else if err != store.ErrMiss {
		g.logger.Warn("token cache read failed", zap.Error(err))
	}

	user, err := g.auth.GetUser(ctx, token)
	if err != nil {
		return nil, err
	}
	profile, err := g.users.GetProfileByAuthID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(profile); err == nil {
		if err := g.cache.Set(ctx, key, string(raw), g.cacheTTL); err != nil {
			g.logger.Warn("token cache write failed", zap.Error(err))
		}
	}
	return profile, nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func tokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// roleLabel turns "super_admin" into "Super Admin" for error bodies.
func roleLabel(role string) string {
	parts := strings.Split(role, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
