package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hospverse-api/internal/authn"
	"hospverse-api/internal/domain"
	"hospverse-api/internal/repository"
	"hospverse-api/internal/store"
)

type fakeKV struct {
	data map[string]string
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string]string{}} }

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", store.ErrMiss
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value string, _ time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *fakeKV) Del(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

// stubAuth stands in for the auth provider: tokens map directly to users.
type stubAuth struct {
	users       map[string]*authn.User // token -> user
	getUserHits int
}

func newStubAuth() *stubAuth { return &stubAuth{users: map[string]*authn.User{}} }

func (s *stubAuth) SignIn(_ context.Context, email, password string) (*authn.Session, error) {
	if password != "secret" {
		return nil, authn.ErrInvalidCredentials
	}
	for token, u := range s.users {
		if u.Email == email {
			return &authn.Session{AccessToken: token, RefreshToken: "refresh-" + token, User: u}, nil
		}
	}
	return nil, authn.ErrInvalidCredentials
}

func (s *stubAuth) SignUp(_ context.Context, email, _ string) (*authn.User, error) {
	u := &authn.User{ID: "auth-" + email, Email: email}
	s.users["token-"+email] = u
	return u, nil
}

func (s *stubAuth) GetUser(_ context.Context, accessToken string) (*authn.User, error) {
	s.getUserHits++
	u, ok := s.users[accessToken]
	if !ok {
		return nil, authn.ErrInvalidToken
	}
	return u, nil
}

func (s *stubAuth) Refresh(_ context.Context, refreshToken string) (*authn.Session, error) {
	for token, u := range s.users {
		if "refresh-"+token == refreshToken {
			return &authn.Session{AccessToken: token, RefreshToken: refreshToken, User: u}, nil
		}
	}
	return nil, authn.ErrInvalidToken
}

func (s *stubAuth) SignOut(_ context.Context, _ string) error { return nil }

// testEnv wires the full handler chain over memory repositories, one
// active clinic with every module enabled, reachable as
// skinova.hospverse.com.
type testEnv struct {
	repos   *repository.Repositories
	auth    *stubAuth
	kv      *fakeKV
	client  *domain.Client
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	repos := repository.NewMemory()

	client, err := repos.Clients.CreateClient(context.Background(), &domain.Client{
		Name:      "Skinova Clinic",
		Subdomain: "skinova",
		Plan:      "professional",
		Status:    "active",
		ModulesEnabled: []string{
			"dashboard", "reception", "doctor", "technician", "inventory",
			"billing", "crm", "hr", "payroll", "photo_manager", "admin",
		},
	})
	require.NoError(t, err)

	auth := newStubAuth()
	kv := newFakeKV()
	guard := NewGuard(auth, repos.Users, kv, time.Minute, logger)
	resolver := NewTenantResolver(repos.Clients, repos.Logs, "hospverse.com", "production", logger)

	router := NewRouter(logger)
	router.RegisterAuthRoutes(NewAuthHandler(auth, repos.Users, repos.Clients, kv, logger))
	router.RegisterTenantRoutes(NewTenantHandler())
	router.RegisterSuperAdminRoutes(NewSuperAdminHandler(repos.Clients, repos.Logs, repos.Support, logger), guard)
	router.RegisterReceptionRoutes(NewReceptionHandler(repos.Patients, repos.Appointments, repos.Staff, logger), guard)
	router.RegisterDoctorRoutes(NewDoctorHandler(repos.Appointments, repos.Patients, repos.Clinical, repos.Procedures, repos.Photos, repos.Staff, logger), guard)
	router.RegisterTechnicianRoutes(NewTechnicianHandler(repos.Procedures, repos.Staff, logger), guard)
	router.RegisterInventoryRoutes(NewInventoryHandler(repos.Inventory, logger), guard)
	router.RegisterBillingRoutes(NewBillingHandler(repos.Billing, logger), guard)
	router.RegisterCRMRoutes(NewCRMHandler(repos.Leads, repos.Users, logger), guard)
	router.RegisterHRRoutes(NewHRHandler(repos.Staff, repos.Payroll, logger), guard)
	router.RegisterPayrollRoutes(NewPayrollHandler(repos.Payroll, logger), guard)
	router.RegisterPhotoRoutes(NewPhotoHandler(repos.Photos, logger), guard)
	router.RegisterAdminRoutes(NewAdminHandler(repos.Billing, repos.Appointments, repos.Staff, repos.Inventory, repos.Leads, repos.Clinical, repos.Logs, logger), guard)

	return &testEnv{
		repos:   repos,
		auth:    auth,
		kv:      kv,
		client:  client,
		handler: resolver.Middleware(router),
	}
}

// grantRole registers an auth user and matching profile and returns the
// bearer token for it.
func (e *testEnv) grantRole(t *testing.T, role string) string {
	t.Helper()
	token := "token-" + role
	e.auth.users[token] = &authn.User{ID: "auth-" + role, Email: role + "@skinova.test"}
	_, err := e.repos.Users.CreateProfile(context.Background(), &domain.UserProfile{
		AuthUserID: "auth-" + role,
		Name:       "Test " + role,
		Email:      role + "@skinova.test",
		Role:       role,
		ClientID:   e.client.ID,
		IsActive:   true,
	})
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Host = "skinova.hospverse.com"
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
