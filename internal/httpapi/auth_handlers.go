package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"hospverse-api/internal/authn"
	"hospverse-api/internal/domain"
	"hospverse-api/internal/repository"
	"hospverse-api/internal/store"
)

const maxBodyBytes = 1 << 20

// AuthHandler brokers the external auth provider and joins the issued
// identity with its user profile and clinic record.
type AuthHandler struct {
	auth    authn.Client
	users   repository.UsersRepository
	clients repository.ClientsRepository
	cache   store.KV
	logger  *zap.Logger
}

func NewAuthHandler(auth authn.Client, users repository.UsersRepository, clients repository.ClientsRepository, cache store.KV, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, clients: clients, cache: cache, logger: logger}
}

func (rt *Router) RegisterAuthRoutes(h *AuthHandler) {
	rt.Handle("POST /api/login", h.Login)
	rt.Handle("POST /api/signup", h.Signup)
	rt.Handle("POST /api/refresh", h.Refresh)
	rt.Handle("GET /api/me", h.Me)
	rt.Handle("POST /api/logout", h.Logout)
}

// authUser is the profile+clinic join returned by login and me.
type authUser struct {
	ID         string         `json:"id"`
	AuthUserID string         `json:"auth_user_id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Role       string         `json:"role"`
	ClientID   string         `json:"client_id,omitempty"`
	Client     *domain.Client `json:"client"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authn.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	user, err := h.joinProfile(r, session.User.ID, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"user":          user,
	})
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Role     string `json:"role"`
		ClientID string `json:"client_id"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Role == "" {
		req.Role = "user"
	}

	user, err := h.auth.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authn.ErrInvalidCredentials) {
			writeError(w, http.StatusBadRequest, "Failed to create user")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	profile := &domain.UserProfile{
		AuthUserID: user.ID,
		Name:       req.Name,
		Email:      req.Email,
		Role:       req.Role,
		ClientID:   req.ClientID,
		IsActive:   true,
	}
	created, err := h.users.CreateProfile(r.Context(), profile)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    created,
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, authn.ErrInvalidToken) {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing or invalid authorization header")
		return
	}

	user, err := h.auth.GetUser(r.Context(), token)
	if err != nil {
		if errors.Is(err, authn.ErrInvalidToken) {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	joined, err := h.joinProfile(r, user.ID, user.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": joined})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing or invalid authorization header")
		return
	}

	if err := h.auth.SignOut(r.Context(), token); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// Drop any cached identity so the token stops working immediately.
	if err := h.cache.Del(r.Context(), "authn:"+tokenHash(token)); err != nil {
		h.logger.Warn("token cache invalidation failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (h *AuthHandler) joinProfile(r *http.Request, authUserID, email string) (*authUser, error) {
	profile, err := h.users.GetProfileByAuthID(r.Context(), authUserID)
	if err != nil {
		return nil, err
	}

	var client *domain.Client
	if profile.ClientID != "" {
		client, err = h.clients.GetClient(r.Context(), profile.ClientID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	return &authUser{
		ID:         profile.ID,
		AuthUserID: profile.AuthUserID,
		Name:       profile.Name,
		Email:      email,
		Role:       profile.Role,
		ClientID:   profile.ClientID,
		Client:     client,
	}, nil
}
