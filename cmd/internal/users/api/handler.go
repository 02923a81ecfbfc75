// Package usersapi wires the /api/users HTTP surface to the identity service.
//
// It owns request/response shapes, bearer-token extraction, and the
// deterministic mapping from identity error kinds to HTTP statuses. Domain
// failures answer with structured error bodies; store faults answer with a
// generic 500 and are logged with detail server-side only.
package usersapi

import (
	"log/slog"
	"net/http"
	"strings"

	"aureum/cmd/identity"
)

// Handler serves the /api/users routes.
type Handler struct {
	log *slog.Logger
	cfg Config
	svc *identity.Service
}

// NewHandler constructs a users API handler.
func NewHandler(log *slog.Logger, cfg Config, svc *identity.Service) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{log: log, cfg: cfg, svc: svc}
}

// Register wires the users routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/api/users/register", h.handleRegister)
	mux.HandleFunc("/api/users/login", h.handleLogin)
	mux.HandleFunc("/api/users/profile", h.handleProfile)
	mux.HandleFunc("/api/users/validate", h.handleValidate)
	mux.HandleFunc("/api/users/health", h.handleHealth)
}

// ---- handlers ----

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !looksLikeEmail(email) {
		writeError(w, http.StatusBadRequest, "invalid_request", "a valid email is required")
		return
	}
	if strings.TrimSpace(req.Password) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "password is required")
		return
	}

	auth, err := h.svc.Register(r.Context(), identity.RegisterInput{
		Email:       email,
		Password:    req.Password,
		FirstName:   trimPtr(req.FirstName),
		LastName:    trimPtr(req.LastName),
		PhoneNumber: trimPtr(req.PhoneNumber),
	})
	if err != nil {
		h.writeDomainError(w, "register", err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Token:     auth.Token,
		ExpiresAt: auth.ExpiresAt,
		User:      toUserResponse(auth.Profile),
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	auth, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeDomainError(w, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Token:     auth.Token,
		ExpiresAt: auth.ExpiresAt,
		User:      toUserResponse(auth.Profile),
	})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleProfileGet(w, r)
	case http.MethodPut:
		h.handleProfilePut(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	callerEmail, ok := h.requireCaller(w, r)
	if !ok {
		return
	}

	profile, err := h.svc.GetProfile(r.Context(), callerEmail)
	if err != nil {
		h.writeDomainError(w, "profile.get", err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{User: toUserResponse(profile)})
}

func (h *Handler) handleProfilePut(w http.ResponseWriter, r *http.Request) {
	callerEmail, ok := h.requireCaller(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	dob, ok := parseDatePtr(req.DateOfBirth)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", "dateOfBirth must be YYYY-MM-DD")
		return
	}

	profile, err := h.svc.UpdateProfile(r.Context(), callerEmail, identity.ProfilePatch{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		DateOfBirth: dob,
	})
	if err != nil {
		h.writeDomainError(w, "profile.update", err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{User: toUserResponse(profile)})
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	tok := bearerToken(r)
	if tok == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	profile, err := h.svc.ResolveCaller(r.Context(), tok)
	if err != nil {
		h.writeDomainError(w, "validate", err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{User: toUserResponse(profile)})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("user service is running\n"))
}

// ---- helpers ----

// requireCaller validates the bearer token and resolves the caller's email.
// The email is then passed explicitly into service calls; there is no
// ambient security context.
func (h *Handler) requireCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	tok := bearerToken(r)
	if tok == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return "", false
	}
	subject, err := h.svc.ResolveSubject(tok)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
		return "", false
	}
	return subject, true
}

// writeDomainError maps identity error kinds to HTTP statuses deterministically.
// It never inspects message text and never leaks store detail to clients.
func (h *Handler) writeDomainError(w http.ResponseWriter, op string, err error) {
	switch {
	case identity.IsDuplicateEmail(err):
		writeError(w, http.StatusBadRequest, "duplicate_email", "email already registered")
	case identity.IsInvalidCredentials(err):
		writeError(w, http.StatusBadRequest, "invalid_credentials", "invalid email or password")
	case identity.IsInvalidInput(err):
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid input")
	case identity.IsUnauthenticated(err):
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
	case identity.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", "user not found")
	default:
		h.log.Error("users."+op+".fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}
