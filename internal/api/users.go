package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bookapp/internal/auth"
	"bookapp/internal/metrics"
	"bookapp/internal/oplog"
	"bookapp/internal/store"
)

// usersHandler provides registration and login handlers.
type usersHandler struct {
	users *store.UserStore
	audit *oplog.Logger
}

// registerUserRoutes registers account routes on r. Login sits behind the
// Basic middleware, so a successful round-trip is itself the verification.
func registerUserRoutes(r chi.Router, users *store.UserStore, basicAuth *auth.BasicAuthMiddleware, audit *oplog.Logger) {
	h := &usersHandler{users: users, audit: audit}
	r.Post("/register", h.Register)
	r.With(basicAuth.Authenticate).Post("/login", h.Login)
}

// Register creates a new user account.
// POST /register
func (h *usersHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	err := h.users.Register(req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateUsername):
			metrics.OperationsTotal.WithLabelValues("register", "conflict").Inc()
			_ = h.audit.Record(req.Username, "REGISTER", "", "Failure - User already exists")
			writeError(w, http.StatusConflict, "username already exists", "USERNAME_CONFLICT")
		case errors.Is(err, store.ErrInvalidUsername),
			errors.Is(err, store.ErrInvalidEmail),
			errors.Is(err, store.ErrInvalidPassword):
			metrics.OperationsTotal.WithLabelValues("register", "invalid").Inc()
			_ = h.audit.Record(req.Username, "REGISTER", "", "Failure - "+err.Error())
			writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		default:
			log.Printf("api: REGISTER %q: %v", req.Username, err)
			metrics.OperationsTotal.WithLabelValues("register", "error").Inc()
			_ = h.audit.Record(req.Username, "REGISTER", "", "Failure - "+err.Error())
			if errors.Is(err, store.ErrCorrupt) {
				writeError(w, http.StatusInternalServerError, "credential storage is corrupt", "STORAGE_ERROR")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		}
		return
	}

	metrics.OperationsTotal.WithLabelValues("register", "success").Inc()
	_ = h.audit.Record(req.Username, "REGISTER", "", "Success")
	writeJSON(w, http.StatusCreated, MessageResponse{Message: "user registered"})
}

// Login confirms the caller's Basic credentials. The middleware has already
// verified them by the time this handler runs.
// POST /login
func (h *usersHandler) Login(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	metrics.OperationsTotal.WithLabelValues("login", "success").Inc()
	_ = h.audit.Record(user, "LOGIN", "", "Success")
	writeJSON(w, http.StatusOK, LoginResponse{Message: "login successful", Username: user})
}
