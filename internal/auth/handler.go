package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atrium-app/atrium/internal/shared"
	"github.com/atrium-app/atrium/internal/token"
)

// Mailer enqueues transactional mail after registration. Implementations may
// be nil when background jobs are disabled.
type Mailer interface {
	EnqueueWelcomeEmail(ctx context.Context, to, firstName string) error
}

// Handler wires the JSON endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	tokens    *token.Manager
	sessions  *shared.SessionRegistry
	mailer    Mailer
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, tokens *token.Manager, sessions *shared.SessionRegistry, mailer Mailer) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		tokens:    tokens,
		sessions:  sessions,
		mailer:    mailer,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/register", h.handleRegister)
	r.Get("/user/me", h.handleMe)
	r.Post("/logout", h.handleLogout)
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required,email"`
	Secret     string `json:"secret" validate:"required"`
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstname" validate:"required"`
	LastName  string `json:"lastname" validate:"required"`
}

type userView struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstname"`
	LastName  string    `json:"lastname"`
	CreatedAt time.Time `json:"created_at"`
}

func viewOf(u *User) userView {
	return userView{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, "identifier and secret are required")
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Identifier, req.Secret)
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	signed, id, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "could not complete login")
		return
	}
	rec := shared.SessionRecord{UserID: user.ID, IssuedAt: time.Now().UTC(), IP: r.RemoteAddr, UA: r.UserAgent()}
	if err := h.sessions.Put(r.Context(), id, rec); err != nil {
		h.logger.Error("register session", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "could not complete login")
		return
	}
	expiresAt := rec.IssuedAt.Add(h.sessions.TTL())
	if err := h.service.RegisterSession(r.Context(), id, user.ID, expiresAt, rec.IP, rec.UA); err != nil {
		h.logger.Warn("persist session audit", slog.Any("error", err))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":      signed,
		"expires_in": int64(h.tokens.TTL().Seconds()),
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	user, err := h.service.Register(r.Context(), RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, shared.ErrEmailTaken) {
			writeMessage(w, http.StatusConflict, "email already taken")
			return
		}
		h.logger.Error("register user", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "could not create account")
		return
	}

	if h.mailer != nil {
		if err := h.mailer.EnqueueWelcomeEmail(r.Context(), user.Email, user.FirstName); err != nil {
			h.logger.Warn("enqueue welcome email", slog.Any("error", err))
		}
	}

	writeJSON(w, http.StatusCreated, map[string]userView{"user": viewOf(user)})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]userView{"user": viewOf(user)})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Revoke(r.Context(), id); err != nil {
		h.logger.Warn("revoke session", slog.Any("error", err))
	}
	if err := h.service.RemoveSession(r.Context(), id); err != nil {
		h.logger.Warn("remove session audit", slog.Any("error", err))
	}
	w.WriteHeader(http.StatusNoContent)
}

// authenticate resolves the bearer token on the request to a live user.
// On failure it writes the error response and returns ok=false.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request) (*User, string, bool) {
	raw := bearerToken(r)
	if raw == "" {
		writeMessage(w, http.StatusUnauthorized, "missing bearer token")
		return nil, "", false
	}
	userID, id, err := h.tokens.Parse(raw)
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "invalid token")
		return nil, "", false
	}
	if _, err := h.sessions.Get(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrSessionExpired) {
			writeMessage(w, http.StatusUnauthorized, "session expired")
			return nil, "", false
		}
		h.logger.Error("session lookup", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "could not verify session")
		return nil, "", false
	}
	user, err := h.service.Lookup(r.Context(), userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			writeMessage(w, http.StatusUnauthorized, "unknown account")
			return nil, "", false
		}
		h.logger.Error("lookup user", slog.Any("error", err))
		writeMessage(w, http.StatusInternalServerError, "could not load account")
		return nil, "", false
	}
	return user, id, true
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := strings.ToLower(verrs[0].Field())
		switch verrs[0].Tag() {
		case "required":
			return field + " is required"
		case "email":
			return field + " must be a valid email address"
		case "min":
			return field + " is too short"
		}
		return field + " is invalid"
	}
	return "invalid request"
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
