package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/metrics"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/user/entity"
)

// Handler exposes the session endpoints. Tokens travel only in cookies.
type Handler struct {
	mgr     *Manager
	cookies CookieConfig
	logger  *zap.SugaredLogger
	metrics *metrics.Metrics
}

func NewHandler(mgr *Manager, cookies CookieConfig, logger *zap.SugaredLogger, m *metrics.Metrics) *Handler {
	return &Handler{mgr: mgr, cookies: cookies, logger: logger, metrics: m}
}

// SignupRequest request body for signup endpoint.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupResponse wraps the created user.
type SignupResponse struct {
	User    entity.PublicUser `json:"user"`
	Message string            `json:"message"`
}

// LoginRequest login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid signup payload", "err", err)
		h.fail(w, "signup", newError(KindValidation, msgSignupFieldsRequired))
		return
	}
	sess, err := h.mgr.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(w, "signup", err)
		return
	}
	h.cookies.setSession(w, sess)
	h.metrics.ObserveOperation("signup", "success")
	h.writeJSON(w, http.StatusCreated, SignupResponse{User: sess.User, Message: "User created successfully"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid login payload", "err", err)
		h.fail(w, "login", newError(KindValidation, msgLoginFieldsRequired))
		return
	}
	sess, err := h.mgr.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, "login", err)
		return
	}
	h.cookies.setSession(w, sess)
	h.metrics.ObserveOperation("login", "success")
	h.writeJSON(w, http.StatusOK, sess.User)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.mgr.Logout(r.Context(), cookieValue(r, RefreshCookieName)); err != nil {
		// a dead refresh token is useless to the browser
		if KindOf(err) == KindUnauthorized {
			h.cookies.clear(w)
		}
		h.fail(w, "logout", err)
		return
	}
	h.cookies.clear(w)
	h.metrics.ObserveOperation("logout", "success")
	h.writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	access, err := h.mgr.Refresh(r.Context(), cookieValue(r, RefreshCookieName))
	if err != nil {
		h.fail(w, "refresh", err)
		return
	}
	h.cookies.setAccess(w, access)
	h.metrics.ObserveOperation("refresh", "success")
	h.writeJSON(w, http.StatusOK, messageResponse{Message: "Token refreshed successfully"})
}

// Profile must run behind RequireAccess.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.mgr.Profile(r.Context())
	if err != nil {
		h.fail(w, "profile", err)
		return
	}
	h.metrics.ObserveOperation("profile", "success")
	h.writeJSON(w, http.StatusOK, u)
}

// RequireAccess authenticates the accessToken cookie and attaches the user.
func (h *Handler) RequireAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := h.mgr.Authenticate(r.Context(), cookieValue(r, AccessCookieName))
		if err != nil {
			h.fail(w, "authenticate", err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

func statusFor(k Kind) int {
	switch k {
	case KindValidation, KindConflict, KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	kind := KindOf(err)
	h.metrics.ObserveOperation(op, kind.String())

	msg := "Server error"
	if kind == KindServerError {
		h.logger.Errorw(op+" failed", "err", err)
	} else {
		h.logger.Debugw(op+" rejected", "kind", kind.String(), "err", err)
		var e *Error
		if errors.As(err, &e) {
			msg = e.Message
		}
	}
	h.writeJSON(w, statusFor(kind), messageResponse{Message: msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
