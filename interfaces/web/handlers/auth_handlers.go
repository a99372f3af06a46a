package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fixtrack/application"
	"fixtrack/domain/staff"
	"fixtrack/interfaces/web/presenters"
	"fixtrack/logging"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "fixtrack_session"

type sessionContextKey struct{}

// AuthHandlers handles login, logout and the staff listing endpoints.
type AuthHandlers struct {
	authService    *application.AuthService
	staffPresenter *presenters.StaffPresenter
	logger         *logging.Logger
}

// NewAuthHandlers creates a new auth handlers instance.
func NewAuthHandlers(
	authService *application.AuthService,
	staffPresenter *presenters.StaffPresenter,
) *AuthHandlers {
	return &AuthHandlers{
		authService:    authService,
		staffPresenter: staffPresenter,
		logger:         logging.Default().WithComponent("auth_handler"),
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Staff     *presenters.StaffView `json:"staff"`
	ExpiresAt string                `json:"expires_at"`
}

// Login authenticates the credentials and sets the session cookie.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		WriteJSONError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			WriteJSONError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		h.logger.Error("Login failed", "username", req.Username, "error", err)
		WriteJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	WriteJSON(w, http.StatusOK, loginResponse{
		Staff:     h.staffPresenter.FormatStaff(session.Staff),
		ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
	})
}

// Logout closes the session and clears the cookie.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		h.authService.Logout(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// CurrentStaff returns the logged-in staff member for the session.
func (h *AuthHandlers) CurrentStaff(w http.ResponseWriter, r *http.Request) {
	member, ok := StaffFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	WriteJSON(w, http.StatusOK, h.staffPresenter.FormatStaff(member))
}

// ListStaff returns all staff members for the attended-by dropdown.
func (h *AuthHandlers) ListStaff(w http.ResponseWriter, r *http.Request) {
	members, err := h.authService.ListStaff(r.Context())
	if err != nil {
		h.logger.Error("Failed to list staff", "error", err)
		WriteJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, h.staffPresenter.FormatStaffList(members))
}

// RequireSession rejects requests without a valid session cookie and
// puts the resolved staff member on the request context.
func (h *AuthHandlers) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			WriteJSONError(w, http.StatusUnauthorized, "not logged in")
			return
		}

		member, ok := h.authService.Authenticate(cookie.Value)
		if !ok {
			WriteJSONError(w, http.StatusUnauthorized, "session expired")
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey{}, member)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// StaffFromContext returns the staff member the session middleware
// resolved for this request.
func StaffFromContext(ctx context.Context) (*staff.Staff, bool) {
	member, ok := ctx.Value(sessionContextKey{}).(*staff.Staff)
	return member, ok
}
