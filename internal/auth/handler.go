package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/alexa091904/semi-project/internal/httputil"
	"github.com/alexa091904/semi-project/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service      *Service
	limiter      Limiter
	logger       *slog.Logger
	cookieSecure bool
}

func NewHandler(service *Service, limiter Limiter, logger *slog.Logger, cookieSecure bool) *Handler {
	if limiter == nil {
		limiter = NoopLimiter{}
	}
	return &Handler{
		service:      service,
		limiter:      limiter,
		logger:       logger,
		cookieSecure: cookieSecure,
	}
}

// RegisterPublicRoutes mounts the routes reachable without a session.
func (h *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Post("/login", h.Login)
	router.Post("/logout", h.Logout)
	router.Get("/auth/check", h.Check)
}

// RegisterRoutes mounts the routes that require Middleware.
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/profile", h.GetProfile)
	router.Put("/profile", h.UpdateProfile)
}

// Login authenticates the admin and sets the session cookie
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	client := clientKey(r)

	locked, err := h.limiter.LockedFor(ctx, client)
	if err != nil {
		h.logger.WarnContext(ctx, "login limiter unavailable", "error", err)
	}
	if locked > 0 {
		retryAfter := int(locked.Seconds()) + 1
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
		httputil.RespondWithJSON(w, http.StatusTooManyRequests, envelope{
			Message: fmt.Sprintf("Too many failed attempts. Try again in %d seconds", retryAfter),
		})
		return
	}

	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithMalformedBody(w, err)
		return
	}

	token, admin, err := h.service.Login(ctx, req)
	if err != nil {
		if vErr, ok := validation.AsError(err); ok {
			httputil.RespondWithFieldErrors(w, vErr.Fields)
			return
		}
		if errors.Is(err, ErrInvalidCredentials) {
			if err := h.limiter.RecordFailure(ctx, client); err != nil {
				h.logger.WarnContext(ctx, "failed to record login failure", "error", err)
			}
			h.logger.InfoContext(ctx, "login rejected", "username", req.Username)
			httputil.RespondWithJSON(w, http.StatusUnauthorized, envelope{Message: "Invalid username or password"})
			return
		}
		h.logger.ErrorContext(ctx, "login failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.limiter.Reset(ctx, client); err != nil {
		h.logger.WarnContext(ctx, "failed to reset login limiter", "error", err)
	}

	SetAuthCookie(w, token, h.cookieSecure)
	h.logger.InfoContext(ctx, "admin logged in", "username", admin.Username)

	httputil.RespondWithJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Login successful",
		Data:    map[string]string{"username": admin.Username},
	})
}

// Logout destroys the session and clears the cookie
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(cookieName); err == nil {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.ErrorContext(r.Context(), "logout failed", "error", err)
			httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
			return
		}
	}

	ClearAuthCookie(w, h.cookieSecure)
	httputil.RespondWithJSON(w, http.StatusOK, envelope{Success: true, Message: "Logged out"})
}

// Check reports whether the request carries a live session. It never fails
// with 401.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		httputil.RespondWithJSON(w, http.StatusOK, checkResponse{})
		return
	}

	session, err := h.service.Authenticate(r.Context(), cookie.Value)
	if err != nil {
		if !errors.Is(err, ErrUnauthorized) {
			h.logger.ErrorContext(r.Context(), "session check failed", "error", err)
		}
		httputil.RespondWithJSON(w, http.StatusOK, checkResponse{})
		return
	}

	resp := checkResponse{Authenticated: true}
	if session.Admin != nil {
		resp.Username = session.Admin.Username
	}
	httputil.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFromContext(r.Context())
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.service.Profile(r.Context(), session.AdminID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, envelope{Success: true, Data: profile})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFromContext(r.Context())
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ProfileRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithMalformedBody(w, err)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), session.AdminID, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "profile updated", "username", profile.Username)
	httputil.RespondWithJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Profile updated successfully",
		Data:    profile,
	})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if vErr, ok := validation.AsError(err); ok {
		httputil.RespondWithFieldErrors(w, vErr.Fields)
		return
	}
	if errors.Is(err, ErrUnauthorized) {
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.logger.ErrorContext(r.Context(), "profile request failed", "error", err)
	httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
}

// clientKey identifies the caller for the login limiter. RemoteAddr has
// already been rewritten by the RealIP middleware when proxies are in front.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
