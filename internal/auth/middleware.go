package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexa091904/semi-project/internal/httputil"
)

type contextKey string

const sessionKey contextKey = "session"

const cookieName = "token"

// Middleware admits requests carrying a valid, non-idle session cookie and
// stores the *Session in the request context.
func Middleware(service *Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil {
				logger.WarnContext(r.Context(), "no auth cookie found", "path", r.URL.Path)
				httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			session, err := service.Authenticate(r.Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, ErrUnauthorized) {
					logger.WarnContext(r.Context(), "rejected session", "path", r.URL.Path, "reason", err)
				} else {
					logger.ErrorContext(r.Context(), "session lookup failed", "error", err)
				}
				httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFromContext returns the session stored by Middleware.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionKey).(*Session)
	return session, ok
}

// SetAuthCookie sets the session token in an HttpOnly cookie
func SetAuthCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(tokenLifetime.Seconds()),
	})
}

// ClearAuthCookie removes the auth cookie
func ClearAuthCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
