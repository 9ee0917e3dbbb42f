package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/libbyyosef/team-availability/internal/auth/session"
	"github.com/libbyyosef/team-availability/internal/logger"
	"github.com/libbyyosef/team-availability/internal/responses"
	"github.com/libbyyosef/team-availability/internal/user"
)

type AuthMiddleware struct {
	Sessions *session.Manager
}

func NewAuthMiddleware(sessions *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{Sessions: sessions}
}

// RequireAuth resolves the session cookie into an identity and attaches
// it to the request context. Every auth failure mode (no cookie, bad
// token, deleted user) produces the same 401 body; storage faults are
// not an auth failure and surface as 500.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if cookie, err := r.Cookie(a.Sessions.CookieName()); err == nil {
			token = cookie.Value
		}

		identity, err := a.Sessions.Resolve(r.Context(), token)
		if errors.Is(err, session.ErrUnauthenticated) {
			writeError(w, http.StatusUnauthorized, "not_authenticated")
			return
		}
		if err != nil {
			logger.Error("session resolve failed", map[string]any{
				"error": err.Error(),
			})
			writeError(w, http.StatusInternalServerError, "internal_error")
			return
		}

		next.ServeHTTP(w, r.WithContext(user.WithIdentity(r.Context(), identity)))
	})
}

func writeError(w http.ResponseWriter, status int, key string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": responses.Message(key),
	})
}
