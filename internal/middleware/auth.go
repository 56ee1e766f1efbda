package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/compoundjoy/server/internal/ctxkeys"
	"github.com/compoundjoy/server/internal/service"
)

// AuthMiddleware verifies a bearer token and adds the caller's user id to the
// context. Requests without a token continue anonymously; a token that fails
// verification is rejected.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				writeError(w, http.StatusUnauthorized, "malformed authorization header")
				return
			}

			userID, err := authService.UserID(strings.TrimSpace(token))
			if err != nil {
				slog.Debug("rejected bearer token", "error", err, "path", r.URL.Path)
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := ctxkeys.WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.UserID(r.Context()) == "" {
			writeError(w, http.StatusUnauthorized, service.ErrUnauthenticated.Error())
			return
		}
		next.ServeHTTP(w, r)
	}
}
