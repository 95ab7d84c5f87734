package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/thywillbedone/movies2u/internal/domain"
)

type contextKey string

const userContextKey contextKey = "user"

// requireAuth is the auth gate. It admits a request only when the
// Authorization header carries a valid bearer token whose subject resolves to
// a known user; the user is then attached to the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if header == "" || !strings.HasPrefix(header, prefix) {
			s.respondError(w, http.StatusUnauthorized, "Not authorized, token is required")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
		userID, err := s.tokens.Verify(token)
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "Not authorized, token is invalid")
			return
		}

		user, err := s.repo.Users.GetByID(r.Context(), userID)
		if err != nil {
			// Any lookup failure yields the same opaque rejection.
			s.respondError(w, http.StatusUnauthorized, "Not authorized")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(domain.User)
	return user, ok
}
