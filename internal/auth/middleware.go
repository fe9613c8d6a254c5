package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/vellum/vellum/editor-go/internal/typeid"
)

type contextKey struct{}

// AuthMiddleware gates a route behind a bearer token. The token must
// validate and its subject must be a well-formed user id before the
// request proceeds.
func (s *Service) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or malformed authorization header"})
			return
		}

		userID, err := s.ValidateToken(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		if err := typeid.Validate(userID, typeid.PrefixUser); err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token subject"})
			return
		}

		ctx := context.WithValue(r.Context(), contextKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken pulls the credential out of an "Authorization: Bearer"
// header. The scheme comparison is case-insensitive per RFC 7235.
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// UserIDFromContext returns the authenticated user id, or "" when the
// request never passed through AuthMiddleware.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
