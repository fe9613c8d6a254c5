package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellum/vellum/editor-go/internal/typeid"
)

func protectedRoute(svc *Service, gotUser *string) http.Handler {
	return svc.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotUser = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	svc := NewService(nil, "test-secret")
	userID := typeid.NewUserID()
	token, err := svc.issueToken(userID)
	require.NoError(t, err)

	var gotUser string
	req := httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protectedRoute(svc, &gotUser).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, userID, gotUser)
}

func TestAuthMiddlewareRejections(t *testing.T) {
	svc := NewService(nil, "test-secret")

	foreign, err := NewService(nil, "other-secret").issueToken(typeid.NewUserID())
	require.NoError(t, err)
	nonUser, err := svc.issueToken(typeid.NewDocumentID())
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty credential", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
		{"foreign signature", "Bearer " + foreign},
		{"non-user subject", "Bearer " + nonUser},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var gotUser string
			req := httptest.NewRequest("GET", "/api/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			protectedRoute(svc, &gotUser).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Empty(t, gotUser)
		})
	}
}

func TestBearerTokenSchemeIsCaseInsensitive(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "bearer tok123")
	token, ok := bearerToken(req)
	require.True(t, ok)
	assert.Equal(t, "tok123", token)
}
