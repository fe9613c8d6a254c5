package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterValidation(t *testing.T) {
	h := NewHandler(NewService(nil, "test-secret"))

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", "{"},
		{"missing email", `{"password":"longenough","displayName":"A"}`},
		{"missing password", `{"email":"a@b.c","displayName":"A"}`},
		{"blank display name", `{"email":"a@b.c","password":"longenough","displayName":"  "}`},
		{"short password", `{"email":"a@b.c","password":"short","displayName":"A"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.Register(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestLoginValidation(t *testing.T) {
	h := NewHandler(NewService(nil, "test-secret"))

	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"email":"a@b.c"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email and password are required")
}
