package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"pizza-service/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"valid", "Bearer abcdef", "abcdef"},
		{"missing", "", ""},
		{"wrong scheme", "Basic abcdef", ""},
		{"no token", "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, BearerToken(r))
		})
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name string
		user *models.User
		want int
	}{
		{"admin allowed", &models.User{ID: 1, Roles: []models.Role{{Role: models.RoleAdmin}}}, http.StatusOK},
		{"diner denied", &models.User{ID: 3, Roles: []models.Role{{Role: models.RoleDiner}}}, http.StatusForbidden},
		{"multi-role allowed", &models.User{ID: 2, Roles: []models.Role{
			{Role: models.RoleDiner},
			{Role: models.RoleAdmin},
		}}, http.StatusOK},
		{"anonymous denied", nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/franchise", nil)
			if tt.user != nil {
				r = WithUser(r, tt.user)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRecoveryTurnsPanicInto500(t *testing.T) {
	handler := Recovery(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	r := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
