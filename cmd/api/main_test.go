package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/equalpay/equalpay/internal/config"
)

// stubRoutes stands in for a feature router so requests that clear the
// middleware stack answer 200.
func stubRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func buildRouter(secret string) *chi.Mux {
	cfg := &config.Config{JWTSecret: secret}
	return newRouter(cfg,
		stubRoutes(), stubRoutes(), stubRoutes(),
		stubRoutes(), stubRoutes(), stubRoutes(),
	)
}

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: subject})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestRouterAuthBoundaries(t *testing.T) {
	const secret = "test-secret"

	tests := []struct {
		name       string
		secret     string
		method     string
		path       string
		header     map[string]string
		wantStatus int
	}{
		{
			name:       "health is public with auth enabled",
			secret:     secret,
			method:     http.MethodGet,
			path:       "/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "health is public in dev mode",
			secret:     "",
			method:     http.MethodGet,
			path:       "/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "api rejects missing token",
			secret:     secret,
			method:     http.MethodGet,
			path:       "/api/v1/users",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "api rejects token signed with wrong secret",
			secret: secret,
			method: http.MethodGet,
			path:   "/api/v1/groups",
			header: map[string]string{
				"Authorization": "Bearer " + signToken(t, "other-secret", "7"),
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "api accepts valid token",
			secret: secret,
			method: http.MethodGet,
			path:   "/api/v1/groups",
			header: map[string]string{
				"Authorization": "Bearer " + signToken(t, secret, "7"),
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "dev mode reaches api without credentials",
			secret:     "",
			method:     http.MethodGet,
			path:       "/api/v1/expenses",
			wantStatus: http.StatusOK,
		},
		{
			name:   "dev mode honors test user header",
			secret: "",
			method: http.MethodGet,
			path:   "/api/v1/dashboard",
			header: map[string]string{
				"X-Test-User-ID": "42",
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := buildRouter(tt.secret)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.wantStatus)
			}
		})
	}
}
