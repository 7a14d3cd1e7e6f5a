package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andina-labs/cierre-core/internal/core/domain"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_MissingToken(t *testing.T) {
	m := NewAuthMiddleware(&mockAuthService{})

	req := httptest.NewRequest("GET", "/api/v1/connections", nil)
	rr := httptest.NewRecorder()

	m.Authenticate(okHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	m := NewAuthMiddleware(&mockAuthService{})

	req := httptest.NewRequest("GET", "/api/v1/connections", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rr := httptest.NewRecorder()

	m.Authenticate(okHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	m := NewAuthMiddleware(&mockAuthService{
		validateTokenFn: func(ctx context.Context, token string) (*domain.AuthContext, error) {
			return nil, domain.ErrTokenExpired
		},
	})

	req := httptest.NewRequest("GET", "/api/v1/connections", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rr := httptest.NewRecorder()

	m.Authenticate(okHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestAuthenticate_AddsAuthContext(t *testing.T) {
	m := NewAuthMiddleware(&mockAuthService{
		validateTokenFn: func(ctx context.Context, token string) (*domain.AuthContext, error) {
			if token != "good-token" {
				t.Errorf("expected token forwarded, got %q", token)
			}
			return &domain.AuthContext{UserID: "u1", Role: domain.RoleAdmin}, nil
		},
	})

	var captured *domain.AuthContext
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetAuthContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/v1/connections", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rr := httptest.NewRecorder()

	m.Authenticate(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if captured == nil || captured.UserID != "u1" {
		t.Errorf("expected auth context in request, got %+v", captured)
	}
}

func TestRequireAdmin_Viewer(t *testing.T) {
	m := NewAuthMiddleware(&mockAuthService{})

	req := httptest.NewRequest("POST", "/api/v1/connections", nil)
	req = req.WithContext(context.WithValue(req.Context(), authContextKey, &domain.AuthContext{
		UserID: "u2", Role: domain.RoleViewer,
	}))
	rr := httptest.NewRecorder()

	m.RequireAdmin(okHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rr.Code)
	}
}

func TestRequireAdmin_Admin(t *testing.T) {
	m := NewAuthMiddleware(&mockAuthService{})

	req := httptest.NewRequest("POST", "/api/v1/connections", nil)
	req = req.WithContext(context.WithValue(req.Context(), authContextKey, &domain.AuthContext{
		UserID: "u1", Role: domain.RoleAdmin,
	}))
	rr := httptest.NewRecorder()

	m.RequireAdmin(okHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
}

func TestRequireAdmin_NoContext(t *testing.T) {
	m := NewAuthMiddleware(&mockAuthService{})

	req := httptest.NewRequest("POST", "/api/v1/connections", nil)
	rr := httptest.NewRecorder()

	m.RequireAdmin(okHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	m := NewRecoveryMiddleware()

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()

	m.Handler(panicking).ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rr.Code)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{"bearer", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"basic", "Basic abc123", ""},
		{"no token", "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if got := extractBearerToken(req); got != tt.want {
				t.Errorf("extractBearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}
