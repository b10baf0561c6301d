package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

type stubAdminChecker struct {
	isAdmin bool
	err     error
	asked   uuid.UUID
}

func (s *stubAdminChecker) IsAdmin(_ context.Context, id uuid.UUID) (bool, error) {
	s.asked = id
	return s.isAdmin, s.err
}

func TestRequireAdminRejectsAnonymous(t *testing.T) {
	checker := &stubAdminChecker{isAdmin: true}
	handler := RequireAdmin(checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if checker.asked != uuid.Nil {
		t.Fatal("database should not be consulted for anonymous requests")
	}
}

func TestRequireAdminRejectsNonAdmin(t *testing.T) {
	checker := &stubAdminChecker{isAdmin: false}
	handler := RequireAdmin(checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), userID))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
	if checker.asked != userID {
		t.Fatalf("expected lookup for %s got %s", userID, checker.asked)
	}
}

func TestRequireAdminChecksDatabaseNotTokenClaim(t *testing.T) {
	checker := &stubAdminChecker{isAdmin: false}
	handler := RequireAdmin(checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Token says admin, database says no. The database wins.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := WithUserID(req.Context(), uuid.New())
	ctx = WithIsAdmin(ctx, true)
	req = req.WithContext(ctx)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	checker := &stubAdminChecker{isAdmin: true}
	handler := RequireAdmin(checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), uuid.New()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
