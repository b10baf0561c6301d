package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/furnishd/furnishd-backend/api/middleware"
	"github.com/furnishd/furnishd-backend/internal/auth"
	user "github.com/furnishd/furnishd-backend/internal/users"
	pkgerrors "github.com/furnishd/furnishd-backend/pkg/errors"
)

type stubAuthService struct {
	resp        *auth.AuthResponse
	err         error
	gotRegister auth.RegisterRequest
	gotLogin    auth.LoginRequest
	loggedOut   string
}

func (s *stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	s.gotRegister = req
	return s.resp, s.err
}

func (s *stubAuthService) RegisterAdmin(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	s.gotRegister = req
	return s.resp, s.err
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error) {
	s.gotLogin = req
	return s.resp, s.err
}

func (s *stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.AuthResponse, error) {
	return s.resp, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.loggedOut = accessID
	return s.err
}

func TestRegisterReturnsTokens(t *testing.T) {
	t.Parallel()

	svc := &stubAuthService{resp: &auth.AuthResponse{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         &user.UserDTO{Email: "ada@example.com"},
	}}

	body := `{"email":"ada@example.com","password":"hunter2hunter2","first_name":"Ada","last_name":"Buyer"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	Register(svc, nil)(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotRegister.Email != "ada@example.com" {
		t.Fatalf("register payload not forwarded: %+v", svc.gotRegister)
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "access" || envelope.Data.RefreshToken != "refresh" {
		t.Fatalf("unexpected token payload: %+v", envelope.Data)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	t.Parallel()

	svc := &stubAuthService{}
	body := `{"email":"ada@example.com","password":"short","first_name":"Ada","last_name":"Buyer"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	Register(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestLoginUnauthorized(t *testing.T) {
	t.Parallel()

	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	body := `{"email":"ada@example.com","password":"wrong-password"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	resp := httptest.NewRecorder()
	Login(svc, nil)(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestLogoutUsesAccessIDFromContext(t *testing.T) {
	t.Parallel()

	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req = req.WithContext(middleware.WithAccessID(req.Context(), "session-123"))
	resp := httptest.NewRecorder()
	Logout(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.loggedOut != "session-123" {
		t.Fatalf("expected logout of session-123 got %q", svc.loggedOut)
	}
}

func TestLogoutWithoutSession(t *testing.T) {
	t.Parallel()

	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	resp := httptest.NewRecorder()
	Logout(svc, nil)(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if svc.loggedOut != "" {
		t.Fatal("logout should not reach the service without a session")
	}
}
