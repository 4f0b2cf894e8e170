package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smoralesdev/labtrack-backend/internal/auth"
	"github.com/smoralesdev/labtrack-backend/internal/users"
	pkgerrors "github.com/smoralesdev/labtrack-backend/pkg/errors"
)

type stubAuthSvc struct {
	login   *auth.LoginResponse
	refresh *auth.RefreshResponse
	err     error
}

func (s stubAuthSvc) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.login, s.err
}

func (s stubAuthSvc) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return s.refresh, s.err
}

func (s stubAuthSvc) Logout(ctx context.Context, accessID string) error {
	return s.err
}

func TestAuthLoginSuccess(t *testing.T) {
	svc := stubAuthSvc{login: &auth.LoginResponse{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		User:         &users.UserDTO{Email: "tech@labtrack.test"},
	}}
	handler := AuthLogin(svc, testLogger())

	body := `{"email":"tech@labtrack.test","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			AccessToken  string         `json:"access_token"`
			RefreshToken string         `json:"refresh_token"`
			User         *users.UserDTO `json:"user"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "access-token" || envelope.Data.User == nil {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestAuthLoginRejectsMissingPassword(t *testing.T) {
	handler := AuthLogin(stubAuthSvc{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader([]byte(`{"email":"tech@labtrack.test"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthLoginMapsBadCredentials(t *testing.T) {
	svc := stubAuthSvc{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(svc, testLogger())

	body := `{"email":"tech@labtrack.test","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRefreshRequiresBothTokens(t *testing.T) {
	handler := AuthRefresh(stubAuthSvc{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", bytes.NewReader([]byte(`{"access_token":"only-one"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthLogoutWithoutSessionIsUnauthorized(t *testing.T) {
	svc := stubAuthSvc{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")}
	handler := AuthLogout(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
