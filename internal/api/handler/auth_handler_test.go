package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dearecho/dearecho-api/internal/core/domain"
	"github.com/dearecho/dearecho-api/internal/core/ports"
)

type stubFlows struct {
	loginFn          func(ctx context.Context, email, password, origin string) (*ports.LoginResult, error)
	loginFederatedFn func(ctx context.Context, assertion, origin string) (*ports.LoginResult, error)
	registerFn       func(ctx context.Context, name, email, password, confirm string) (*ports.RegisterResult, error)
	logouts          int
}

func (f *stubFlows) Login(ctx context.Context, email, password, origin string) (*ports.LoginResult, error) {
	return f.loginFn(ctx, email, password, origin)
}

func (f *stubFlows) LoginFederated(ctx context.Context, assertion, origin string) (*ports.LoginResult, error) {
	return f.loginFederatedFn(ctx, assertion, origin)
}

func (f *stubFlows) Register(ctx context.Context, name, email, password, confirm string) (*ports.RegisterResult, error) {
	return f.registerFn(ctx, name, email, password, confirm)
}

func (f *stubFlows) Logout(context.Context) { f.logouts++ }

type stubSessions struct {
	session domain.Session
}

func (s *stubSessions) Snapshot() domain.Session { return s.session }

func invoke(t *testing.T, h echo.HandlerFunc, method, target, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return rec, h(e.NewContext(req, rec))
}

func TestLoginHandler_Success(t *testing.T) {
	flows := &stubFlows{
		loginFn: func(_ context.Context, email, password, origin string) (*ports.LoginResult, error) {
			if email != "jane@x.com" || password != "s3cret" || origin != "/mood" {
				t.Fatalf("unexpected args: %s %s %s", email, password, origin)
			}
			return &ports.LoginResult{
				User:       domain.User{ID: "u1", Name: "jane", Email: email},
				RedirectTo: "/mood",
			}, nil
		},
	}
	h := NewAuthHandler(flows, &stubSessions{})

	body := `{"email":"jane@x.com","password":"s3cret","from":"/mood"}`
	rec, err := invoke(t, h.Login, http.MethodPost, "/auth/login", body)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if resp.User.Name != "jane" || resp.RedirectTo != "/mood" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Message != "Welcome back to DearEcho!" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestLoginHandler_ErrorPassesThrough(t *testing.T) {
	flows := &stubFlows{
		loginFn: func(context.Context, string, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrWrongPassword
		},
	}
	h := NewAuthHandler(flows, &stubSessions{})

	_, err := invoke(t, h.Login, http.MethodPost, "/auth/login", `{"email":"a@b.co","password":"x"}`)
	if !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword to reach the error handler, got %v", err)
	}
}

func TestFederatedHandler_BlockedOutcome(t *testing.T) {
	h := NewAuthHandler(&stubFlows{}, &stubSessions{})

	_, err := invoke(t, h.LoginFederated, http.MethodPost, "/auth/federated", `{"outcome":"blocked"}`)
	if !errors.Is(err, domain.ErrPopupBlocked) {
		t.Fatalf("expected ErrPopupBlocked, got %v", err)
	}
}

func TestFederatedHandler_Success(t *testing.T) {
	flows := &stubFlows{
		loginFederatedFn: func(_ context.Context, assertion, origin string) (*ports.LoginResult, error) {
			if assertion != "assertion-token" {
				t.Fatalf("unexpected assertion: %q", assertion)
			}
			return &ports.LoginResult{User: domain.User{ID: "u2", Name: "Jane Doe"}, RedirectTo: "/"}, nil
		},
	}
	h := NewAuthHandler(flows, &stubSessions{})

	rec, err := invoke(t, h.LoginFederated, http.MethodPost, "/auth/federated", `{"assertion":"assertion-token"}`)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRegisterHandler_Created(t *testing.T) {
	flows := &stubFlows{
		registerFn: func(_ context.Context, name, email, password, confirm string) (*ports.RegisterResult, error) {
			if name != "Jane" || email != "jane@x.com" {
				t.Fatalf("unexpected args: %s %s", name, email)
			}
			return &ports.RegisterResult{JustRegistered: true, RedirectTo: "/auth"}, nil
		},
	}
	h := NewAuthHandler(flows, &stubSessions{})

	body := `{"name":"Jane","email":"jane@x.com","password":"Abcdef1!","confirm_password":"Abcdef1!"}`
	rec, err := invoke(t, h.Register, http.MethodPost, "/auth/register", body)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp registerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if !resp.JustRegistered || resp.RedirectTo != "/auth?registered=1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLogoutHandler_NoContent(t *testing.T) {
	flows := &stubFlows{}
	h := NewAuthHandler(flows, &stubSessions{})

	rec, err := invoke(t, h.Logout, http.MethodPost, "/auth/logout", "")
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if flows.logouts != 1 {
		t.Fatalf("expected one logout delegation, got %d", flows.logouts)
	}
}

func TestAuthPageHandler_RegisteredFlag(t *testing.T) {
	h := NewAuthHandler(&stubFlows{}, &stubSessions{})

	rec, err := invoke(t, h.Page, http.MethodGet, "/auth?registered=1", "")
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var resp authPageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if !resp.JustRegistered {
		t.Fatalf("expected just-registered flag set")
	}
}

func TestSessionHandler_ReturnsSnapshot(t *testing.T) {
	u := domain.User{ID: "u1", Name: "Jane"}
	h := NewAuthHandler(&stubFlows{}, &stubSessions{session: domain.Session{Authenticated: true, User: &u}})

	rec, err := invoke(t, h.Session, http.MethodGet, "/auth/session", "")
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var resp domain.Session
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if !resp.Authenticated || resp.User == nil || resp.User.ID != "u1" {
		t.Fatalf("unexpected session: %+v", resp)
	}
}
