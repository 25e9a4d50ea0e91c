package auth

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newAuthServiceForTests(t *testing.T) *Service {
	t.Helper()
	repo, err := NewFileRepo(t.TempDir())
	if err != nil {
		t.Fatalf("new auth repo: %v", err)
	}
	return NewService(repo, log.New(io.Discard, "", 0))
}

func newSessionCookie(name, value string) *http.Cookie {
	return &http.Cookie{Name: name, Value: value}
}

func TestService_SignInAnonymous_MintsDistinctUsers(t *testing.T) {
	svc := newAuthServiceForTests(t)
	now := time.Date(2026, 2, 7, 9, 0, 0, 0, time.UTC)

	u1, token1, _, err := svc.SignInAnonymous(now)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	u2, token2, _, err := svc.SignInAnonymous(now)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if u1.ID == u2.ID {
		t.Fatalf("expected distinct users, both got %q", u1.ID)
	}
	if token1 == token2 {
		t.Fatalf("expected distinct session tokens")
	}
}

func TestService_AuthenticateRequest_RoundTrip(t *testing.T) {
	svc := newAuthServiceForTests(t)
	now := time.Date(2026, 2, 7, 9, 0, 0, 0, time.UTC)

	u, token, _, err := svc.SignInAnonymous(now)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/auth/session", nil)
	req.AddCookie(newSessionCookie(svc.cookieName, token))

	got, _, ok := svc.AuthenticateRequest(req, now.Add(time.Minute))
	if !ok {
		t.Fatalf("expected session to authenticate")
	}
	if got.ID != u.ID {
		t.Fatalf("expected user %q, got %q", u.ID, got.ID)
	}
}

func TestService_AuthenticateRequest_ExpiredSessionIsRejected(t *testing.T) {
	svc := newAuthServiceForTests(t)
	now := time.Date(2026, 2, 7, 10, 0, 0, 0, time.UTC)

	_, token, exp, err := svc.SignInAnonymous(now)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/auth/session", nil)
	req.AddCookie(newSessionCookie(svc.cookieName, token))

	if _, _, ok := svc.AuthenticateRequest(req, exp.Add(time.Second)); ok {
		t.Fatalf("expected expired session to be rejected")
	}
	if _, ok := svc.repo.GetSessionByTokenHash(hashToken(token)); ok {
		t.Fatalf("expected expired session to be removed from repo")
	}
}

func TestService_RevokeSessionForRequest(t *testing.T) {
	svc := newAuthServiceForTests(t)
	now := time.Date(2026, 2, 7, 11, 0, 0, 0, time.UTC)

	_, token, _, err := svc.SignInAnonymous(now)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	req.AddCookie(newSessionCookie(svc.cookieName, token))
	svc.RevokeSessionForRequest(req)

	if _, _, ok := svc.AuthenticateRequest(req, now.Add(time.Second)); ok {
		t.Fatalf("expected revoked session to be rejected")
	}
}
