package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/orchis-hq/orchis/pkg/config"
	"github.com/orchis-hq/orchis/pkg/logging"
)

func newTestAuthHandler() *AuthHandler {
	return NewAuthHandler(&config.Config{
		GoogleClientID:    "client-id",
		GoogleRedirectURL: "http://localhost:8080/auth/google/callback",
		JWTSecret:         "testservlet",
		FrontendURL:       "http://localhost:3000/admin",
		AllowedEmails:     []string{"owner@orchis.io"},
	}, logging.Discard())
}

func TestLoginSetsStateAndRedirects(t *testing.T) {
	h := newTestAuthHandler()
	rr := httptest.NewRecorder()
	h.Login(rr, httptest.NewRequest("GET", "/auth/google/login", nil))

	if rr.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected redirect, got %d", rr.Code)
	}
	var state string
	for _, c := range rr.Result().Cookies() {
		if c.Name == oauthStateCookie {
			state = c.Value
		}
	}
	if state == "" {
		t.Fatal("oauth state cookie not set")
	}

	loc, err := url.Parse(rr.Header().Get("Location"))
	if err != nil {
		t.Fatal(err)
	}
	if loc.Query().Get("state") != state || loc.Query().Get("client_id") != "client-id" {
		t.Errorf("unexpected auth url: %s", loc)
	}
}

func TestCallbackRejectsBadState(t *testing.T) {
	h := newTestAuthHandler()

	rr := httptest.NewRecorder()
	h.Callback(rr, httptest.NewRequest("GET", "/auth/google/callback?state=x", nil))
	if rr.Code != http.StatusTemporaryRedirect {
		t.Errorf("missing state cookie: expected redirect, got %d", rr.Code)
	}

	req := httptest.NewRequest("GET", "/auth/google/callback?state=forged", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "real"})
	rr = httptest.NewRecorder()
	h.Callback(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("state mismatch: expected 400, got %d", rr.Code)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	h := newTestAuthHandler()
	rr := httptest.NewRecorder()
	h.Logout(rr, httptest.NewRequest("GET", "/auth/logout", nil))

	if got := rr.Header().Get("Location"); got != "http://localhost:3000/admin/login" {
		t.Errorf("unexpected redirect: %s", got)
	}
	cookie := rr.Header().Get("Set-Cookie")
	if !strings.HasPrefix(cookie, authCookieName+"=;") {
		t.Errorf("auth cookie not cleared: %s", cookie)
	}
}

func TestAllowlist(t *testing.T) {
	h := newTestAuthHandler()
	if !h.allowed("owner@orchis.io") || h.allowed("other@orchis.io") || h.allowed("") {
		t.Error("allowlist check mismatch")
	}

	open := NewAuthHandler(&config.Config{}, logging.Discard())
	if open.allowed("owner@orchis.io") {
		t.Error("an empty allowlist must deny everyone")
	}
}

func TestSignedTokenPassesMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testservlet", AllowedEmails: []string{"owner@orchis.io"}}
	token, err := signToken([]byte(cfg.JWTSecret), "owner@orchis.io", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/api/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: token})
	rr := httptest.NewRecorder()
	NewMiddleware(cfg, logging.Discard()).AuthMiddleware(http.HandlerFunc(NewAuthHandler(cfg, logging.Discard()).Me)).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "owner@orchis.io") {
		t.Errorf("unexpected response %d: %s", rr.Code, rr.Body.String())
	}
}
