package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/core/session"
	"github.com/feedbackhub/portal/internal/infrastructure/storage"
)

func testSessionConfig() SessionConfig {
	return SessionConfig{Secret: "secret", CookieName: "sess", TTL: time.Hour, Repo: storage.NewMemoryRepository(0)}
}

func TestSession_IssuesCookieAndBindsStore(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var sid string
	handler := Session(testSessionConfig())(func(c echo.Context) error {
		store, ok := session.FromContext(c.Request().Context())
		if !ok {
			t.Fatalf("store not bound to request context")
		}
		sid = store.ID()
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "sess" || !cookies[0].HttpOnly {
		t.Fatalf("expected one http-only session cookie, got %+v", cookies)
	}
	got, err := parseSessionID(cookies[0].Value, "secret")
	if err != nil || got != sid {
		t.Fatalf("cookie sid %q does not match bound store %q (%v)", got, sid, err)
	}
}

func TestSession_ReusesValidCookie(t *testing.T) {
	signed, err := signSessionID("5f0c7a1e-6a8b-4a54-9d3f-2f9a5b6c7d8e", "secret", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sess", Value: signed})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Session(testSessionConfig())(func(c echo.Context) error {
		store, _ := SessionStore(c)
		if store.ID() != "5f0c7a1e-6a8b-4a54-9d3f-2f9a5b6c7d8e" {
			t.Fatalf("unexpected sid %q", store.ID())
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("valid cookie must not be reissued")
	}
}

func TestSession_ReplacesForgedCookie(t *testing.T) {
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sid": "5f0c7a1e-6a8b-4a54-9d3f-2f9a5b6c7d8e"})
	signed, err := forged.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sess", Value: signed})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Session(testSessionConfig())(func(c echo.Context) error {
		store, _ := SessionStore(c)
		if store.ID() == "5f0c7a1e-6a8b-4a54-9d3f-2f9a5b6c7d8e" {
			t.Fatalf("forged session id accepted")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Fatalf("expected a fresh cookie")
	}
}

func TestParseSessionID_Expired(t *testing.T) {
	signed, err := signSessionID("5f0c7a1e-6a8b-4a54-9d3f-2f9a5b6c7d8e", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := parseSessionID(signed, "secret"); err == nil {
		t.Fatalf("expected expired cookie to be rejected")
	}
}
