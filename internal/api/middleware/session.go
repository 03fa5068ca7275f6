package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/core/session"
)

const (
	ContextKeySession = "session"
	ContextKeyUser    = "user"
)

// SessionConfig configures the session cookie. The cookie only carries a
// signed session id; token and profile stay in Repo.
type SessionConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
	Repo       ports.SessionRepository
}

// Session resolves the caller's session id from the signed cookie, issuing a
// new one when it is missing, tampered with or expired, and binds the
// session store to the request context.
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = "portal_session"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if ck, err := c.Cookie(cfg.CookieName); err == nil {
				sid, _ = parseSessionID(ck.Value, cfg.Secret)
			}

			if sid == "" {
				sid = uuid.NewString()
				signed, err := signSessionID(sid, cfg.Secret, cfg.TTL)
				if err != nil {
					return fmt.Errorf("session cookie: %w", err)
				}
				c.SetCookie(&http.Cookie{
					Name:     cfg.CookieName,
					Value:    signed,
					Path:     "/",
					MaxAge:   int(cfg.TTL.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			store := session.NewStore(sid, cfg.Repo)
			req := c.Request()
			c.SetRequest(req.WithContext(session.NewContext(req.Context(), store)))
			c.Set(ContextKeySession, store)

			return next(c)
		}
	}
}

func signSessionID(sid, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}

func parseSessionID(raw, secret string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return "", fmt.Errorf("invalid session cookie: %w", err)
	}

	sid, _ := claims["sid"].(string)
	if _, err := uuid.Parse(sid); err != nil {
		return "", fmt.Errorf("invalid session id: %w", err)
	}
	return sid, nil
}

// SessionStore returns the store bound by Session.
func SessionStore(c echo.Context) (*session.Store, bool) {
	s, ok := c.Get(ContextKeySession).(*session.Store)
	if ok && s != nil {
		return s, true
	}
	return session.FromContext(c.Request().Context())
}
