package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/labstack/echo/v4"

	"storefront/internal/session"
)

const sessionKey = "session"

// Session resolves the caller's session. The id comes from the X-Session-Id
// header when present, otherwise it is derived from the bearer token, so
// anonymous demo sessions work without logging in first.
func Session(manager *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get("X-Session-Id")
			bearer := ""
			if id == "" {
				auth := c.Request().Header.Get("Authorization")
				if token, ok := strings.CutPrefix(auth, "Bearer "); ok && token != "" {
					sum := sha256.Sum256([]byte(token))
					id = hex.EncodeToString(sum[:8])
					bearer = token
				}
			}
			if id == "" {
				id = "anonymous"
			}

			sess := manager.Session(id)
			if bearer != "" {
				// a token-derived session must carry its own token, or a
				// client that logged in elsewhere (no X-Session-Id) would be
				// treated as anonymous on every bearer-only request
				ctx := c.Request().Context()
				if sess.Token(ctx) == "" {
					if err := sess.SeedToken(ctx, bearer); err != nil {
						return err
					}
				}
			}

			c.Set(sessionKey, sess)
			return next(c)
		}
	}
}

func SessionFrom(c echo.Context) *session.Session {
	sess, _ := c.Get(sessionKey).(*session.Session)
	return sess
}
