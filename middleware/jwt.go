package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/yachtclub/identity"
)

const userKey = "user"

// Verifier checks a bearer token and returns its profile.
type Verifier interface {
	VerifyToken(token string) (*identity.User, bool)
}

// JWT returns an Echo middleware that requires a valid bearer token in the
// Authorization header and stores the caller's profile in the context.
func JWT(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request())
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Access token required")
			}

			user, ok := v.VerifyToken(token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(userKey, user)
			return next(c)
		}
	}
}

// OptionalJWT identifies the caller when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalJWT(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := bearerToken(c.Request()); token != "" {
				if user, ok := v.VerifyToken(token); ok {
					c.Set(userKey, user)
				}
			}
			return next(c)
		}
	}
}

// RequireRole rejects callers whose role is not in roles. It must run after JWT.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := UserFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Access token required")
			}
			if !identity.Allowed(user, roles...) {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}
			return next(c)
		}
	}
}

// UserFrom returns the authenticated caller, if any.
func UserFrom(c echo.Context) (*identity.User, bool) {
	user, ok := c.Get(userKey).(*identity.User)
	return user, ok && user != nil
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
