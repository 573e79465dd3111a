package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/museum-reservation/internal/utils"
	"github.com/iliyamo/museum-reservation/internal/workflow"
)

// VisitLookup resolves the visit id carried in a device token.
// *workflow.Registry implements it.
type VisitLookup interface {
	Get(id string) (*workflow.Visit, bool)
}

// bearer extracts the raw token from the Authorization header.
func bearer(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return raw, raw != ""
}

// VisitAuth returns an Echo middleware that validates a Bearer device
// token and loads the visit it names.  The provided secret must match the
// one used when issuing tokens.  Handlers read the visit with VisitFrom.
func VisitAuth(secret string, visits VisitLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearer(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			v, ok := visits.Get(claims.VisitID)
			if !ok {
				// The visit expired or the server restarted; the device
				// has to sign in again.
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "visit expired"})
			}
			c.Set(visitKey, v)
			c.Set(visitIDKey, claims.VisitID)
			if claims.Subject != "" {
				c.Set(userIDKey, claims.Subject)
			}
			return next(c)
		}
	}
}

// OptionalVisit is like VisitAuth but lets requests without a usable
// token through with no visit attached.
func OptionalVisit(secret string, visits VisitLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearer(c)
			if !ok {
				return next(c)
			}
			claims, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return next(c)
			}
			if v, ok := visits.Get(claims.VisitID); ok {
				c.Set(visitKey, v)
				c.Set(visitIDKey, claims.VisitID)
			}
			return next(c)
		}
	}
}
