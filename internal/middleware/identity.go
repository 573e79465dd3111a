package middleware

// identity.go defines helpers shared across middleware files and handlers
// for reading the visit bound to a request.  VisitAuth stores the visit
// under visitKey; anonymous requests have none.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/museum-reservation/internal/workflow"
)

const (
	visitKey   = "visit"
	visitIDKey = "visit_id"
	userIDKey  = "user_id"
)

// VisitFrom returns the visit attached by VisitAuth, if any.
func VisitFrom(c echo.Context) (*workflow.Visit, bool) {
	v, ok := c.Get(visitKey).(*workflow.Visit)
	return v, ok && v != nil
}

// SetVisit binds v to the request.  Login and signup use it after
// creating a visit for a device that had no token.
func SetVisit(c echo.Context, v *workflow.Visit) {
	c.Set(visitKey, v)
	c.Set(visitIDKey, v.ID())
	if id, ok := v.Identity(); ok {
		c.Set(userIDKey, id.ID)
	}
}

// visitID returns the visit id of the request, or "anon".
func visitID(c echo.Context) string {
	if s, ok := c.Get(visitIDKey).(string); ok && s != "" {
		return s
	}
	return "anon"
}

// userID returns the identity id carried by the token, or "guest".
func userID(c echo.Context) string {
	if s, ok := c.Get(userIDKey).(string); ok && s != "" {
		return s
	}
	return "guest"
}
