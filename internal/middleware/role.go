package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context

	"github.com/iliyamo/museum-reservation/internal/session"
	"github.com/iliyamo/museum-reservation/internal/workflow"
)

// RequireIdentity aborts requests whose visit has no signed-in identity.
// The response carries the same notification and redirect the workflow
// would produce, so clients handle it like any other failure.  It assumes
// VisitAuth has run.
func RequireIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, ok := VisitFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing visit"})
			}
			if _, ok := v.Identity(); !ok {
				f := workflow.Classify(session.ErrNotAuthenticated)
				return c.JSON(f.Status, echo.Map{
					"error":         f.Error(),
					"notifications": []any{f.Notification},
					"redirect":      f.Redirect,
				})
			}
			return next(c)
		}
	}
}
