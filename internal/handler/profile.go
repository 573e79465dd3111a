package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/museum-reservation/internal/middleware"
	"github.com/iliyamo/museum-reservation/internal/model"
	"github.com/iliyamo/museum-reservation/internal/session"
	"github.com/iliyamo/museum-reservation/internal/workflow"
)

// History lists the durable booking journal of an identity.
// *repository.BookingRepo implements it.
type History interface {
	ListByIdentity(ctx context.Context, identityID string) ([]model.ConfirmedBooking, error)
}

// ProfileHandler serves the profile page.  History is nil when no
// journal database is configured.
type ProfileHandler struct {
	History History
}

// Get handles GET /v1/profile: identity, ledger and aggregates.
func (h *ProfileHandler) Get(c echo.Context) error {
	v, ok := middleware.VisitFrom(c)
	if !ok {
		return missingVisit(c)
	}
	p, fx, err := v.Profile(c.Request().Context())
	if err != nil {
		return failure(c, err, fx)
	}
	return reply(c, http.StatusOK, echo.Map{"profile": p}, fx)
}

// Journal handles GET /v1/profile/journal: bookings recorded in the
// database for the signed-in identity, across visits and restarts.
func (h *ProfileHandler) Journal(c echo.Context) error {
	v, ok := middleware.VisitFrom(c)
	if !ok {
		return missingVisit(c)
	}
	id, ok := v.Identity()
	if !ok {
		return failure(c, session.ErrNotAuthenticated, workflow.Effects{})
	}
	if h.History == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "journal disabled"})
	}
	items, err := h.History.ListByIdentity(c.Request().Context(), id.ID)
	if err != nil {
		c.Logger().Errorf("list journal: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
