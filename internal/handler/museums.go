package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/iliyamo/museum-reservation/internal/catalog"
	"github.com/iliyamo/museum-reservation/internal/model"
	"github.com/iliyamo/museum-reservation/internal/workflow"
)

// MuseumHandler serves the public catalog.  Responses do not depend on
// the caller, so the router puts the response cache in front of it.
type MuseumHandler struct {
	Catalog catalog.Catalog
}

// PublicMuseum is a museum with its dashboard availability level.
type PublicMuseum struct {
	model.Museum
	Availability catalog.Availability `json:"availability"`
}

func publicMuseum(m model.Museum) PublicMuseum {
	return PublicMuseum{Museum: m, Availability: catalog.AvailabilityOf(m)}
}

// List handles GET /v1/museums.  Response JSON contains an "items" array.
func (h *MuseumHandler) List(c echo.Context) error {
	museums, err := h.Catalog.ListMuseums(c.Request().Context())
	if err != nil {
		return failure(c, err, workflow.Effects{})
	}
	items := lo.Map(museums, func(m model.Museum, _ int) PublicMuseum { return publicMuseum(m) })
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/museums/:id, the museum dashboard.  An unknown id
// is a 404 that sends the visitor home.
func (h *MuseumHandler) Get(c echo.Context) error {
	m, err := h.Catalog.GetMuseum(c.Request().Context(), c.Param("id"))
	if err != nil {
		return failure(c, err, workflow.Effects{})
	}
	return c.JSON(http.StatusOK, echo.Map{"museum": publicMuseum(m)})
}
