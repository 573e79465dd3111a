// Package handler exposes the HTTP handlers of the museum booking API.
// Every response body carries the notifications raised by the request
// and, when the client should navigate, a redirect.
package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/museum-reservation/internal/model"
	"github.com/iliyamo/museum-reservation/internal/workflow"
)

// reply writes body with the effects of the request merged in.
func reply(c echo.Context, status int, body echo.Map, fx workflow.Effects) error {
	if body == nil {
		body = echo.Map{}
	}
	body["notifications"] = notifications(fx)
	if fx.Redirect != nil {
		body["redirect"] = fx.Redirect
	}
	return c.JSON(status, body)
}

// failure writes err as a classified error response.  When the workflow
// already raised the failure's notification it is not repeated.
func failure(c echo.Context, err error, fx workflow.Effects) error {
	f := workflow.Classify(err)
	if len(fx.Notifications) == 0 {
		fx.Notifications = []model.Notification{f.Notification}
		fx.Redirect = f.Redirect
	}
	return reply(c, f.Status, echo.Map{"error": f.Error()}, fx)
}

func notifications(fx workflow.Effects) []model.Notification {
	if fx.Notifications == nil {
		return []model.Notification{}
	}
	return fx.Notifications
}

// missingVisit answers a request that reached a visit route without one.
func missingVisit(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing visit"})
}

// bindBody decodes only the request body.  Bind would also copy path
// parameters into map destinations.
func bindBody(c echo.Context, dst any) error {
	return new(echo.DefaultBinder).BindBody(c, dst)
}

// stringify renders a decoded JSON value as the string form edits take.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
