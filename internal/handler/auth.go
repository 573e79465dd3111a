package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/museum-reservation/internal/config"
	"github.com/iliyamo/museum-reservation/internal/middleware"
	"github.com/iliyamo/museum-reservation/internal/model"
	"github.com/iliyamo/museum-reservation/internal/utils"
	"github.com/iliyamo/museum-reservation/internal/workflow"
)

// AuthHandler signs devices in and out.  A device without a token gets a
// fresh visit on login or signup; a device with one keeps its visit.
type AuthHandler struct {
	Cfg    config.Config
	Visits *workflow.Registry
}

func NewAuthHandler(cfg config.Config, visits *workflow.Registry) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Visits: visits}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type signupReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// visitFor returns the request's visit, creating one when the device
// has none.  created reports whether it is new.
func (h *AuthHandler) visitFor(c echo.Context) (v *workflow.Visit, created bool, err error) {
	if v, ok := middleware.VisitFrom(c); ok {
		return v, false, nil
	}
	v, err = h.Visits.Create()
	if err != nil {
		return nil, false, err
	}
	middleware.SetVisit(c, v)
	return v, true, nil
}

// signIn runs op on the device's visit and answers with a device token.
// A visit created for a failed attempt is dropped again.
func (h *AuthHandler) signIn(c echo.Context, status int, op func(ctx context.Context, v *workflow.Visit) (model.Identity, workflow.Effects, error)) error {
	v, created, err := h.visitFor(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create visit failed"})
	}
	ctx := c.Request().Context()
	id, fx, err := op(ctx, v)
	if err != nil {
		if created {
			h.Visits.Remove(ctx, v.ID())
		}
		return failure(c, err, fx)
	}
	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, v.ID(), id.ID, h.Cfg.SessionTTL())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return reply(c, status, echo.Map{
		"user":  id,
		"token": tokenPart{Token: tok.Token, Expires: tok.Exp},
	}, fx)
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := strings.TrimSpace(req.Email)
	return h.signIn(c, http.StatusOK, func(ctx context.Context, v *workflow.Visit) (model.Identity, workflow.Effects, error) {
		return v.Login(ctx, email, req.Password)
	})
}

// Signup handles POST /v1/auth/signup.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name, email := strings.TrimSpace(req.Name), strings.TrimSpace(req.Email)
	return h.signIn(c, http.StatusCreated, func(ctx context.Context, v *workflow.Visit) (model.Identity, workflow.Effects, error) {
		return v.Signup(ctx, name, email, req.Password)
	})
}

// Logout handles POST /v1/auth/logout.  The device token stays valid for
// the now anonymous visit.
func (h *AuthHandler) Logout(c echo.Context) error {
	v, ok := middleware.VisitFrom(c)
	if !ok {
		return missingVisit(c)
	}
	fx, err := v.Logout(c.Request().Context())
	if err != nil {
		return failure(c, err, fx)
	}
	return reply(c, http.StatusOK, echo.Map{"state": v.State()}, fx)
}

// Me handles GET /v1/me: the visit's identity, state and location.
func (h *AuthHandler) Me(c echo.Context) error {
	v, ok := middleware.VisitFrom(c)
	if !ok {
		return missingVisit(c)
	}
	body := echo.Map{"visit": v.ID(), "state": v.State(), "location": v.Location()}
	if id, ok := v.Identity(); ok {
		body["user"] = id
	}
	if b, ok := v.LastBooking(); ok {
		body["last_booking"] = b
	}
	return c.JSON(http.StatusOK, body)
}
