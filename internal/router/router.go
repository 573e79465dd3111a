package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/museum-reservation/internal/handler"
	"github.com/iliyamo/museum-reservation/internal/middleware"
	"github.com/iliyamo/museum-reservation/internal/workflow"
)

// Handlers bundles every handler the API serves.
type Handlers struct {
	Museums  *handler.MuseumHandler
	Auth     *handler.AuthHandler
	Booking  *handler.BookingHandler
	Payment  *handler.PaymentHandler
	Profile  *handler.ProfileHandler
	Feedback *handler.FeedbackHandler
}

// Options carries the shared pieces routes are guarded with.  RateLimit
// and Cache may be nil.
type Options struct {
	JWTSecret string
	Visits    *workflow.Registry
	RateLimit echo.MiddlewareFunc
	Cache     echo.MiddlewareFunc
}

func (o Options) limit() []echo.MiddlewareFunc {
	if o.RateLimit == nil {
		return nil
	}
	return []echo.MiddlewareFunc{o.RateLimit}
}

// Setup registers the whole API on e.
func Setup(e *echo.Echo, h Handlers, o Options) {
	RegisterRoutes(e, o.Visits)
	RegisterPublic(e, h.Museums, h.Feedback, o)
	RegisterAuth(e, h.Auth, o)
	RegisterVisit(e, h.Booking, h.Payment, h.Profile, o)
}

// RegisterRoutes registers routes that need neither a device token nor
// rate limiting.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, visits handler.Counter) {
	e.GET("/healthz", handler.Health(visits))
}

// RegisterPublic registers the catalog and the feedback forms.  Museum
// reads do not depend on the caller and go through the response cache;
// the forms attach a visit when the device sends a token.
func RegisterPublic(e *echo.Echo, m *handler.MuseumHandler, f *handler.FeedbackHandler, o Options) {
	g := e.Group("/v1", o.limit()...)

	var cached []echo.MiddlewareFunc
	if o.Cache != nil {
		cached = append(cached, o.Cache)
	}
	g.GET("/museums", m.List, cached...)
	g.GET("/museums/:id", m.Get, cached...)

	optional := middleware.OptionalVisit(o.JWTSecret, o.Visits)
	g.POST("/feedback", f.SubmitFeedback, optional)
	g.POST("/contact", f.SubmitContact, optional)
}

// RegisterAuth registers sign-in routes under /v1/auth and the visit
// introspection route /v1/me.  Login and signup accept an optional token
// so a device keeps its visit across sign-ins.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, o Options) {
	g := e.Group("/v1/auth", o.limit()...)
	optional := middleware.OptionalVisit(o.JWTSecret, o.Visits)
	g.POST("/login", a.Login, optional)
	g.POST("/signup", a.Signup, optional)
	g.POST("/logout", a.Logout, middleware.VisitAuth(o.JWTSecret, o.Visits))

	e.GET("/v1/me", a.Me, append([]echo.MiddlewareFunc{middleware.VisitAuth(o.JWTSecret, o.Visits)}, o.limit()...)...)
}
