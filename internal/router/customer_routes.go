package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/museum-reservation/internal/handler"
	"github.com/iliyamo/museum-reservation/internal/middleware"
)

// RegisterVisit registers the booking journey under /v1.  All routes
// require a device token whose visit is still live.  Booking and profile
// routes also require a signed-in identity; payment routes check it in
// the workflow so a logout during payment is reported as such.
func RegisterVisit(e *echo.Echo, b *handler.BookingHandler, p *handler.PaymentHandler, pr *handler.ProfileHandler, o Options) {
	mws := append([]echo.MiddlewareFunc{middleware.VisitAuth(o.JWTSecret, o.Visits)}, o.limit()...)
	g := e.Group("/v1", mws...)

	signedIn := g.Group("", middleware.RequireIdentity())
	signedIn.POST("/bookings/:museumId", b.Begin)
	signedIn.GET("/booking", b.Get)
	signedIn.PATCH("/booking", b.Update)
	signedIn.DELETE("/booking", b.Abort)
	signedIn.POST("/booking/members", b.AddMember)
	signedIn.PATCH("/booking/members/:index", b.UpdateMember)
	signedIn.DELETE("/booking/members/:index", b.RemoveMember)
	signedIn.POST("/booking/submit", b.Submit)
	signedIn.GET("/profile", pr.Get)
	signedIn.GET("/profile/journal", pr.Journal)

	g.GET("/payment", p.Get)
	g.POST("/payment", p.Pay)
}
