package workflow

import (
	"strings"
	"sync"
)

// Route is a client-side page the visitor should be sent to.
type Route string

const (
	RouteHome      Route = "/"
	RouteAuth      Route = "/auth"
	RouteDashboard Route = "/dashboard/:museumId"
	RouteBooking   Route = "/booking/:museumId"
	RoutePayment   Route = "/payment/:museumId"
	RouteProfile   Route = "/profile"
	RouteFeedback  Route = "/feedback"
	RouteContact   Route = "/contact"
)

// Redirect is a navigation hint returned with a response.
type Redirect struct {
	Route  Route             `json:"route"`
	Params map[string]string `json:"params,omitempty"`
}

// To builds a redirect to route with the given museum id, if any.
func To(route Route, museumID string) Redirect {
	r := Redirect{Route: route}
	if museumID != "" && strings.Contains(string(route), ":museumId") {
		r.Params = map[string]string{"museumId": museumID}
	}
	return r
}

// Path fills the route's parameters.
func (r Redirect) Path() string {
	p := string(r.Route)
	for k, v := range r.Params {
		p = strings.ReplaceAll(p, ":"+k, v)
	}
	return p
}

// Navigator is the goTo capability of a visit.
type Navigator interface {
	GoTo(r Redirect)
}

// Location remembers the last route a visit was sent to.
type Location struct {
	mu   sync.Mutex
	last Redirect
}

func (l *Location) GoTo(r Redirect) {
	l.mu.Lock()
	l.last = r
	l.mu.Unlock()
}

// Current returns the last redirect, or home before any navigation.
func (l *Location) Current() Redirect {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.last.Route == "" {
		return Redirect{Route: RouteHome}
	}
	return l.last
}
