package workflow

import (
	"errors"
	"net/http"

	"github.com/iliyamo/museum-reservation/internal/catalog"
	"github.com/iliyamo/museum-reservation/internal/draft"
	"github.com/iliyamo/museum-reservation/internal/feedback"
	"github.com/iliyamo/museum-reservation/internal/model"
	"github.com/iliyamo/museum-reservation/internal/notify"
	"github.com/iliyamo/museum-reservation/internal/payment"
	"github.com/iliyamo/museum-reservation/internal/session"
)

var (
	// ErrNoDraft is returned for draft operations when no booking is
	// being drafted.
	ErrNoDraft = errors.New("no booking in progress")
)

// Failure is a classified workflow error: the notification shown to the
// visitor, where to send them (nil means stay) and the HTTP status.
type Failure struct {
	Err          error
	Notification model.Notification
	Redirect     *Redirect
	Status       int
}

func (f *Failure) Error() string { return f.Err.Error() }
func (f *Failure) Unwrap() error { return f.Err }

type rule struct {
	target      error
	title       string
	description string // empty: use the error text
	route       Route  // empty: stay
	status      int
}

// rules are matched in order with errors.Is.
var rules = []rule{
	{catalog.ErrMuseumNotFound, "Museum Not Found", "The museum you're looking for doesn't exist.", RouteHome, http.StatusNotFound},
	{session.ErrNotAuthenticated, "Authentication Required", "Please login to book museum visits.", RouteAuth, http.StatusUnauthorized},
	{session.ErrInvalidCredentials, "Login Failed", "Invalid credentials. Please check your email and password.", "", http.StatusUnauthorized},
	{session.ErrInvalidSignup, "Signup Failed", "Please try again.", "", http.StatusUnprocessableEntity},
	{draft.ErrTermsNotAccepted, "Terms Required", "Please accept the terms and conditions to proceed.", "", http.StatusUnprocessableEntity},
	{draft.ErrIncompleteSelection, "Missing Information", "Please select both date and time slot.", "", http.StatusUnprocessableEntity},
	{draft.ErrInvalidDate, "Invalid Date", "Please choose today or a later date.", "", http.StatusUnprocessableEntity},
	{draft.ErrUnknownTimeSlot, "Invalid Time Slot", "Please choose one of the museum's time slots.", "", http.StatusUnprocessableEntity},
	{draft.ErrInvalidVisitor, "Invalid Visitor Details", "", "", http.StatusUnprocessableEntity},
	{draft.ErrInvalidMember, "Invalid Member Details", "", "", http.StatusUnprocessableEntity},
	{draft.ErrTooManyMembers, "Too Many Members", "A booking can include at most 5 additional members.", "", http.StatusUnprocessableEntity},
	{draft.ErrInvalidField, "Invalid Booking Details", "", "", http.StatusUnprocessableEntity},
	{draft.ErrUnknownField, "Invalid Booking Details", "", "", http.StatusUnprocessableEntity},
	{ErrNoDraft, "No Booking In Progress", "Please choose a museum to start a booking.", RouteHome, http.StatusConflict},
	{payment.ErrNoBookingFound, "No Booking Found", "Please start the booking process again.", RouteHome, http.StatusNotFound},
	{payment.ErrInvalidMethod, "Invalid Payment Method", "", "", http.StatusUnprocessableEntity},
	{payment.ErrInvalidCard, "Invalid Card Details", "", "", http.StatusUnprocessableEntity},
	{payment.ErrPaymentInProgress, "Payment In Progress", "Your payment is already being processed.", "", http.StatusConflict},
	{payment.ErrPaymentDeclined, "Payment Declined", "", "", http.StatusPaymentRequired},
	{payment.ErrPaymentTimedOut, "Payment Timed Out", "The payment provider did not respond. Please start the booking process again.", RouteHome, http.StatusGatewayTimeout},
	{feedback.ErrRatingRequired, "Rating Required", "Please provide a rating for your experience.", "", http.StatusUnprocessableEntity},
	{feedback.ErrMissingField, "Missing Information", "", "", http.StatusUnprocessableEntity},
	{feedback.ErrInvalidOption, "Invalid Feedback", "", "", http.StatusUnprocessableEntity},
}

// Classify maps err to its Failure.  Unknown errors become a generic 500
// that keeps the visitor where they are.
func Classify(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	for _, r := range rules {
		if !errors.Is(err, r.target) {
			continue
		}
		desc := r.description
		if desc == "" {
			desc = err.Error()
		}
		out := &Failure{Err: err, Notification: notify.Error(r.title, desc), Status: r.status}
		if r.route != "" {
			red := To(r.route, "")
			out.Redirect = &red
		}
		return out
	}
	return &Failure{
		Err:          err,
		Notification: notify.Error("Something Went Wrong", "Please try again."),
		Status:       http.StatusInternalServerError,
	}
}
