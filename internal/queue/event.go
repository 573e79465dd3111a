// Package queue defines message payloads exchanged over the message broker
// and the consumer that turns confirmed bookings into log lines.
package queue

import (
	"time"

	"github.com/samber/lo"

	"github.com/iliyamo/museum-reservation/internal/model"
)

// Durable queues the service publishes to.
const (
	BookingConfirmedQueue = "booking.confirmed"
	NotificationsQueue    = "notifications"
	FeedbackQueue         = "feedback.submitted"
	ContactQueue          = "contact.submitted"
)

// Queues lists every queue the publisher declares.
var Queues = []string{BookingConfirmedQueue, NotificationsQueue, FeedbackQueue, ContactQueue}

// BookingConfirmedEvent is published when a museum visit has been paid for.
// It carries enough for downstream consumers to log, email a ticket or
// feed analytics without calling back into the service.
type BookingConfirmedEvent struct {
	BookingID     string   `json:"booking_id"`
	IdentityID    string   `json:"identity_id"`
	IdentityEmail string   `json:"identity_email"`
	MuseumID      string   `json:"museum_id"`
	MuseumName    string   `json:"museum_name"`
	VisitDate     string   `json:"visit_date"`
	TimeSlot      string   `json:"time_slot"`
	Visitors      []string `json:"visitors"`
	TotalAmount   int      `json:"total_amount"`
	Method        string   `json:"method"`
	PaymentRef    string   `json:"payment_ref"`
	ConfirmedAt   string   `json:"confirmed_at"`
}

// NewBookingConfirmedEvent flattens a committed booking for the wire.
func NewBookingConfirmedEvent(who model.Identity, b model.ConfirmedBooking) BookingConfirmedEvent {
	return BookingConfirmedEvent{
		BookingID:     b.ID,
		IdentityID:    who.ID,
		IdentityEmail: who.Email,
		MuseumID:      b.MuseumID,
		MuseumName:    b.MuseumName,
		VisitDate:     b.Date,
		TimeSlot:      b.TimeSlot,
		Visitors:      lo.Map(b.Members, func(m model.Member, _ int) string { return m.Name }),
		TotalAmount:   b.TotalAmount,
		Method:        b.Method,
		PaymentRef:    b.PaymentRef,
		ConfirmedAt:   b.ConfirmedAt.UTC().Format(time.RFC3339),
	}
}

// NotificationEvent mirrors a notification shown to a visit.
type NotificationEvent struct {
	VisitID     string                 `json:"visit_id"`
	Kind        model.NotificationKind `json:"kind"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	At          string                 `json:"at"`
}
