package model

import "time"

// BookingStatus is the lifecycle state of a confirmed booking.  Only
// status transitions may change a booking once it sits in a ledger.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// MaxAdditionalMembers caps how many people can join the primary visitor.
const MaxAdditionalMembers = 5

// Member is an additional person on a booking.
//
// Fields:
//  Name – full name, must be non-empty at submit time.
//  Age  – age in years, 1..120 at submit time.
//  ID   – optional identity document number.
type Member struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
	ID   string `json:"id,omitempty"`
}

// Visitor holds the primary visitor fields of a booking form.
type Visitor struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       int    `json:"age"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// FullName joins first and last name the way it is printed on a ticket.
func (v Visitor) FullName() string {
	switch {
	case v.FirstName == "":
		return v.LastName
	case v.LastName == "":
		return v.FirstName
	}
	return v.FirstName + " " + v.LastName
}

// DraftSnapshot is the read-only copy of a submitted booking draft that
// travels through the hand-off slot from the booking step to the payment
// step.  Totals are never stored; TotalMembers and TotalAmount recompute
// them from the member list and the ticket price.
//
// Fields:
//  MuseumID      – catalog id of the museum.
//  MuseumName    – denormalised display name.
//  TicketPrice   – price per person captured at submit time.
//  Visitor       – primary visitor.
//  VisitDate     – calendar date in 2006-01-02 form.
//  TimeSlot      – one of the museum's timing labels.
//  Members       – 0..5 additional members.
//  TermsAccepted – always true for a published snapshot.
//  SubmittedAt   – UTC time the draft was submitted.
type DraftSnapshot struct {
	MuseumID      string    `json:"museum_id"`
	MuseumName    string    `json:"museum_name"`
	TicketPrice   int       `json:"ticket_price"`
	Visitor       Visitor   `json:"visitor"`
	VisitDate     string    `json:"visit_date"`
	TimeSlot      string    `json:"time_slot"`
	Members       []Member  `json:"members"`
	TermsAccepted bool      `json:"terms_accepted"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// TotalMembers counts the primary visitor plus additional members.
func (s DraftSnapshot) TotalMembers() int { return len(s.Members) + 1 }

// TotalAmount is TotalMembers times the ticket price.
func (s DraftSnapshot) TotalAmount() int { return s.TotalMembers() * s.TicketPrice }

// ConfirmedBooking records a paid visit in an identity's ledger.  It is
// created once, after a successful authorization, and is immutable apart
// from Status.
//
// Fields:
//  ID          – opaque booking identifier.
//  MuseumID    – catalog id of the museum.
//  MuseumName  – denormalised display name.
//  Date        – visit date in 2006-01-02 form.
//  TimeSlot    – booked timing label.
//  Members     – everyone on the ticket, primary visitor first.
//  TotalAmount – amount charged in rupees.
//  Status      – pending, confirmed or cancelled.
//  Method      – payment instrument used (e.g. "upi:gpay"), empty for seeded data.
//  PaymentRef  – authorizer reference, empty for seeded data.
//  ConfirmedAt – when the booking was committed, zero for seeded data.
type ConfirmedBooking struct {
	ID          string        `json:"id"`
	MuseumID    string        `json:"museum_id"`
	MuseumName  string        `json:"museum_name"`
	Date        string        `json:"date"`
	TimeSlot    string        `json:"time_slot"`
	Members     []Member      `json:"members"`
	TotalAmount int           `json:"total_amount"`
	Status      BookingStatus `json:"status"`
	Method      string        `json:"method,omitempty"`
	PaymentRef  string        `json:"payment_ref,omitempty"`
	ConfirmedAt time.Time     `json:"confirmed_at,omitempty"`
}

// Clone returns a copy that does not share the Members slice.
func (b ConfirmedBooking) Clone() ConfirmedBooking {
	out := b
	out.Members = append([]Member(nil), b.Members...)
	return out
}
