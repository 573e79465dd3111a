package draft

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/museum-reservation/internal/model"
)

// Validation failures, in the order Validate checks them.
var (
	ErrTermsNotAccepted    = errors.New("terms not accepted")
	ErrIncompleteSelection = errors.New("date and time slot required")
	ErrInvalidDate         = errors.New("visit date is in the past")
	ErrUnknownTimeSlot     = errors.New("time slot not offered by museum")
	ErrInvalidVisitor      = errors.New("invalid visitor details")
	ErrInvalidMember       = errors.New("invalid member details")
	ErrTooManyMembers      = errors.New("too many members")
)

const (
	minAge = 1
	maxAge = 120
)

// Validate checks whether d may be handed to payment.  It is pure: today
// is passed in and only its calendar date is used.  The first failing
// rule wins, so terms are reported before anything else.
func Validate(d Draft, today time.Time) error {
	if !d.TermsAccepted {
		return ErrTermsNotAccepted
	}
	if d.VisitDate.IsZero() || d.TimeSlot == "" {
		return ErrIncompleteSelection
	}
	if d.VisitDate.Before(dateOnly(today)) {
		return fmt.Errorf("%w: %s", ErrInvalidDate, d.VisitDate.Format(DateLayout))
	}
	if !d.Museum.HasTiming(d.TimeSlot) {
		return fmt.Errorf("%w: %q", ErrUnknownTimeSlot, d.TimeSlot)
	}
	if err := validateVisitor(d.Visitor); err != nil {
		return err
	}
	if len(d.Members) > model.MaxAdditionalMembers {
		return ErrTooManyMembers
	}
	for i, m := range d.Members {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("%w: member %d name is required", ErrInvalidMember, i+1)
		}
		if m.Age < minAge || m.Age > maxAge {
			return fmt.Errorf("%w: member %d age must be %d-%d", ErrInvalidMember, i+1, minAge, maxAge)
		}
	}
	return nil
}

func validateVisitor(v model.Visitor) error {
	switch {
	case strings.TrimSpace(v.FirstName) == "", strings.TrimSpace(v.LastName) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidVisitor)
	case strings.TrimSpace(v.Email) == "":
		return fmt.Errorf("%w: email is required", ErrInvalidVisitor)
	case strings.TrimSpace(v.Phone) == "":
		return fmt.Errorf("%w: phone is required", ErrInvalidVisitor)
	case v.Age < minAge || v.Age > maxAge:
		return fmt.Errorf("%w: age must be %d-%d", ErrInvalidVisitor, minAge, maxAge)
	}
	return nil
}

// dateOnly truncates t to its calendar date in t's own location, then
// expresses it as UTC midnight so it compares with parsed visit dates.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
