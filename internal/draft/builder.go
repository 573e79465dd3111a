// Package draft builds one in-progress museum booking: field edits,
// additional members, validation and the immutable snapshot that is
// handed to payment.
package draft

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/museum-reservation/internal/catalog"
	"github.com/iliyamo/museum-reservation/internal/mailbox"
	"github.com/iliyamo/museum-reservation/internal/model"
)

// DateLayout is the wire form of a visit date.
const DateLayout = "2006-01-02"

var (
	// ErrUnknownField is returned for a field name the form does not have.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidField is returned when a value cannot be parsed for its field.
	ErrInvalidField = errors.New("invalid field value")
)

// Field names a primary visitor or visit field of the booking form.
type Field string

const (
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
	FieldAge       Field = "age"
	FieldEmail     Field = "email"
	FieldPhone     Field = "phone"
	FieldDate      Field = "date"
	FieldTimeSlot  Field = "timeSlot"
	FieldTerms     Field = "termsAccepted"
)

// MemberField names an editable field of an additional member.
type MemberField string

const (
	MemberName MemberField = "name"
	MemberAge  MemberField = "age"
	MemberID   MemberField = "id"
)

// Draft is the editable state of a booking bound to one museum.
type Draft struct {
	Museum        model.Museum
	Visitor       model.Visitor
	VisitDate     time.Time
	TimeSlot      string
	Members       []model.Member
	TermsAccepted bool
}

// TotalMembers counts the primary visitor plus additional members.
func (d Draft) TotalMembers() int { return len(d.Members) + 1 }

// TotalAmount is TotalMembers times the museum's ticket price.
func (d Draft) TotalAmount() int { return d.TotalMembers() * d.Museum.TicketPrice }

// Builder accumulates edits to a single draft.  It is not safe for
// concurrent use; the owning visit serialises access.
type Builder struct {
	draft Draft
	now   func() time.Time
}

// New binds a fresh draft to museumID.  It fails with
// catalog.ErrMuseumNotFound, and creates nothing, when the museum is
// unknown.  now defaults to time.Now.
func New(ctx context.Context, c catalog.Catalog, museumID string, now func() time.Time) (*Builder, error) {
	m, err := c.GetMuseum(ctx, museumID)
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &Builder{
		draft: Draft{Museum: m, Visitor: model.Visitor{Phone: "+91"}},
		now:   now,
	}, nil
}

// MuseumID is the id of the museum the draft is bound to.
func (b *Builder) MuseumID() string { return b.draft.Museum.ID }

// Draft returns a copy of the current state.
func (b *Builder) Draft() Draft {
	d := b.draft
	d.Members = append([]model.Member(nil), b.draft.Members...)
	return d
}

// SetField parses value for field and stores it.  An empty date or age
// clears the field.
func (b *Builder) SetField(field Field, value string) error {
	switch field {
	case FieldFirstName:
		b.draft.Visitor.FirstName = value
	case FieldLastName:
		b.draft.Visitor.LastName = value
	case FieldEmail:
		b.draft.Visitor.Email = value
	case FieldPhone:
		b.draft.Visitor.Phone = value
	case FieldAge:
		age, err := parseAge(value)
		if err != nil {
			return err
		}
		b.draft.Visitor.Age = age
	case FieldDate:
		if strings.TrimSpace(value) == "" {
			b.draft.VisitDate = time.Time{}
			return nil
		}
		t, err := time.Parse(DateLayout, strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: date %q", ErrInvalidField, value)
		}
		b.draft.VisitDate = t
	case FieldTimeSlot:
		b.draft.TimeSlot = value
	case FieldTerms:
		ok, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: termsAccepted %q", ErrInvalidField, value)
		}
		b.draft.TermsAccepted = ok
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// AddMember appends an empty member.  Past the member limit it does
// nothing and returns false.
func (b *Builder) AddMember() bool {
	if len(b.draft.Members) >= model.MaxAdditionalMembers {
		return false
	}
	b.draft.Members = append(b.draft.Members, model.Member{})
	return true
}

// RemoveMember deletes the member at index i, preserving order.  An
// out-of-range index is a no-op and returns false.
func (b *Builder) RemoveMember(i int) bool {
	if i < 0 || i >= len(b.draft.Members) {
		return false
	}
	b.draft.Members = append(b.draft.Members[:i:i], b.draft.Members[i+1:]...)
	return true
}

// UpdateMember sets one field of the member at index i.  An out-of-range
// index is a no-op.
func (b *Builder) UpdateMember(i int, field MemberField, value string) error {
	if i < 0 || i >= len(b.draft.Members) {
		return nil
	}
	m := b.draft.Members[i]
	switch field {
	case MemberName:
		m.Name = value
	case MemberAge:
		age, err := parseAge(value)
		if err != nil {
			return err
		}
		m.Age = age
	case MemberID:
		m.ID = value
	default:
		return fmt.Errorf("%w: member %s", ErrUnknownField, field)
	}
	b.draft.Members[i] = m
	return nil
}

// Validate runs Validate against the builder's clock.
func (b *Builder) Validate() error {
	return Validate(b.draft, b.now())
}

// Snapshot builds the immutable hand-off copy of the draft.  It does not
// validate.
func (b *Builder) Snapshot() model.DraftSnapshot {
	d := b.Draft()
	return model.DraftSnapshot{
		MuseumID:      d.Museum.ID,
		MuseumName:    d.Museum.Name,
		TicketPrice:   d.Museum.TicketPrice,
		Visitor:       d.Visitor,
		VisitDate:     d.VisitDate.Format(DateLayout),
		TimeSlot:      d.TimeSlot,
		Members:       d.Members,
		TermsAccepted: d.TermsAccepted,
		SubmittedAt:   b.now().UTC(),
	}
}

// Submit validates the draft and publishes its snapshot to the hand-off
// slot under key, replacing whatever was there.  On a validation error
// nothing is published and the draft is kept as is.
func (b *Builder) Submit(ctx context.Context, mb mailbox.Mailbox, key string) (model.DraftSnapshot, error) {
	if err := b.Validate(); err != nil {
		return model.DraftSnapshot{}, err
	}
	snap := b.Snapshot()
	if err := mb.Put(ctx, key, snap); err != nil {
		return model.DraftSnapshot{}, fmt.Errorf("publish draft: %w", err)
	}
	return snap, nil
}

func parseAge(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: age %q", ErrInvalidField, value)
	}
	return n, nil
}
