package payment

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/museum-reservation/internal/ledger"
	"github.com/iliyamo/museum-reservation/internal/mailbox"
	"github.com/iliyamo/museum-reservation/internal/model"
	"github.com/iliyamo/museum-reservation/internal/session"
)

var (
	// ErrNoBookingFound is returned when the hand-off slot holds no draft.
	ErrNoBookingFound = errors.New("no booking found")
	// ErrPaymentDeclined is returned when the authorizer refuses the charge.
	// The draft stays in the slot so the visitor can retry.
	ErrPaymentDeclined = errors.New("payment declined")
	// ErrPaymentTimedOut is returned when the authorizer does not answer in
	// time.  The draft is discarded.
	ErrPaymentTimedOut = errors.New("payment timed out")
	// ErrPaymentInProgress is returned when a payment is claimed while an
	// earlier claim on the same processor has not ended.
	ErrPaymentInProgress = errors.New("payment already in progress")
)

// DefaultTimeout bounds one authorization attempt.
const DefaultTimeout = 10 * time.Second

const sinkTimeout = 5 * time.Second

// IdentitySource yields the identity a committed booking is credited to.
// *session.Manager implements it.
type IdentitySource interface {
	Current() (*session.Identity, bool)
}

// EventSink receives confirmed bookings after commit.
type EventSink interface {
	BookingConfirmed(ctx context.Context, who model.Identity, b model.ConfirmedBooking) error
}

// Options tune a Processor.  Zero values select defaults.
type Options struct {
	Timeout time.Duration
	Journal ledger.Journal
	Events  EventSink
	Logger  logrus.FieldLogger
	Now     func() time.Time
}

// Receipt describes a committed payment.
type Receipt struct {
	Booking model.ConfirmedBooking
	Method  Method
}

// Processor charges the draft waiting in one hand-off slot.
type Processor struct {
	mailbox  mailbox.Mailbox
	key      string
	auth     Authorizer
	ids      IdentitySource
	timeout  time.Duration
	journal  ledger.Journal
	events   EventSink
	log      logrus.FieldLogger
	now      func() time.Time
	inFlight atomic.Bool
}

// NewProcessor binds a processor to the slot under key.
func NewProcessor(mb mailbox.Mailbox, key string, auth Authorizer, ids IdentitySource, opts Options) *Processor {
	p := &Processor{
		mailbox: mb,
		key:     key,
		auth:    auth,
		ids:     ids,
		timeout: opts.Timeout,
		journal: opts.Journal,
		events:  opts.Events,
		log:     opts.Logger,
		now:     opts.Now,
	}
	if p.timeout <= 0 {
		p.timeout = DefaultTimeout
	}
	if p.journal == nil {
		p.journal = ledger.NopJournal{}
	}
	if p.log == nil {
		p.log = logrus.StandardLogger()
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// InFlight reports whether a payment has been claimed and not ended.
func (p *Processor) InFlight() bool { return p.inFlight.Load() }

// LoadDraft returns the draft waiting for payment without consuming it.
func (p *Processor) LoadDraft(ctx context.Context) (model.DraftSnapshot, error) {
	s, err := p.mailbox.Peek(ctx, p.key)
	if errors.Is(err, mailbox.ErrEmpty) {
		return model.DraftSnapshot{}, ErrNoBookingFound
	}
	if err != nil {
		return model.DraftSnapshot{}, fmt.Errorf("load draft: %w", err)
	}
	return s, nil
}

// Attempt is a claimed payment: the identity to credit and the draft to
// charge, both fixed when the claim was made.
type Attempt struct {
	Identity *session.Identity
	Draft    model.DraftSnapshot
}

// Begin claims the processor for one payment.  Until End is called every
// other Begin fails with ErrPaymentInProgress.  When Begin returns an
// error the claim is already released.
func (p *Processor) Begin(ctx context.Context) (Attempt, error) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return Attempt{}, ErrPaymentInProgress
	}
	who, ok := p.ids.Current()
	if !ok {
		p.End()
		return Attempt{}, session.ErrNotAuthenticated
	}
	snap, err := p.LoadDraft(ctx)
	if err != nil {
		p.End()
		return Attempt{}, err
	}
	return Attempt{Identity: who, Draft: snap}, nil
}

// End releases a claim taken by Begin.
func (p *Processor) End() { p.inFlight.Store(false) }

// Pay claims the processor, charges the waiting draft with method m and
// releases the claim.
func (p *Processor) Pay(ctx context.Context, m Method) (Receipt, error) {
	a, err := p.Begin(ctx)
	if err != nil {
		return Receipt{}, err
	}
	defer p.End()
	return p.Charge(ctx, a, m)
}

// Charge authorizes a claimed attempt.  On authorization the draft is
// consumed exactly once and a confirmed booking is appended to the
// attempt's identity.  A decline keeps the draft; a timeout discards it.
// If ctx ends before the authorizer resolves nothing is committed; once
// it resolves the commit runs to completion.
func (p *Processor) Charge(ctx context.Context, a Attempt, m Method) (Receipt, error) {
	snap := a.Draft
	amount := snap.TotalAmount()
	log := p.log.WithFields(logrus.Fields{
		"museum_id": snap.MuseumID,
		"amount":    amount,
		"method":    m.String(),
	})

	actx, cancel := context.WithTimeout(ctx, p.timeout)
	res, err := p.auth.Authorize(actx, amount, m)
	cancel()
	if err != nil {
		if !errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return Receipt{}, fmt.Errorf("authorize: %w", err)
		}
		res = TimedOut()
	}

	// The authorizer has resolved; finish regardless of the caller.
	ctx = context.WithoutCancel(ctx)
	switch res.Outcome {
	case OutcomeAuthorized:
		return p.commit(ctx, log, a.Identity, snap, m, res.Ref)
	case OutcomeDeclined:
		log.WithField("reason", res.Reason).Info("payment declined")
		return Receipt{}, fmt.Errorf("%w: %s", ErrPaymentDeclined, res.Reason)
	case OutcomeTimedOut:
		log.Warn("payment timed out")
		if err := p.mailbox.Clear(ctx, p.key); err != nil {
			log.WithError(err).Error("clear hand-off slot after timeout")
		}
		return Receipt{}, ErrPaymentTimedOut
	}
	return Receipt{}, fmt.Errorf("authorize: unknown outcome %v", res.Outcome)
}

func (p *Processor) commit(ctx context.Context, log logrus.FieldLogger, who *session.Identity, snap model.DraftSnapshot, m Method, ref string) (Receipt, error) {
	if _, err := p.mailbox.TakeOnce(ctx, p.key); err != nil {
		if errors.Is(err, mailbox.ErrEmpty) {
			return Receipt{}, ErrNoBookingFound
		}
		return Receipt{}, fmt.Errorf("consume draft: %w", err)
	}

	b := confirmedBooking(snap, m, ref, p.now().UTC())
	who.Ledger.Append(b)
	log = log.WithFields(logrus.Fields{"booking_id": b.ID, "identity": who.ID})
	log.Info("booking confirmed")

	sctx, cancel := context.WithTimeout(ctx, sinkTimeout)
	defer cancel()
	if err := p.journal.Record(sctx, who.ID, b); err != nil {
		log.WithError(err).Error("journal booking")
	}
	if p.events != nil {
		if err := p.events.BookingConfirmed(sctx, who.Identity, b); err != nil {
			log.WithError(err).Error("publish booking confirmed")
		}
	}
	return Receipt{Booking: b.Clone(), Method: m}, nil
}

// confirmedBooking lists the primary visitor first, then the additional
// members.
func confirmedBooking(s model.DraftSnapshot, m Method, ref string, at time.Time) model.ConfirmedBooking {
	members := make([]model.Member, 0, s.TotalMembers())
	members = append(members, model.Member{Name: s.Visitor.FullName(), Age: s.Visitor.Age})
	members = append(members, s.Members...)
	return model.ConfirmedBooking{
		ID:          uuid.NewString(),
		MuseumID:    s.MuseumID,
		MuseumName:  s.MuseumName,
		Date:        s.VisitDate,
		TimeSlot:    s.TimeSlot,
		Members:     members,
		TotalAmount: s.TotalAmount(),
		Status:      model.BookingStatusConfirmed,
		Method:      m.String(),
		PaymentRef:  ref,
		ConfirmedAt: at,
	}
}
