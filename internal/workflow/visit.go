package workflow

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/museum-reservation/internal/catalog"
	"github.com/iliyamo/museum-reservation/internal/draft"
	"github.com/iliyamo/museum-reservation/internal/ledger"
	"github.com/iliyamo/museum-reservation/internal/mailbox"
	"github.com/iliyamo/museum-reservation/internal/model"
	"github.com/iliyamo/museum-reservation/internal/notify"
	"github.com/iliyamo/museum-reservation/internal/payment"
	"github.com/iliyamo/museum-reservation/internal/session"
)

// Deps are the collaborators shared by every visit.
type Deps struct {
	Catalog    catalog.Catalog
	Mailbox    mailbox.Mailbox
	Authorizer payment.Authorizer
	Notifier   notify.Notifier
	Payment    payment.Options
	Logger     logrus.FieldLogger
	Now        func() time.Time
}

// Effects are the visible side effects of one operation: the
// notifications raised and the last navigation hint.
type Effects struct {
	Notifications []model.Notification `json:"notifications"`
	Redirect      *Redirect            `json:"redirect,omitempty"`
}

// Profile is the read model of the profile page.
type Profile struct {
	Identity model.Identity           `json:"identity"`
	Bookings []model.ConfirmedBooking `json:"bookings"`
	Stats    ledger.Stats             `json:"stats"`
}

// Visit is the booking journey of one device.  Operations are
// serialised except for the authorization wait inside Pay.
type Visit struct {
	id        string
	deps      Deps
	log       logrus.FieldLogger
	session   *session.Manager
	processor *payment.Processor
	location  *Location

	mu       sync.Mutex
	state    State
	builder  *draft.Builder
	museumID string
	last     *model.ConfirmedBooking
}

// NewVisit creates an anonymous visit whose hand-off slot is keyed by id.
func NewVisit(id string, sm *session.Manager, deps Deps) *Visit {
	if deps.Notifier == nil {
		deps.Notifier = notify.Discard{}
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	log := deps.Logger.WithField("visit", id)
	opts := deps.Payment
	opts.Logger = log
	if opts.Now == nil {
		opts.Now = deps.Now
	}
	return &Visit{
		id:        id,
		deps:      deps,
		log:       log,
		session:   sm,
		processor: payment.NewProcessor(deps.Mailbox, id, deps.Authorizer, sm, opts),
		location:  &Location{},
	}
}

// ID is the visit id carried in the device token.
func (v *Visit) ID() string { return v.id }

// State returns the current journey state.
func (v *Visit) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Location is the last route the visit was sent to.
func (v *Visit) Location() Redirect { return v.location.Current() }

// Identity returns the signed-in profile, if any.
func (v *Visit) Identity() (model.Identity, bool) {
	id, ok := v.session.Current()
	if !ok {
		return model.Identity{}, false
	}
	return id.Identity, true
}

// LastBooking returns the booking confirmed most recently in this visit.
func (v *Visit) LastBooking() (model.ConfirmedBooking, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.last == nil {
		return model.ConfirmedBooking{}, false
	}
	return v.last.Clone(), true
}

func (v *Visit) emit(ctx context.Context, fx *Effects, n model.Notification) {
	fx.Notifications = append(fx.Notifications, n)
	v.deps.Notifier.Notify(ctx, v.id, n)
}

func (v *Visit) goTo(fx *Effects, r Redirect) {
	fx.Redirect = &r
	v.location.GoTo(r)
}

// fail raises exactly one notification for err and applies its redirect.
// It touches no visit state, so callers need not hold mu.
func (v *Visit) fail(ctx context.Context, fx *Effects, err error) error {
	f := Classify(err)
	v.emit(ctx, fx, f.Notification)
	if f.Redirect != nil {
		v.goTo(fx, *f.Redirect)
	}
	if f.Status >= 500 {
		v.log.WithError(err).Error("visit operation failed")
	}
	return f
}

// resetLocked drops the draft and the hand-off slot.
func (v *Visit) resetLocked(ctx context.Context) {
	v.builder = nil
	v.museumID = ""
	if err := v.deps.Mailbox.Clear(ctx, v.id); err != nil {
		v.log.WithError(err).Warn("clear hand-off slot")
	}
}

func (v *Visit) authenticatedState() State {
	if v.session.IsAuthenticated() {
		return StateAuthenticated
	}
	return StateAnonymous
}

// Login authenticates the visit.  Any draft from before is discarded.
func (v *Visit) Login(ctx context.Context, email, password string) (model.Identity, Effects, error) {
	var fx Effects
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.processor.InFlight() {
		return model.Identity{}, fx, v.fail(ctx, &fx, payment.ErrPaymentInProgress)
	}
	v.resetLocked(ctx)
	id, err := v.session.Login(email, password)
	if err != nil {
		v.state = StateAnonymous
		return model.Identity{}, fx, v.fail(ctx, &fx, err)
	}
	v.state = StateAuthenticated
	v.log.WithField("identity", id.ID).Info("login")
	v.emit(ctx, &fx, notify.Info("Login Successful", "Welcome back to Museums Now!"))
	v.goTo(&fx, To(RouteHome, ""))
	return id, fx, nil
}

// Signup creates and signs in a new identity.
func (v *Visit) Signup(ctx context.Context, name, email, password string) (model.Identity, Effects, error) {
	var fx Effects
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.processor.InFlight() {
		return model.Identity{}, fx, v.fail(ctx, &fx, payment.ErrPaymentInProgress)
	}
	id, err := v.session.Signup(name, email, password)
	if err != nil {
		return model.Identity{}, fx, v.fail(ctx, &fx, err)
	}
	v.resetLocked(ctx)
	v.state = StateAuthenticated
	v.log.WithField("identity", id.ID).Info("signup")
	v.emit(ctx, &fx, notify.Info("Account Created", "Welcome to Museums Now!"))
	v.goTo(&fx, To(RouteHome, ""))
	return id, fx, nil
}

// Logout clears the identity, the draft and the hand-off slot.  It is
// refused while a payment is in flight.
func (v *Visit) Logout(ctx context.Context) (Effects, error) {
	var fx Effects
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.processor.InFlight() {
		return fx, v.fail(ctx, &fx, payment.ErrPaymentInProgress)
	}
	v.session.Logout()
	v.resetLocked(ctx)
	v.state = StateAnonymous
	v.goTo(&fx, To(RouteHome, ""))
	return fx, nil
}

// BeginBooking starts a fresh draft for museumID, replacing any draft
// or pending hand-off.
func (v *Visit) BeginBooking(ctx context.Context, museumID string) (draft.Draft, Effects, error) {
	var fx Effects
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.session.IsAuthenticated() {
		v.state = StateAnonymous
		return draft.Draft{}, fx, v.fail(ctx, &fx, session.ErrNotAuthenticated)
	}
	if v.processor.InFlight() {
		return draft.Draft{}, fx, v.fail(ctx, &fx, payment.ErrPaymentInProgress)
	}
	b, err := draft.New(ctx, v.deps.Catalog, museumID, v.deps.Now)
	if err != nil {
		return draft.Draft{}, fx, v.fail(ctx, &fx, err)
	}
	v.resetLocked(ctx)
	v.builder = b
	v.museumID = museumID
	v.state = StateDrafting
	v.goTo(&fx, To(RouteBooking, museumID))
	return b.Draft(), fx, nil
}

// editable returns the builder when a draft may be changed.
func (v *Visit) editable() (*draft.Builder, error) {
	if !v.session.IsAuthenticated() {
		return nil, session.ErrNotAuthenticated
	}
	if v.processor.InFlight() {
		return nil, payment.ErrPaymentInProgress
	}
	if v.builder == nil || !v.state.hasDraft() {
		return nil, ErrNoDraft
	}
	return v.builder, nil
}

// Draft returns the draft being edited.
func (v *Visit) Draft(ctx context.Context) (draft.Draft, Effects, error) {
	var fx Effects
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.builder == nil || !v.state.hasDraft() {
		return draft.Draft{}, fx, v.fail(ctx, &fx, ErrNoDraft)
	}
	return v.builder.Draft(), fx, nil
}

// SetFields applies field edits in name order and stops at the first
// invalid value; edits before it are kept.
func (v *Visit) SetFields(ctx context.Context, fields map[draft.Field]string) (draft.Draft, Effects, error) {
	var fx Effects
	v.mu.Lock()
	defer v.mu.Unlock()
	b, err := v.editable()
	if err != nil {
		return draft.Draft{}, fx, v.fail(ctx, &fx, err)
	}
	names := make([]draft.Field, 0, len(fields))
	for f := range fields {
		names = append(names, f)
	}
	slices.Sort(names)
	for _, f := range names {
		if err := b.SetField(f, fields[f]); err != nil {
			return b.Draft(), fx, v.fail(ctx, &fx, err)
		}
	}
	return b.Draft(), fx, nil
}

// AddMember appends an empty member.  At the member limit the draft is
// returned unchanged.
func (v *Visit) AddMember(ctx context.Context) (draft.Draft, Effects, error) {
	var fx Effects
	v.mu.Lock()
	defer v.mu.Unlock()
	b, err := v.editable()
	if err != nil {
		return draft.Draft{}, fx, v.fail(ctx, &fx, err)
	}
	b.AddMember()
	return b.Draft(), fx, nil
}

// RemoveMember drops the member at index i; a bad index changes nothing.
func (v *Visit) RemoveMember(ctx context.Context, i int) (draft.Draft, Effects, error) {
	var fx Effects
	v.mu.Lock()
	defer v.mu.Unlock()
	b, err := v.editable()
	if err != nil {
		return draft.Draft{}, fx, v.fail(ctx, &fx, err)
	}
	b.RemoveMember(i)
	return b.Draft(), fx, nil
}

// UpdateMember edits fields of the member at index i.
func (v *Visit) UpdateMember(ctx context.Context, i int, fields map[draft.MemberField]string) (draft.Draft, Effects, error) {
	var fx Effects
	v.mu.Lock()
	defer v.mu.Unlock()
	b, err := v.editable()
	if err != nil {
		return draft.Draft{}, fx, v.fail(ctx, &fx, err)
	}
	names := make([]draft.MemberField, 0, len(fields))
	for f := range fields {
		names = append(names, f)
	}
	slices.Sort(names)
	for _, f := range names {
		if err := b.UpdateMember(i, f, fields[f]); err != nil {
			return b.Draft(), fx, v.fail(ctx, &fx, err)
		}
	}
	return b.Draft(), fx, nil
}

// Submit validates the draft and hands it to payment.  A rejected draft
// stays editable.
func (v *Visit) Submit(ctx context.Context) (model.DraftSnapshot, Effects, error) {
	var fx Effects
	v.mu.Lock()
	defer v.mu.Unlock()
	b, err := v.editable()
	if err != nil {
		return model.DraftSnapshot{}, fx, v.fail(ctx, &fx, err)
	}
	snap, err := b.Submit(ctx, v.deps.Mailbox, v.id)
	if err != nil {
		return model.DraftSnapshot{}, fx, v.fail(ctx, &fx, err)
	}
	v.state = StateAwaitingPayment
	v.log.WithFields(logrus.Fields{"museum_id": snap.MuseumID, "amount": snap.TotalAmount()}).Info("draft submitted")
	v.goTo(&fx, To(RoutePayment, snap.MuseumID))
	return snap, fx, nil
}

// Abort abandons the booking before payment commits.
func (v *Visit) Abort(ctx context.Context) (Effects, error) {
	var fx Effects
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.processor.InFlight() {
		return fx, v.fail(ctx, &fx, payment.ErrPaymentInProgress)
	}
	museumID := v.museumID
	v.resetLocked(ctx)
	v.state = v.authenticatedState()
	if museumID == "" {
		v.goTo(&fx, To(RouteHome, ""))
	} else {
		v.goTo(&fx, To(RouteDashboard, museumID))
	}
	return fx, nil
}

// PendingPayment returns the draft waiting in the hand-off slot.
func (v *Visit) PendingPayment(ctx context.Context) (model.DraftSnapshot, Effects, error) {
	var fx Effects
	s, err := v.processor.LoadDraft(ctx)
	if err != nil {
		return model.DraftSnapshot{}, fx, v.fail(ctx, &fx, err)
	}
	return s, fx, nil
}

// Pay charges the pending draft.  The payment is claimed under the visit
// lock, so edits, Submit and Abort either finish first or are refused.
// The lock is released while the authorizer runs; a second Pay in that
// window is rejected.
func (v *Visit) Pay(ctx context.Context, method string, card *payment.CardDetails) (model.ConfirmedBooking, Effects, error) {
	var fx Effects
	m, err := payment.ParseMethod(method)
	if err == nil && card != nil {
		m, err = m.WithCard(*card)
	}
	if err != nil {
		return model.ConfirmedBooking{}, fx, v.fail(ctx, &fx, err)
	}

	v.mu.Lock()
	attempt, err := v.processor.Begin(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) {
			v.state = StateAnonymous
		}
		v.mu.Unlock()
		return model.ConfirmedBooking{}, fx, v.fail(ctx, &fx, err)
	}
	v.mu.Unlock()

	if m.IsUPI() {
		v.emit(ctx, &fx, notify.Info("UPI Payment", "This would redirect to your UPI app in a real implementation."))
	}
	receipt, err := v.processor.Charge(ctx, attempt, m)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.processor.End()
	if err != nil {
		if errors.Is(err, payment.ErrPaymentTimedOut) {
			v.builder = nil
			v.museumID = ""
			v.state = StateFailed
		}
		return model.ConfirmedBooking{}, fx, v.fail(ctx, &fx, err)
	}
	b := receipt.Booking
	v.last = &b
	v.builder = nil
	v.museumID = ""
	v.state = StateConfirmed
	v.emit(ctx, &fx, notify.Info("Payment Successful!", "Your booking has been confirmed. Check your email for details."))
	v.goTo(&fx, To(RouteDashboard, b.MuseumID))
	return b.Clone(), fx, nil
}

// Profile returns the identity with its ledger and aggregates.
func (v *Visit) Profile(ctx context.Context) (Profile, Effects, error) {
	var fx Effects
	id, ok := v.session.Current()
	if !ok {
		return Profile{}, fx, v.fail(ctx, &fx, session.ErrNotAuthenticated)
	}
	return Profile{
		Identity: id.Identity,
		Bookings: id.Ledger.Bookings(),
		Stats:    id.Ledger.Stats(),
	}, fx, nil
}
