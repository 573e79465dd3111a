// Package ledger keeps the append-only history of a visitor's confirmed
// bookings and the read-only aggregates shown on the profile.
package ledger

import (
	"context"
	"sync"

	"github.com/samber/lo"

	"github.com/iliyamo/museum-reservation/internal/model"
)

// Ledger is an append-only sequence of confirmed bookings owned by one
// identity.  There is no delete or cancel operation.
type Ledger struct {
	mu       sync.RWMutex
	bookings []model.ConfirmedBooking
}

// New returns a ledger pre-populated with the given bookings.
func New(seed ...model.ConfirmedBooking) *Ledger {
	l := &Ledger{}
	for _, b := range seed {
		l.bookings = append(l.bookings, b.Clone())
	}
	return l
}

// Append adds b to the end of the ledger.
func (l *Ledger) Append(b model.ConfirmedBooking) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bookings = append(l.bookings, b.Clone())
}

// Bookings returns a copy of the ledger in insertion order.
func (l *Ledger) Bookings() []model.ConfirmedBooking {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return lo.Map(l.bookings, func(b model.ConfirmedBooking, _ int) model.ConfirmedBooking {
		return b.Clone()
	})
}

// Len is the number of bookings recorded.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.bookings)
}

// Stats are the profile aggregates over a ledger.
type Stats struct {
	Count           int `json:"total_bookings"`
	DistinctMuseums int `json:"museums_visited"`
	TotalSpent      int `json:"total_spent"`
}

// Stats computes count, distinct museums and the sum of amounts.
func (l *Ledger) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	museums := lo.Uniq(lo.Map(l.bookings, func(b model.ConfirmedBooking, _ int) string { return b.MuseumID }))
	return Stats{
		Count:           len(l.bookings),
		DistinctMuseums: len(museums),
		TotalSpent:      lo.Reduce(l.bookings, func(sum int, b model.ConfirmedBooking, _ int) int { return sum + b.TotalAmount }, 0),
	}
}

// Journal durably mirrors confirmed bookings outside the session.  The
// in-memory Ledger stays authoritative for the visit; a journal failure
// never undoes a commit.
type Journal interface {
	Record(ctx context.Context, identityID string, b model.ConfirmedBooking) error
}

// NopJournal discards every record.  It is used when no database is
// configured.
type NopJournal struct{}

func (NopJournal) Record(context.Context, string, model.ConfirmedBooking) error { return nil }
