// Package catalog serves the read-only museum reference data.  The data
// set is fixed at start-up; every read hands out deep copies so no
// caller can mutate what another caller sees.
package catalog

import (
	"context"
	"errors"

	"github.com/iliyamo/museum-reservation/internal/model"
)

// ErrMuseumNotFound is returned when a museum id is not in the catalog.
var ErrMuseumNotFound = errors.New("museum not found")

// Catalog is the read-only museum provider used by the booking flow.
type Catalog interface {
	ListMuseums(ctx context.Context) ([]model.Museum, error)
	GetMuseum(ctx context.Context, id string) (model.Museum, error)
}

// Static is an in-memory Catalog backed by a fixed, ordered list.
type Static struct {
	order []string
	byID  map[string]model.Museum
}

// NewStatic builds a catalog from the given museums.  Later entries with
// a duplicate id are ignored.
func NewStatic(museums []model.Museum) *Static {
	s := &Static{byID: make(map[string]model.Museum, len(museums))}
	for _, m := range museums {
		if _, dup := s.byID[m.ID]; dup {
			continue
		}
		s.order = append(s.order, m.ID)
		s.byID[m.ID] = m.Clone()
	}
	return s
}

// Default returns the catalog seeded with the built-in museum list.
func Default() *Static { return NewStatic(Seed()) }

// ListMuseums returns every museum in catalog order.
func (s *Static) ListMuseums(ctx context.Context) ([]model.Museum, error) {
	out := make([]model.Museum, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out, nil
}

// GetMuseum returns the museum with the given id or ErrMuseumNotFound.
func (s *Static) GetMuseum(ctx context.Context, id string) (model.Museum, error) {
	m, ok := s.byID[id]
	if !ok {
		return model.Museum{}, ErrMuseumNotFound
	}
	return m.Clone(), nil
}

// Availability buckets a museum's advisory remaining capacity the way the
// dashboard colours it.
type Availability string

const (
	AvailabilityLow     Availability = "low"
	AvailabilityLimited Availability = "limited"
	AvailabilityGood    Availability = "good"
)

// AvailabilityOf returns the availability level for m: fewer than 20
// slots is low, fewer than 50 is limited.
func AvailabilityOf(m model.Museum) Availability {
	switch {
	case m.AvailableSlots < 20:
		return AvailabilityLow
	case m.AvailableSlots < 50:
		return AvailabilityLimited
	}
	return AvailabilityGood
}
