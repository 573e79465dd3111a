package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/museum-reservation/internal/model"
)

func booking(id, museum string, amount int) model.ConfirmedBooking {
	return model.ConfirmedBooking{
		ID:          id,
		MuseumID:    museum,
		Members:     []model.Member{{Name: "Jane Doe", Age: 26}},
		TotalAmount: amount,
		Status:      model.BookingStatusConfirmed,
	}
}

func TestLedger_AppendKeepsOrder(t *testing.T) {
	l := New()
	l.Append(booking("b1", "m1", 100))
	l.Append(booking("b2", "m2", 200))

	got := l.Bookings()

	assert.Equal(t, 2, l.Len())
	assert.Equal(t, "b1", got[0].ID)
	assert.Equal(t, "b2", got[1].ID)
}

func TestLedger_BookingsReturnsCopy(t *testing.T) {
	l := New(booking("b1", "m1", 100))

	got := l.Bookings()
	got[0].Members[0].Name = "mutated"
	got[0].TotalAmount = 1

	again := l.Bookings()
	assert.Equal(t, "Jane Doe", again[0].Members[0].Name)
	assert.Equal(t, 100, again[0].TotalAmount)
}

func TestLedger_Stats(t *testing.T) {
	l := New(
		booking("b1", "m1", 200),
		booking("b2", "m2", 100),
		booking("b3", "m1", 300),
	)

	assert.Equal(t, Stats{Count: 3, DistinctMuseums: 2, TotalSpent: 600}, l.Stats())
}

func TestLedger_StatsEmpty(t *testing.T) {
	assert.Equal(t, Stats{}, New().Stats())
}
