package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/museum-reservation/internal/model"
)

func TestStatic_GetMuseum_NotFound(t *testing.T) {
	c := Default()

	_, err := c.GetMuseum(context.Background(), "louvre")

	assert.ErrorIs(t, err, ErrMuseumNotFound)
}

func TestStatic_GetMuseum_RepeatedReadsAreIdentical(t *testing.T) {
	c := Default()
	ctx := context.Background()

	first, err := c.GetMuseum(ctx, "national-museum-delhi")
	require.NoError(t, err)
	second, err := c.GetMuseum(ctx, "national-museum-delhi")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 100, first.TicketPrice)
	assert.Len(t, first.Timings, 5)
}

func TestStatic_ReadsDoNotAlias(t *testing.T) {
	c := Default()
	ctx := context.Background()

	m, err := c.GetMuseum(ctx, "indian-museum-kolkata")
	require.NoError(t, err)
	m.Timings[0] = "midnight"
	m.Name = "changed"

	again, err := c.GetMuseum(ctx, "indian-museum-kolkata")
	require.NoError(t, err)
	assert.Equal(t, "10:00-11:00 AM", again.Timings[0])
	assert.Equal(t, "Indian Museum, Kolkata", again.Name)
}

func TestStatic_ListMuseums_KeepsOrderAndSkipsDuplicates(t *testing.T) {
	c := NewStatic([]model.Museum{
		{ID: "b", Name: "B", TicketPrice: 10},
		{ID: "a", Name: "A", TicketPrice: 20},
		{ID: "b", Name: "B2", TicketPrice: 30},
	})

	list, err := c.ListMuseums(context.Background())
	require.NoError(t, err)

	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "B", list[0].Name)
	assert.Equal(t, "a", list[1].ID)
}

func TestAvailabilityOf(t *testing.T) {
	tests := []struct {
		slots int
		want  Availability
	}{
		{0, AvailabilityLow},
		{19, AvailabilityLow},
		{20, AvailabilityLimited},
		{49, AvailabilityLimited},
		{50, AvailabilityGood},
		{134, AvailabilityGood},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AvailabilityOf(model.Museum{AvailableSlots: tt.slots}), "slots=%d", tt.slots)
	}
}
