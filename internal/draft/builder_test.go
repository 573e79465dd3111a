package draft

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/museum-reservation/internal/catalog"
	"github.com/iliyamo/museum-reservation/internal/mailbox"
	"github.com/iliyamo/museum-reservation/internal/model"
)

var fixedNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func testCatalog() catalog.Catalog {
	return catalog.NewStatic([]model.Museum{{
		ID:          "m1",
		Name:        "Museum One",
		TicketPrice: 100,
		Timings:     []string{"10:00-11:00 AM", "2:00-3:00 PM"},
	}})
}

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := New(context.Background(), testCatalog(), "m1", clock)
	require.NoError(t, err)
	return b
}

// fill sets every field needed for a valid submit.
func fill(t *testing.T, b *Builder) {
	t.Helper()
	for f, v := range map[Field]string{
		FieldFirstName: "Asha",
		FieldLastName:  "Rao",
		FieldAge:       "30",
		FieldEmail:     "asha@example.com",
		FieldPhone:     "+91 9800000000",
		FieldDate:      "2026-10-20",
		FieldTimeSlot:  "2:00-3:00 PM",
		FieldTerms:     "true",
	} {
		require.NoError(t, b.SetField(f, v))
	}
}

func addNamedMembers(t *testing.T, b *Builder, names ...string) {
	t.Helper()
	for _, n := range names {
		require.True(t, b.AddMember())
		i := len(b.Draft().Members) - 1
		require.NoError(t, b.UpdateMember(i, MemberName, n))
		require.NoError(t, b.UpdateMember(i, MemberAge, "25"))
	}
}

func TestNew_UnknownMuseum(t *testing.T) {
	b, err := New(context.Background(), testCatalog(), "missing", clock)

	assert.ErrorIs(t, err, catalog.ErrMuseumNotFound)
	assert.Nil(t, b)
}

func TestNew_Defaults(t *testing.T) {
	b := newBuilder(t)
	d := b.Draft()

	assert.Equal(t, "m1", b.MuseumID())
	assert.Equal(t, "+91", d.Visitor.Phone)
	assert.Equal(t, 1, d.TotalMembers())
	assert.Equal(t, 100, d.TotalAmount())
}

func TestAddMember_CapsAtFive(t *testing.T) {
	b := newBuilder(t)

	added := 0
	for i := 0; i < 6; i++ {
		if b.AddMember() {
			added++
		}
	}

	assert.Equal(t, 5, added)
	assert.Len(t, b.Draft().Members, 5)
	assert.Equal(t, 6, b.Draft().TotalMembers())
	assert.Equal(t, 600, b.Draft().TotalAmount())
}

func TestRemoveMember_InvalidIndexIsNoop(t *testing.T) {
	b := newBuilder(t)
	addNamedMembers(t, b, "A", "B", "C")
	before := b.Draft().Members

	assert.False(t, b.RemoveMember(5))
	assert.False(t, b.RemoveMember(-1))
	assert.False(t, b.RemoveMember(3))

	assert.Equal(t, before, b.Draft().Members)
}

func TestRemoveMember_PreservesOrder(t *testing.T) {
	b := newBuilder(t)
	addNamedMembers(t, b, "A", "B", "C")
	snapshotBefore := b.Draft()

	require.True(t, b.RemoveMember(1))

	members := b.Draft().Members
	require.Len(t, members, 2)
	assert.Equal(t, "A", members[0].Name)
	assert.Equal(t, "C", members[1].Name)
	assert.Equal(t, "B", snapshotBefore.Members[1].Name)
}

func TestUpdateMember(t *testing.T) {
	b := newBuilder(t)
	require.True(t, b.AddMember())

	require.NoError(t, b.UpdateMember(0, MemberName, "Jane"))
	require.NoError(t, b.UpdateMember(0, MemberAge, "26"))
	require.NoError(t, b.UpdateMember(0, MemberID, "X-1"))
	require.NoError(t, b.UpdateMember(4, MemberName, "ghost"))

	assert.Equal(t, []model.Member{{Name: "Jane", Age: 26, ID: "X-1"}}, b.Draft().Members)
	assert.ErrorIs(t, b.UpdateMember(0, MemberAge, "old"), ErrInvalidField)
	assert.ErrorIs(t, b.UpdateMember(0, "shoe", "9"), ErrUnknownField)
}

func TestSetField_Errors(t *testing.T) {
	b := newBuilder(t)

	assert.ErrorIs(t, b.SetField("nickname", "x"), ErrUnknownField)
	assert.ErrorIs(t, b.SetField(FieldDate, "20/10/2026"), ErrInvalidField)
	assert.ErrorIs(t, b.SetField(FieldAge, "thirty"), ErrInvalidField)
	assert.ErrorIs(t, b.SetField(FieldTerms, "maybe"), ErrInvalidField)

	require.NoError(t, b.SetField(FieldDate, "2026-10-20"))
	require.NoError(t, b.SetField(FieldDate, ""))
	assert.True(t, b.Draft().VisitDate.IsZero())
}

func TestSubmit_TermsNotAcceptedAlwaysWins(t *testing.T) {
	mb := mailbox.NewMemory()
	ctx := context.Background()

	empty := newBuilder(t)
	_, err := empty.Submit(ctx, mb, "dev")
	assert.ErrorIs(t, err, ErrTermsNotAccepted)

	full := newBuilder(t)
	fill(t, full)
	require.NoError(t, full.SetField(FieldTerms, "false"))
	_, err = full.Submit(ctx, mb, "dev")
	assert.ErrorIs(t, err, ErrTermsNotAccepted)

	_, err = mb.Peek(ctx, "dev")
	assert.ErrorIs(t, err, mailbox.ErrEmpty)
}

func TestSubmit_IncompleteSelection(t *testing.T) {
	ctx := context.Background()
	mb := mailbox.NewMemory()

	b := newBuilder(t)
	fill(t, b)
	require.NoError(t, b.SetField(FieldTimeSlot, ""))
	_, err := b.Submit(ctx, mb, "dev")
	assert.ErrorIs(t, err, ErrIncompleteSelection)

	b = newBuilder(t)
	fill(t, b)
	require.NoError(t, b.SetField(FieldDate, ""))
	_, err = b.Submit(ctx, mb, "dev")
	assert.ErrorIs(t, err, ErrIncompleteSelection)

	assert.Equal(t, "Asha", b.Draft().Visitor.FirstName, "draft retained after failed submit")
}

func TestSubmit_PublishesSnapshotAndOverwrites(t *testing.T) {
	ctx := context.Background()
	mb := mailbox.NewMemory()
	b := newBuilder(t)
	fill(t, b)

	first, err := b.Submit(ctx, mb, "dev")
	require.NoError(t, err)
	assert.Equal(t, 100, first.TotalAmount())

	addNamedMembers(t, b, "Jane", "Ravi")
	second, err := b.Submit(ctx, mb, "dev")
	require.NoError(t, err)

	stored, err := mb.TakeOnce(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, second, stored)
	assert.Equal(t, 3, stored.TotalMembers())
	assert.Equal(t, 300, stored.TotalAmount())
	assert.Equal(t, "2026-10-20", stored.VisitDate)
	assert.Equal(t, "Museum One", stored.MuseumName)
	assert.True(t, stored.TermsAccepted)

	_, err = mb.Peek(ctx, "dev")
	assert.ErrorIs(t, err, mailbox.ErrEmpty, "only one snapshot is ever held")
}

func TestSnapshotIsIndependentOfLaterEdits(t *testing.T) {
	ctx := context.Background()
	mb := mailbox.NewMemory()
	b := newBuilder(t)
	fill(t, b)
	addNamedMembers(t, b, "Jane")

	snap, err := b.Submit(ctx, mb, "dev")
	require.NoError(t, err)
	require.NoError(t, b.UpdateMember(0, MemberName, "Changed"))

	assert.Equal(t, "Jane", snap.Members[0].Name)
	stored, err := mb.Peek(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, "Jane", stored.Members[0].Name)
}
