package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/museum-reservation/internal/model"
)

var bookingCols = []string{
	"id", "museum_id", "museum_name", "visit_date", "time_slot", "members",
	"total_amount", "status", "method", "payment_ref", "confirmed_at",
}

func newMock(t *testing.T) (*BookingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewBookingRepo(db), mock
}

func sampleBooking() model.ConfirmedBooking {
	return model.ConfirmedBooking{
		ID:          "b-1",
		MuseumID:    "national-museum",
		MuseumName:  "National Museum",
		Date:        "2026-11-02",
		TimeSlot:    "10:00 AM - 6:00 PM",
		Members:     []model.Member{{Name: "Asha Rao", Age: 30}},
		TotalAmount: 100,
		Status:      model.BookingStatusConfirmed,
		Method:      "upi:gpay",
		PaymentRef:  "PAY-1",
		ConfirmedAt: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC),
	}
}

func TestBookingRepo_EnsureSchema(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS booking_journal")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepo_Record(t *testing.T) {
	repo, mock := newMock(t)
	b := sampleBooking()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO booking_journal")).
		WithArgs("b-1", "user123", "national-museum", "National Museum", "2026-11-02", "10:00 AM - 6:00 PM",
			`[{"name":"Asha Rao","age":30}]`, 100, "confirmed", "upi:gpay", "PAY-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Record(context.Background(), "user123", b))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepo_Record_DuplicateIsConflict(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO booking_journal")).
		WillReturnError(&mysql.MySQLError{Number: mysqlDuplicateEntry, Message: "Duplicate entry"})

	err := repo.Record(context.Background(), "user123", sampleBooking())
	assert.ErrorIs(t, err, ErrConflict)
}

func TestBookingRepo_Record_PassesOtherErrors(t *testing.T) {
	repo, mock := newMock(t)
	boom := errors.New("connection reset")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO booking_journal")).WillReturnError(boom)

	err := repo.Record(context.Background(), "user123", sampleBooking())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestBookingRepo_ListByIdentity(t *testing.T) {
	repo, mock := newMock(t)
	at := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(bookingCols).
		AddRow("b-1", "national-museum", "National Museum", "2026-11-02", "10:00 AM - 6:00 PM",
			`[{"name":"Asha Rao","age":30},{"name":"Ravi Rao","age":8}]`, 200, "confirmed", "card", "PAY-1", at).
		AddRow("b-2", "salar-jung", "Salar Jung Museum", "2026-11-03", "10:00 AM - 5:00 PM",
			`[{"name":"Asha Rao","age":30}]`, 50, "confirmed", "upi:gpay", "PAY-2", at.Add(time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("FROM booking_journal")).WithArgs("user123").WillReturnRows(rows)

	got, err := repo.ListByIdentity(context.Background(), "user123")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b-1", got[0].ID)
	assert.Equal(t, model.BookingStatusConfirmed, got[0].Status)
	assert.Len(t, got[0].Members, 2)
	assert.Equal(t, "Ravi Rao", got[0].Members[1].Name)
	assert.Equal(t, 50, got[1].TotalAmount)
	assert.Equal(t, at, got[0].ConfirmedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepo_ListByIdentity_Empty(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM booking_journal")).WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(bookingCols))

	got, err := repo.ListByIdentity(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBookingRepo_ListByIdentity_CorruptMembers(t *testing.T) {
	repo, mock := newMock(t)
	rows := sqlmock.NewRows(bookingCols).
		AddRow("b-9", "m", "M", "2026-11-02", "slot", `not-json`, 10, "confirmed", "", "", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM booking_journal")).WillReturnRows(rows)

	_, err := repo.ListByIdentity(context.Background(), "user123")
	assert.ErrorIs(t, err, ErrCorruptRecord)
}
