package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/museum-reservation/internal/model"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

const bookingSchema = `CREATE TABLE IF NOT EXISTS booking_journal (
    id            VARCHAR(64)  NOT NULL PRIMARY KEY,
    identity_id   VARCHAR(64)  NOT NULL,
    museum_id     VARCHAR(64)  NOT NULL,
    museum_name   VARCHAR(255) NOT NULL,
    visit_date    VARCHAR(10)  NOT NULL,
    time_slot     VARCHAR(64)  NOT NULL,
    members       JSON         NOT NULL,
    total_amount  INT          NOT NULL,
    status        VARCHAR(16)  NOT NULL,
    method        VARCHAR(64)  NOT NULL DEFAULT '',
    payment_ref   VARCHAR(64)  NOT NULL DEFAULT '',
    confirmed_at  DATETIME     NOT NULL,
    KEY idx_booking_journal_identity (identity_id, confirmed_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// BookingRepo mirrors confirmed bookings into the booking_journal table.
// It implements ledger.Journal.  All timestamps are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// EnsureSchema creates the journal table when it does not exist yet.
func (r *BookingRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, bookingSchema)
	return err
}

// Record inserts b for the given identity.  A booking id that was
// already recorded yields ErrConflict.
func (r *BookingRepo) Record(ctx context.Context, identityID string, b model.ConfirmedBooking) error {
	members, err := json.Marshal(b.Members)
	if err != nil {
		return err
	}
	confirmedAt := b.ConfirmedAt
	if confirmedAt.IsZero() {
		confirmedAt = time.Now()
	}
	const q = `INSERT INTO booking_journal
        (id, identity_id, museum_id, museum_name, visit_date, time_slot, members, total_amount, status, method, payment_ref, confirmed_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q,
		b.ID, identityID, b.MuseumID, b.MuseumName, b.Date, b.TimeSlot,
		string(members), b.TotalAmount, string(b.Status), b.Method, b.PaymentRef,
		confirmedAt.UTC(),
	)
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return fmt.Errorf("booking %s: %w", b.ID, ErrConflict)
	}
	return err
}

// ListByIdentity returns every booking journaled for identityID, oldest
// first.  An identity without bookings yields an empty slice.
func (r *BookingRepo) ListByIdentity(ctx context.Context, identityID string) ([]model.ConfirmedBooking, error) {
	const q = `SELECT id, museum_id, museum_name, visit_date, time_slot, members, total_amount, status, method, payment_ref, confirmed_at
               FROM booking_journal
               WHERE identity_id = ?
               ORDER BY confirmed_at, id`
	rows, err := r.db.QueryContext(ctx, q, identityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ConfirmedBooking{}
	for rows.Next() {
		var (
			b       model.ConfirmedBooking
			members []byte
			status  string
		)
		if err := rows.Scan(&b.ID, &b.MuseumID, &b.MuseumName, &b.Date, &b.TimeSlot,
			&members, &b.TotalAmount, &status, &b.Method, &b.PaymentRef, &b.ConfirmedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(members, &b.Members); err != nil {
			return nil, fmt.Errorf("booking %s: %w", b.ID, ErrCorruptRecord)
		}
		b.Status = model.BookingStatus(status)
		b.ConfirmedAt = b.ConfirmedAt.UTC()
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
