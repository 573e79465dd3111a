// Package repository persists confirmed bookings in MySQL.  The sentinel
// errors below let callers tell journal failures apart without looking
// at driver errors.  ErrConflict means a booking id was already
// journaled, ErrCorruptRecord that a stored row could not be decoded.
package repository

import "errors"

// ErrConflict is returned when a booking with the same id already sits in
// the journal.  Bookings are immutable once recorded.
var ErrConflict = errors.New("conflict")

// ErrCorruptRecord is returned when a journal row holds a member list
// that is not valid JSON.
var ErrCorruptRecord = errors.New("corrupt booking record")
