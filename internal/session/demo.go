package session

import (
	"github.com/iliyamo/museum-reservation/internal/ledger"
	"github.com/iliyamo/museum-reservation/internal/model"
)

// DemoIdentity builds the canned account with its two historical
// bookings (₹200 + ₹100).
func DemoIdentity(email string) *Identity {
	return &Identity{
		Identity: model.Identity{ID: "user123", Name: "John Doe", Email: email},
		Ledger: ledger.New(
			model.ConfirmedBooking{
				ID:         "booking1",
				MuseumID:   "national-museum-delhi",
				MuseumName: "National Museum, New Delhi",
				Date:       "2024-01-15",
				TimeSlot:   "10:00-11:00 AM",
				Members: []model.Member{
					{Name: "John Doe", Age: 28},
					{Name: "Jane Doe", Age: 26},
				},
				TotalAmount: 200,
				Status:      model.BookingStatusConfirmed,
			},
			model.ConfirmedBooking{
				ID:         "booking2",
				MuseumID:   "indian-museum-kolkata",
				MuseumName: "Indian Museum, Kolkata",
				Date:       "2024-02-20",
				TimeSlot:   "2:00-3:00 PM",
				Members: []model.Member{
					{Name: "John Doe", Age: 28},
				},
				TotalAmount: 100,
				Status:      model.BookingStatusConfirmed,
			},
		),
	}
}
