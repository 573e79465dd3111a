package model

// Museum represents a venue visitors can book a time slot at.  Museums
// are immutable reference data served by the catalog; nothing in the
// booking flow writes to them.
//
// Fields:
//  ID             – stable slug identifier (e.g. "national-museum-delhi").
//  Name           – display name.
//  Description    – short blurb shown on the dashboard.
//  Location       – street / city line.
//  TotalSlots     – visitor capacity of the venue.
//  AvailableSlots – advisory remaining capacity; never decremented.
//  TicketPrice    – price of one ticket in whole rupees, always positive.
//  Timings        – ordered time slot labels a visit can be booked in.
//  Features       – highlighted collections.
type Museum struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Location       string   `json:"location"`
	TotalSlots     int      `json:"total_slots"`
	AvailableSlots int      `json:"available_slots"`
	TicketPrice    int      `json:"ticket_price"`
	Timings        []string `json:"timings"`
	Features       []string `json:"features"`
}

// HasTiming reports whether label is one of the museum's time slots.
func (m Museum) HasTiming(label string) bool {
	for _, t := range m.Timings {
		if t == label {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can never alias catalog slices.
func (m Museum) Clone() Museum {
	out := m
	out.Timings = append([]string(nil), m.Timings...)
	out.Features = append([]string(nil), m.Features...)
	return out
}
