// Package workflow drives one visitor's booking journey: authentication,
// drafting, hand-off and payment.  A Visit is the top-level object for a
// device; it owns the session, the current draft and the payment
// processor, and reports every outcome as notifications plus a
// navigation hint.
package workflow

// State is the position of a visit in the booking journey.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticated
	StateDrafting
	StateAwaitingPayment
	StateConfirmed
	StateFailed
)

var stateNames = map[State]string{
	StateAnonymous:       "anonymous",
	StateAuthenticated:   "authenticated",
	StateDrafting:        "drafting",
	StateAwaitingPayment: "awaiting_payment",
	StateConfirmed:       "confirmed",
	StateFailed:          "failed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// MarshalText renders the state name in JSON responses.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// hasDraft reports whether the state carries an editable draft.
func (s State) hasDraft() bool {
	return s == StateDrafting || s == StateAwaitingPayment
}
