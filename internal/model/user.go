package model

// Identity is the public profile of an authenticated visitor.  The
// session layer pairs it with the visitor's ledger; only the profile
// fields are exposed here so it can be serialised safely.
//
// Fields:
//  ID    – opaque identifier ("user123" for the demo account, uuid otherwise).
//  Name  – display name.
//  Email – login handle.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NotificationKind classifies a user-facing notification.
type NotificationKind string

const (
	NotificationInfo  NotificationKind = "info"
	NotificationError NotificationKind = "error"
)

// Notification is a toast-style message for the visitor.  Every failure
// in the workflow produces exactly one of these with a title and a
// description.
type Notification struct {
	Kind        NotificationKind `json:"kind"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
}
