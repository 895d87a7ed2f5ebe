package auth

import "time"

type ChangeKind string

const (
	SignedUp  ChangeKind = "signed_up"
	SignedIn  ChangeKind = "signed_in"
	SignedOut ChangeKind = "signed_out"
)

// StateChange is published on every sign-up, sign-in and sign-out.
type StateChange struct {
	Kind   ChangeKind
	UserID string
	At     time.Time
}
