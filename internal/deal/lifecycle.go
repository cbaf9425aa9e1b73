// Package deal owns the legal transitions of a bid/reservation and the
// two-party final-approval handshake.  It is pure: callers load state,
// ask for a transition, and persist the result themselves, so the rules
// stay testable without a database.
package deal

import "errors"

// Lifecycle statuses.  Accepted is kept for wire compatibility with
// historical records but the server never produces it: accepting a
// pending bid moves it straight to AwaitingFinalApproval so that both
// pages of the product agree on when approval UI applies.
const (
	StatusPending          = "Pending"
	StatusAccepted         = "Accepted"
	StatusAwaitingApproval = "AwaitingFinalApproval"
	StatusCommitted        = "Committed"
	StatusDeclined         = "Declined"
	StatusCancelled        = "Cancelled"
)

// Party identifies which side of the deal is acting.
type Party int

const (
	PartyCreator Party = iota
	PartyBuyer
)

// ErrInvalidTransition is returned when an action is attempted outside
// its legal status.  Handlers should translate this into HTTP 409.
var ErrInvalidTransition = errors.New("invalid state transition")

// State is the transition-relevant slice of a bid.
type State struct {
	Status          string
	CreatorApproved bool
	BuyerApproved   bool
}

// IsActive reports whether the status occupies the slot: at most one
// bid per slot may hold an active status at a time.
func IsActive(status string) bool {
	switch status {
	case StatusAccepted, StatusAwaitingApproval, StatusCommitted:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are legal.
func IsTerminal(status string) bool {
	switch status {
	case StatusCommitted, StatusDeclined, StatusCancelled:
		return true
	}
	return false
}

// CanEdit reports whether the buyer may still mutate the bid terms.
// Editing and cancelling are legal only while Pending.
func CanEdit(s State) bool { return s.Status == StatusPending }

// Accept moves a pending bid into the approval phase with both flags
// reset.  Only the slot's creator may call this; ownership is checked
// by the caller, this function checks status only.
func Accept(s State) (State, error) {
	if s.Status != StatusPending {
		return s, ErrInvalidTransition
	}
	return State{Status: StatusAwaitingApproval}, nil
}

// Decline rejects a pending bid.  Terminal.
func Decline(s State) (State, error) {
	if s.Status != StatusPending {
		return s, ErrInvalidTransition
	}
	return State{Status: StatusDeclined}, nil
}

// Cancel withdraws a pending bid on behalf of the buyer.  Terminal.
// The record is retained (status change, not deletion) for audit.
func Cancel(s State) (State, error) {
	if s.Status != StatusPending {
		return s, ErrInvalidTransition
	}
	return State{Status: StatusCancelled}, nil
}

// Approve records one party's final approval.  The order of approvals
// is irrelevant; the deal commits exactly when both flags are set.  A
// party that already approved gets changed=false and an unchanged
// state, so double approvals can never double-trigger commitment.
func Approve(s State, p Party) (out State, changed bool, committed bool, err error) {
	if s.Status != StatusAwaitingApproval {
		return s, false, false, ErrInvalidTransition
	}
	out = s
	switch p {
	case PartyCreator:
		if out.CreatorApproved {
			return s, false, false, nil
		}
		out.CreatorApproved = true
	case PartyBuyer:
		if out.BuyerApproved {
			return s, false, false, nil
		}
		out.BuyerApproved = true
	default:
		return s, false, false, ErrInvalidTransition
	}
	if out.CreatorApproved && out.BuyerApproved {
		out.Status = StatusCommitted
		return out, true, true, nil
	}
	return out, true, false, nil
}

// CommitReady reports whether a state carries both final approvals and
// should move to Committed.  Persisting callers must evaluate this on
// the row as re-read under lock after recording an approval, not on the
// snapshot the request started from: two parties approving at once each
// see the other's flag unset in their snapshot, and only the locked
// re-read observes the merged row.
func CommitReady(s State) bool {
	return s.Status == StatusAwaitingApproval && s.CreatorApproved && s.BuyerApproved
}

// CanComment reports whether the bid's thread is still open.  Declining
// or cancelling closes the thread; a committed deal stays open for
// wrap-up notes.
func CanComment(status string) bool {
	return status != StatusDeclined && status != StatusCancelled
}

// CanApprove reports whether the party's own flag is still unset.
func CanApprove(s State, p Party) bool {
	if s.Status != StatusAwaitingApproval {
		return false
	}
	if p == PartyCreator {
		return !s.CreatorApproved
	}
	return !s.BuyerApproved
}
