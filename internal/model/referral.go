package model

import "time"

// Referral is keyed by the referred user: at most one row per referred_id.
// An inactive row keeps its referrer until a new /start payload reassigns it.
type RegisterOutcome int

const (
	// RegisterSelfReferral means no state changed: users cannot refer themselves.
	RegisterSelfReferral RegisterOutcome = iota
	// RegisterUnknownReferrer means the start payload named an id the store
	// has never seen; no state changed.
	RegisterUnknownReferrer
	// RegisterCreated means a new pending referral row was written.
	RegisterCreated
	// RegisterReassigned means an existing inactive row now points at the new
	// referrer. Reassignment to the previous referrer is allowed.
	RegisterReassigned
	// RegisterAlreadyActive means the referred user is a counted member and the
	// row was left untouched.
	RegisterAlreadyActive
)

type Referral struct {
	ReferredID int64
	ReferrerID int64
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
