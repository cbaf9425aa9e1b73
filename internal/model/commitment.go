package model

import "time"

// Commitment is a financing commitment created when a bid commits.
// There is exactly one commitment per committed bid (bid_id is unique).
// CommittedAmount is parsed out of the bid's free-text amount terms at
// commit time.
type Commitment struct {
	ID              uint64    `json:"id"`              // commitments.id
	SlotID          uint64    `json:"slotId"`          // commitments.slot_id
	BidID           uint64    `json:"bidId"`           // commitments.bid_id
	CounterpartyID  uint64    `json:"counterpartyId"`  // commitments.counterparty_id
	CommittedAmount float64   `json:"committedAmount"` // commitments.committed_amount
	PaidDeposit     bool      `json:"paidDeposit"`     // commitments.paid_deposit
	Schedule        string    `json:"schedule"`        // commitments.schedule
	CreatedAt       time.Time `json:"createdDate"`     // commitments.created_at
}

// AuditEntry records a single lifecycle transition for the operator
// monitoring view.  Detail holds a short human-readable summary, not a
// serialized diff.
type AuditEntry struct {
	ID         uint64    `json:"id"`         // audit_log.id
	ActorID    uint64    `json:"actorId"`    // audit_log.actor_id
	Action     string    `json:"action"`     // audit_log.action
	EntityType string    `json:"entityType"` // audit_log.entity_type
	EntityID   uint64    `json:"entityId"`   // audit_log.entity_id
	Detail     string    `json:"detail"`     // audit_log.detail
	CreatedAt  time.Time `json:"timestamp"`  // audit_log.created_at
}
