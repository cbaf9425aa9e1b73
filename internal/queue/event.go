// Package queue defines message payloads exchanged over the message broker.
package queue

// DealCommittedEvent is published when both parties have approved a bid
// and the deal commits.  It carries enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary database.
type DealCommittedEvent struct {
	BidID           uint64  `json:"bid_id"`
	SlotID          uint64  `json:"slot_id"`
	ProjectID       uint64  `json:"project_id"`
	CounterpartyID  uint64  `json:"counterparty_id"`
	Objective       string  `json:"objective"`
	PricingModel    string  `json:"pricing_model"`
	AmountTerms     string  `json:"amount_terms"`
	CommittedAmount float64 `json:"committed_amount"`
	FlightWindow    string  `json:"flight_window"`
	CommittedAt     string  `json:"committed_at"`
}
