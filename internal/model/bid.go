package model

import "time"

// Bid objective and pricing model wire values.
const (
	ObjectiveReach       = "Reach"
	ObjectiveConversions = "Conversions"

	PricingFixed    = "Fixed"
	PricingRevShare = "Rev-Share"
	PricingHybrid   = "Hybrid"
)

// Comment is an append-only note attached to a bid, visible to both
// parties and to operators.  PublicID is a ULID so that clients get a
// stable opaque identifier independent of the row id.
type Comment struct {
	PublicID  string    `json:"id"`        // bid_comments.public_id
	AuthorID  uint64    `json:"authorId"`  // bid_comments.author_id
	Text      string    `json:"text"`      // bid_comments.body
	CreatedAt time.Time `json:"timestamp"` // bid_comments.created_at
}

// Bid represents a buyer's bid/reservation against a single slot,
// stored in the `bids` table.  A bid is a shared relation between the
// slot's creator and the buyer (counterparty); each side holds an
// independent final-approval flag, and the deal commits only when both
// flags are set.  Status strings follow the established wire values and
// transition rules live in the deal package.
//
// Fields:
//  ID              – primary key identifier.
//  SlotID          – slot the bid targets.
//  CounterpartyID  – buyer (advertiser or merchant) who placed the bid.
//  Objective       – "Reach" or "Conversions".
//  PricingModel    – "Fixed", "Rev-Share" or "Hybrid".
//  AmountTerms     – free-text amount terms (e.g. "$6000").
//  FlightWindow    – free-text flight window (e.g. "Feb 2025").
//  Status          – current lifecycle status.
//  CreatorApproved – creator-side final approval flag.
//  BuyerApproved   – buyer-side final approval flag.
//  Comments        – ordered append-only comment thread.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – stamped on every transition.
type Bid struct {
	ID              uint64    `json:"id"`                    // bids.id
	SlotID          uint64    `json:"slotId"`                // bids.slot_id
	CounterpartyID  uint64    `json:"counterpartyId"`        // bids.counterparty_id
	Objective       string    `json:"objective"`             // bids.objective
	PricingModel    string    `json:"pricingModel"`          // bids.pricing_model
	AmountTerms     string    `json:"amountTerms"`           // bids.amount_terms
	FlightWindow    string    `json:"flightWindow"`          // bids.flight_window
	Status          string    `json:"status"`                // bids.status
	CreatorApproved bool      `json:"creatorFinalApproval"`  // bids.creator_approved
	BuyerApproved   bool      `json:"buyerFinalApproval"`    // bids.buyer_approved
	Comments        []Comment `json:"comments"`              // bid_comments rows, insertion order
	CreatedAt       time.Time `json:"createdDate"`           // bids.created_at
	UpdatedAt       time.Time `json:"lastModifiedDate"`      // bids.updated_at
}
