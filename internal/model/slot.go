package model

import "time"

// Slot modality and lifecycle values.  The wire strings match what the
// frontend and historical data already use, so they are kept verbatim.
const (
	ModalityPrivateAuction = "Private Auction"
	ModalityReservation    = "PG/Reservation"

	SlotAvailable = "Available"
	SlotLocked    = "Locked"
	SlotCompleted = "Completed"

	VisibilityPublic  = "Public"
	VisibilityPrivate = "Private"
)

// Slot represents an in-content integration slot belonging to exactly
// one project script, stored in the `slots` table.  A slot appears in
// buyer discovery only while status is Available and visibility is
// Public.  When a bid on the slot commits, status transitions to Locked
// and the slot leaves discovery.
//
// Fields:
//  ID           – primary key identifier.
//  ProjectID    – owning project reference.
//  SceneRef     – scene reference within the script (e.g. "S14 INT. BAR").
//  Description  – what the placement is.
//  Constraints  – creator-imposed constraints on the integration.
//  PricingFloor – minimum acceptable price, never negative.
//  Modality     – "Private Auction" or "PG/Reservation".
//  Status       – Available, Locked or Completed.
//  Visibility   – Public or Private.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Slot struct {
	ID           uint64    `json:"id"`               // slots.id
	ProjectID    uint64    `json:"projectId"`        // slots.project_id
	SceneRef     string    `json:"sceneRef"`         // slots.scene_ref
	Description  string    `json:"description"`      // slots.description
	Constraints  string    `json:"constraints"`      // slots.constraints
	PricingFloor float64   `json:"pricingFloor"`     // slots.pricing_floor
	Modality     string    `json:"modality"`         // slots.modality
	Status       string    `json:"status"`           // slots.status
	Visibility   string    `json:"visibility"`       // slots.visibility
	CreatedAt    time.Time `json:"createdDate"`      // slots.created_at
	UpdatedAt    time.Time `json:"lastModifiedDate"` // slots.updated_at
}
