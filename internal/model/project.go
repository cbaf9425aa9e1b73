package model

import "time"

// Demographics captures the audience targeting recorded on a project
// script.  Age bounds are inclusive.  Gender is "Male", "Female" or
// "All".
type Demographics struct {
	AgeStart int    `json:"ageStart"` // projects.demo_age_start
	AgeEnd   int    `json:"ageEnd"`   // projects.demo_age_end
	Gender   string `json:"gender"`   // projects.demo_gender
}

// Project represents a creator's project script as stored in the
// `projects` table.  A project is owned by exactly one creator and can
// contain multiple integration slots; deleting a project cascades to its
// slots.
//
// Fields:
//  ID               – primary key identifier.
//  CreatorID        – user ID of the owning creator.
//  Title            – script title.
//  DocLink          – link or relative path to the script document.
//  ProductionWindow – free-text production window (e.g. "Q1 2025").
//  BudgetTarget     – financing target in dollars (nullable).
//  Genre            – script genre used by discovery filtering.
//  Demographics     – audience targeting data.
//  CreatedAt        – timestamp when the project was created.
//  UpdatedAt        – timestamp of last update.
type Project struct {
	ID               uint64       `json:"id"`                     // projects.id
	CreatorID        uint64       `json:"creatorId"`              // projects.creator_id
	Title            string       `json:"title"`                  // projects.title
	DocLink          string       `json:"docLink"`                // projects.doc_link
	ProductionWindow string       `json:"productionWindow"`       // projects.production_window
	BudgetTarget     *float64     `json:"budgetTarget,omitempty"` // projects.budget_target (nullable)
	Genre            string       `json:"genre"`                  // projects.genre
	Demographics     Demographics `json:"demographics"`           // projects.demo_*
	CreatedAt        time.Time    `json:"createdDate"`            // projects.created_at
	UpdatedAt        time.Time    `json:"lastModifiedDate"`       // projects.updated_at
}
