// Package discovery derives the buyer-visible slot list from stored
// slots and their projects.  The filter is a pure function of its
// inputs so it can be exercised without a database; the repository
// layer is only responsible for loading candidate rows.
package discovery

import (
	"strings"

	"github.com/avelora/integration-marketplace/internal/model"
)

// Listing pairs a slot with its owning project for presentation.
type Listing struct {
	Slot    model.Slot    `json:"slot"`
	Project model.Project `json:"project"`
}

// Criteria holds the buyer's discovery filters.  Zero values mean "no
// filter": empty search matches everything, "all" (or empty) genre and
// gender skip those checks, and a zero age range skips the overlap
// check.
type Criteria struct {
	Search   string
	Genre    string
	Gender   string
	AgeStart int
	AgeEnd   int
}

// Filter returns the listings visible to buyers under the criteria.
// Only Available slots with Public visibility qualify.  Free-text
// search is a case-insensitive substring match across scene reference,
// slot description and project title.  Age ranges match when they
// overlap: max(filterStart, ageStart) <= min(filterEnd, ageEnd).
// Input order is preserved and the input slice is never mutated.
func Filter(rows []Listing, c Criteria) []Listing {
	needle := strings.ToLower(strings.TrimSpace(c.Search))
	out := make([]Listing, 0, len(rows))
	for _, l := range rows {
		if l.Slot.Status != model.SlotAvailable || l.Slot.Visibility != model.VisibilityPublic {
			continue
		}
		if needle != "" && !matchesSearch(l, needle) {
			continue
		}
		if !matchesExact(c.Genre, l.Project.Genre) {
			continue
		}
		if !matchesExact(c.Gender, l.Project.Demographics.Gender) {
			continue
		}
		if !agesOverlap(c, l.Project.Demographics) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func matchesSearch(l Listing, needle string) bool {
	return strings.Contains(strings.ToLower(l.Slot.SceneRef), needle) ||
		strings.Contains(strings.ToLower(l.Slot.Description), needle) ||
		strings.Contains(strings.ToLower(l.Project.Title), needle)
}

// matchesExact treats "" and "all" (any case) as wildcards.
func matchesExact(filter, value string) bool {
	if filter == "" || strings.EqualFold(filter, "all") {
		return true
	}
	return strings.EqualFold(filter, value)
}

func agesOverlap(c Criteria, d model.Demographics) bool {
	if c.AgeStart == 0 && c.AgeEnd == 0 {
		return true
	}
	lo := c.AgeStart
	if d.AgeStart > lo {
		lo = d.AgeStart
	}
	hi := c.AgeEnd
	if d.AgeEnd < hi {
		hi = d.AgeEnd
	}
	return lo <= hi
}
