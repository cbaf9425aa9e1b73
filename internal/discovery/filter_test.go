package discovery

import (
	"testing"

	"github.com/avelora/integration-marketplace/internal/model"
)

func listing(id uint64, status, visibility, sceneRef, desc, title, genre, gender string, ageStart, ageEnd int) Listing {
	return Listing{
		Slot: model.Slot{
			ID:          id,
			SceneRef:    sceneRef,
			Description: desc,
			Status:      status,
			Visibility:  visibility,
		},
		Project: model.Project{
			Title: title,
			Genre: genre,
			Demographics: model.Demographics{
				AgeStart: ageStart,
				AgeEnd:   ageEnd,
				Gender:   gender,
			},
		},
	}
}

func ids(rows []Listing) []uint64 {
	out := make([]uint64, 0, len(rows))
	for _, l := range rows {
		out = append(out, l.Slot.ID)
	}
	return out
}

func TestFilterExcludesNonAvailableAndPrivate(t *testing.T) {
	rows := []Listing{
		listing(1, model.SlotAvailable, model.VisibilityPublic, "S1", "", "A", "Drama", "All", 20, 40),
		listing(2, model.SlotLocked, model.VisibilityPublic, "S2", "", "B", "Drama", "All", 20, 40),
		listing(3, model.SlotAvailable, model.VisibilityPrivate, "S3", "", "C", "Drama", "All", 20, 40),
		listing(4, model.SlotCompleted, model.VisibilityPublic, "S4", "", "D", "Drama", "All", 20, 40),
	}
	got := Filter(rows, Criteria{})
	if len(got) != 1 || got[0].Slot.ID != 1 {
		t.Fatalf("expected only slot 1, got %v", ids(got))
	}
}

func TestFilterAgeOverlap(t *testing.T) {
	rows := []Listing{
		listing(1, model.SlotAvailable, model.VisibilityPublic, "S1", "", "A", "Drama", "All", 20, 40),
	}
	// [30,50] overlaps [20,40].
	if got := Filter(rows, Criteria{AgeStart: 30, AgeEnd: 50}); len(got) != 1 {
		t.Fatalf("overlapping range must include the slot, got %v", ids(got))
	}
	// [50,60] does not overlap [20,40].
	if got := Filter(rows, Criteria{AgeStart: 50, AgeEnd: 60}); len(got) != 0 {
		t.Fatalf("disjoint range must exclude the slot, got %v", ids(got))
	}
	// Boundary touch counts as overlap.
	if got := Filter(rows, Criteria{AgeStart: 40, AgeEnd: 45}); len(got) != 1 {
		t.Fatalf("touching range must include the slot, got %v", ids(got))
	}
	// Unset range matches everything.
	if got := Filter(rows, Criteria{}); len(got) != 1 {
		t.Fatalf("unset range must include the slot, got %v", ids(got))
	}
}

func TestFilterSearchAcrossFields(t *testing.T) {
	rows := []Listing{
		listing(1, model.SlotAvailable, model.VisibilityPublic, "S14 INT. BAR", "hero drinks", "Night Shift", "Drama", "All", 18, 60),
		listing(2, model.SlotAvailable, model.VisibilityPublic, "S2 EXT. ROAD", "car chase", "Fast Lanes", "Action", "All", 18, 60),
	}
	if got := Filter(rows, Criteria{Search: "int. bar"}); len(got) != 1 || got[0].Slot.ID != 1 {
		t.Fatalf("scene-ref search failed: %v", ids(got))
	}
	if got := Filter(rows, Criteria{Search: "CHASE"}); len(got) != 1 || got[0].Slot.ID != 2 {
		t.Fatalf("description search failed: %v", ids(got))
	}
	if got := Filter(rows, Criteria{Search: "night"}); len(got) != 1 || got[0].Slot.ID != 1 {
		t.Fatalf("title search failed: %v", ids(got))
	}
	if got := Filter(rows, Criteria{Search: "submarine"}); len(got) != 0 {
		t.Fatalf("no row should match, got %v", ids(got))
	}
}

func TestFilterGenreAndGender(t *testing.T) {
	rows := []Listing{
		listing(1, model.SlotAvailable, model.VisibilityPublic, "S1", "", "A", "Comedy", "Female", 18, 35),
		listing(2, model.SlotAvailable, model.VisibilityPublic, "S2", "", "B", "Drama", "Male", 18, 35),
	}
	if got := Filter(rows, Criteria{Genre: "Comedy"}); len(got) != 1 || got[0].Slot.ID != 1 {
		t.Fatalf("genre filter failed: %v", ids(got))
	}
	if got := Filter(rows, Criteria{Genre: "all"}); len(got) != 2 {
		t.Fatalf("genre 'all' must match everything: %v", ids(got))
	}
	if got := Filter(rows, Criteria{Gender: "Male"}); len(got) != 1 || got[0].Slot.ID != 2 {
		t.Fatalf("gender filter failed: %v", ids(got))
	}
}

func TestFilterPreservesInputOrder(t *testing.T) {
	rows := []Listing{
		listing(3, model.SlotAvailable, model.VisibilityPublic, "S3", "", "C", "Drama", "All", 18, 60),
		listing(1, model.SlotAvailable, model.VisibilityPublic, "S1", "", "A", "Drama", "All", 18, 60),
		listing(2, model.SlotAvailable, model.VisibilityPublic, "S2", "", "B", "Drama", "All", 18, 60),
	}
	got := Filter(rows, Criteria{})
	want := []uint64{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].Slot.ID != id {
			t.Fatalf("order not preserved: %v", ids(got))
		}
	}
}
