package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/avelora/integration-marketplace/internal/discovery"
	"github.com/avelora/integration-marketplace/internal/repository"
)

// DiscoveryHandler serves the buyer-facing marketplace listing: public
// available slots joined with their project, filtered in memory by the
// discovery package.
type DiscoveryHandler struct {
	Slots *repository.SlotRepo
}

func NewDiscoveryHandler(s *repository.SlotRepo) *DiscoveryHandler {
	return &DiscoveryHandler{Slots: s}
}

// Browse returns public available slot listings matching the query
// filters.  Empty or "all" filter values are wildcards.  When a
// project_id is given the listing narrows to that project's slots.
func (h *DiscoveryHandler) Browse(c echo.Context) error {
	rows, err := h.Slots.ListDiscoverable(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	crit := discovery.Criteria{
		Search: pick(c.QueryParam("search"), c.QueryParam("q")),
		Genre:  c.QueryParam("genre"),
		Gender: c.QueryParam("gender"),
	}
	if v := pick(c.QueryParam("age_start"), c.QueryParam("ageStart")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid age_start"})
		}
		crit.AgeStart = n
	}
	if v := pick(c.QueryParam("age_end"), c.QueryParam("ageEnd")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid age_end"})
		}
		crit.AgeEnd = n
	}

	out := discovery.Filter(rows, crit)

	if v := pick(c.QueryParam("project_id"), c.QueryParam("projectId")); v != "" {
		projectID, err := strconv.ParseUint(v, 10, 64)
		if err != nil || projectID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project_id"})
		}
		narrowed := make([]discovery.Listing, 0, len(out))
		for _, l := range out {
			if l.Slot.ProjectID == projectID {
				narrowed = append(narrowed, l)
			}
		}
		out = narrowed
	}

	return c.JSON(http.StatusOK, out)
}
