package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avelora/integration-marketplace/internal/model"
	"github.com/avelora/integration-marketplace/internal/repository"
)

// SlotHandler serves the creator's slot CRUD.  Discovery for buyers
// lives in DiscoveryHandler.
type SlotHandler struct {
	Slots    *repository.SlotRepo
	Projects *repository.ProjectRepo
	Bids     *repository.BidRepo
}

func NewSlotHandler(s *repository.SlotRepo, p *repository.ProjectRepo, b *repository.BidRepo) *SlotHandler {
	return &SlotHandler{Slots: s, Projects: p, Bids: b}
}

type slotReq struct {
	ProjectID     uint64   `json:"projectId"`
	ProjectID2    uint64   `json:"project_id"`
	SceneRef      string   `json:"sceneRef"`
	SceneRef2     string   `json:"scene_ref"`
	Description   string   `json:"description"`
	Constraints   string   `json:"constraints"`
	PricingFloor  *float64 `json:"pricingFloor"`
	PricingFloor2 *float64 `json:"pricing_floor"`
	Modality      string   `json:"modality"`
	Status        string   `json:"status"`
	Visibility    string   `json:"visibility"`
}

// toModel merges the request over base.  Create passes a zero base so
// the defaults apply; Update passes the stored slot so a body that
// omits a field keeps the stored value instead of snapping it back to
// the default.  Without the base, editing a Locked slot's copy would
// silently re-list it as Available.
func (req slotReq) toModel(base model.Slot) (model.Slot, string) {
	sceneRef := pick(strings.TrimSpace(req.SceneRef), strings.TrimSpace(req.SceneRef2))
	if sceneRef == "" {
		sceneRef = base.SceneRef
	}
	if sceneRef == "" {
		return model.Slot{}, "sceneRef is required"
	}
	floor := pickF(req.PricingFloor, req.PricingFloor2)
	floorVal := base.PricingFloor
	if floor != nil {
		floorVal = *floor
	}
	if floorVal < 0 {
		return model.Slot{}, "pricingFloor must be >= 0"
	}
	modality := pick(req.Modality, base.Modality)
	if modality == "" {
		modality = model.ModalityPrivateAuction
	}
	if modality != model.ModalityPrivateAuction && modality != model.ModalityReservation {
		return model.Slot{}, "invalid modality"
	}
	status := pick(req.Status, base.Status)
	if status == "" {
		status = model.SlotAvailable
	}
	switch status {
	case model.SlotAvailable, model.SlotLocked, model.SlotCompleted:
	default:
		return model.Slot{}, "invalid status"
	}
	visibility := pick(req.Visibility, base.Visibility)
	if visibility == "" {
		visibility = model.VisibilityPublic
	}
	if visibility != model.VisibilityPublic && visibility != model.VisibilityPrivate {
		return model.Slot{}, "invalid visibility"
	}
	return model.Slot{
		ProjectID:    pickU(pickU(req.ProjectID, req.ProjectID2), base.ProjectID),
		SceneRef:     sceneRef,
		Description:  pick(req.Description, base.Description),
		Constraints:  pick(req.Constraints, base.Constraints),
		PricingFloor: floorVal,
		Modality:     modality,
		Status:       status,
		Visibility:   visibility,
	}, ""
}

// Create adds a slot to one of the creator's projects.
func (h *SlotHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req slotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	s, msg := req.toModel(model.Slot{})
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if s.ProjectID == 0 {
		// project_id may also arrive as a query parameter
		if v, perr := strconv.ParseUint(c.QueryParam("project_id"), 10, 64); perr == nil {
			s.ProjectID = v
		}
	}
	if s.ProjectID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "projectId is required"})
	}
	// the parent project must exist and belong to the caller
	p, err := h.Projects.GetByID(c.Request().Context(), s.ProjectID)
	if err != nil {
		if err == repository.ErrProjectNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if p.CreatorID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your project"})
	}
	if err := h.Slots.Create(c.Request().Context(), &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create slot failed"})
	}
	return c.JSON(http.StatusCreated, s)
}

// Get returns one slot.
func (h *SlotHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	s, err := h.Slots.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrSlotNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, s)
}

// ListByProject returns all slots of one project.  Creators see their
// own inventory regardless of status or visibility.
func (h *SlotHandler) ListByProject(c echo.Context) error {
	projectID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}
	slots, err := h.Slots.ListByProject(c.Request().Context(), projectID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, slots)
}

// Update rewrites a slot on one of the creator's projects.
func (h *SlotHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	var req slotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()
	stored, err := h.Slots.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrSlotNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	s, msg := req.toModel(stored)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	// a slot locked by a live deal cannot be re-listed
	if stored.Status == model.SlotLocked && s.Status == model.SlotAvailable {
		active, err := h.Bids.CountActiveBySlot(ctx, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if active > 0 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot is locked by an active deal"})
		}
	}
	if err := h.Slots.Update(ctx, id, userID, s); err != nil {
		switch err {
		case repository.ErrSlotNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your slot"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Slots.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a slot from one of the creator's projects.
func (h *SlotHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	if err := h.Slots.Delete(c.Request().Context(), id, userID); err != nil {
		switch err {
		case repository.ErrSlotNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your slot"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
