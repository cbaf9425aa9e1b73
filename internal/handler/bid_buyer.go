package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avelora/integration-marketplace/internal/deal"
	"github.com/avelora/integration-marketplace/internal/model"
	"github.com/avelora/integration-marketplace/internal/queue"
	"github.com/avelora/integration-marketplace/internal/repository"
)

// BidHandler serves bid creation and the shared bid lifecycle.  The
// buyer-side entry points live in this file; accept/decline/approve and
// the deal views live in bid_lifecycle.go.
type BidHandler struct {
	Bids        *repository.BidRepo
	Slots       *repository.SlotRepo
	Projects    *repository.ProjectRepo
	Users       *repository.UserRepo
	Commitments *repository.CommitmentRepo
	Audit       *repository.AuditRepo
	Events      DealEventPublisher
}

// DealEventPublisher notifies downstream consumers after a deal
// commits.  Publish failures must never fail the request.
type DealEventPublisher interface {
	PublishDealCommitted(event queue.DealCommittedEvent) error
}

func NewBidHandler(b *repository.BidRepo, s *repository.SlotRepo, p *repository.ProjectRepo,
	u *repository.UserRepo, cm *repository.CommitmentRepo, a *repository.AuditRepo,
	ev DealEventPublisher) *BidHandler {
	return &BidHandler{Bids: b, Slots: s, Projects: p, Users: u, Commitments: cm, Audit: a, Events: ev}
}

type bidReq struct {
	SlotID        uint64 `json:"slotId"`
	SlotID2       uint64 `json:"slot_id"`
	Objective     string `json:"objective"`
	PricingModel  string `json:"pricingModel"`
	PricingModel2 string `json:"pricing_model"`
	AmountTerms   string `json:"amountTerms"`
	AmountTerms2  string `json:"amount_terms"`
	FlightWindow  string `json:"flightWindow"`
	FlightWindow2 string `json:"flight_window"`
}

// Create places a new Pending bid on an available public slot.  Fixed
// bids from merchants are checked against their configured minimum
// integration fee before anything is written.
func (h *BidHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bidReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	slotID := pickU(req.SlotID, req.SlotID2)
	if slotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "slotId is required"})
	}
	b := model.Bid{
		SlotID:         slotID,
		CounterpartyID: userID,
		Objective:      req.Objective,
		PricingModel:   pick(req.PricingModel, req.PricingModel2),
		AmountTerms:    pick(req.AmountTerms, req.AmountTerms2),
		FlightWindow:   pick(req.FlightWindow, req.FlightWindow2),
	}
	if err := deal.ValidateTerms(b.Objective, b.PricingModel, b.AmountTerms, b.FlightWindow); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	slot, err := h.Slots.GetByID(ctx, slotID)
	if err != nil {
		if err == repository.ErrSlotNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if slot.Status != model.SlotAvailable || slot.Visibility != model.VisibilityPublic {
		return c.JSON(http.StatusConflict, echo.Map{"error": "slot is not open for bids"})
	}

	// merchant floor check against the caller's own settings
	if getRole(c) == model.RoleMerchant {
		u, err := h.Users.GetByID(ctx, userID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if err := deal.ValidateMinFee(b.PricingModel, b.AmountTerms, u.MinIntegrationFee); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		}
	}

	if err := h.Bids.Create(ctx, &b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create bid failed"})
	}
	h.audit(c, "bid.create", "bid", b.ID, b.AmountTerms)
	return c.JSON(http.StatusCreated, b)
}

// Update rewrites the terms of the buyer's own Pending bid.
func (h *BidHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bid id"})
	}
	var req bidReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	b := model.Bid{
		Objective:    req.Objective,
		PricingModel: pick(req.PricingModel, req.PricingModel2),
		AmountTerms:  pick(req.AmountTerms, req.AmountTerms2),
		FlightWindow: pick(req.FlightWindow, req.FlightWindow2),
	}
	if err := deal.ValidateTerms(b.Objective, b.PricingModel, b.AmountTerms, b.FlightWindow); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	if getRole(c) == model.RoleMerchant {
		u, err := h.Users.GetByID(ctx, userID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if err := deal.ValidateMinFee(b.PricingModel, b.AmountTerms, u.MinIntegrationFee); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		}
	}

	if err := h.Bids.UpdateTerms(ctx, id, userID, b); err != nil {
		switch {
		case err == repository.ErrBidNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bid not found"})
		case err == repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your bid"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "bid is no longer editable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.audit(c, "bid.update", "bid", id, b.AmountTerms)
	stored, err := h.Bids.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, stored)
}

// Cancel withdraws the buyer's own Pending bid.  The row is kept with
// Cancelled status rather than deleted.
func (h *BidHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bid id"})
	}
	ctx := c.Request().Context()
	b, err := h.Bids.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBidNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bid not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if b.CounterpartyID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your bid"})
	}
	next, err := deal.Cancel(deal.State{Status: b.Status})
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "bid can no longer be cancelled"})
	}
	if err := h.Bids.UpdateStatus(ctx, id, b.Status, next.Status); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "bid can no longer be cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	h.audit(c, "bid.cancel", "bid", id, "")
	return c.NoContent(http.StatusNoContent)
}

// List returns the caller's bid inbox scoped by role: buyers see bids
// they placed, creators see bids against their slots, operators see the
// whole book.
func (h *BidHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	var bids []model.Bid
	switch getRole(c) {
	case model.RoleCreator:
		bids, err = h.Bids.ListForCreator(ctx, userID)
	case model.RoleOperator:
		bids, err = h.Bids.ListAll(ctx)
	default:
		bids, err = h.Bids.ListByCounterparty(ctx, userID)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, bids)
}

// audit appends to the audit trail, logging but swallowing failures.
func (h *BidHandler) audit(c echo.Context, action, entityType string, entityID uint64, detail string) {
	userID, _ := getUserID(c)
	err := h.Audit.Append(c.Request().Context(), model.AuditEntry{
		ActorID:    userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	})
	if err != nil {
		log.Printf("audit append failed: action=%s entity=%s/%d: %v", action, entityType, entityID, err)
	}
}
