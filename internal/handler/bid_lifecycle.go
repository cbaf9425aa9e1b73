package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avelora/integration-marketplace/internal/deal"
	"github.com/avelora/integration-marketplace/internal/model"
	"github.com/avelora/integration-marketplace/internal/queue"
	"github.com/avelora/integration-marketplace/internal/repository"
)

// loadBidParties loads the bid plus the ids of both sides of the deal.
func (h *BidHandler) loadBidParties(c echo.Context) (model.Bid, uint64, error) {
	id, err := parseID(c, "id")
	if err != nil {
		return model.Bid{}, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid bid id")
	}
	b, err := h.Bids.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrBidNotFound {
			return model.Bid{}, 0, echo.NewHTTPError(http.StatusNotFound, "bid not found")
		}
		return model.Bid{}, 0, echo.NewHTTPError(http.StatusInternalServerError, "query failed")
	}
	creatorID, err := h.Slots.CreatorOf(c.Request().Context(), b.SlotID)
	if err != nil {
		return model.Bid{}, 0, echo.NewHTTPError(http.StatusInternalServerError, "query failed")
	}
	return b, creatorID, nil
}

func jsonHTTPError(c echo.Context, err error) error {
	he := err.(*echo.HTTPError)
	return c.JSON(he.Code, echo.Map{"error": he.Message})
}

// Get returns one bid.  Visible to the two parties of the deal and to
// operators only.
func (h *BidHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	b, creatorID, err := h.loadBidParties(c)
	if err != nil {
		return jsonHTTPError(c, err)
	}
	if userID != b.CounterpartyID && userID != creatorID && getRole(c) != model.RoleOperator {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a party to this bid"})
	}
	return c.JSON(http.StatusOK, b)
}

// ListBySlot returns every bid on a slot.  Only the slot's creator and
// operators may see the full book.
func (h *BidHandler) ListBySlot(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	slotID, err := parseID(c, "slotId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	ctx := c.Request().Context()
	creatorID, err := h.Slots.CreatorOf(ctx, slotID)
	if err != nil {
		if err == repository.ErrSlotNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if userID != creatorID && getRole(c) != model.RoleOperator {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your slot"})
	}
	bids, err := h.Bids.ListBySlot(ctx, slotID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, bids)
}

// Accept moves a pending bid into the final-approval phase.  Creator
// only.  A slot carries at most one active bid, so accept refuses when
// another bid on the slot is already in flight.
func (h *BidHandler) Accept(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	b, creatorID, err := h.loadBidParties(c)
	if err != nil {
		return jsonHTTPError(c, err)
	}
	if userID != creatorID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the slot creator may accept"})
	}
	ctx := c.Request().Context()
	if _, err := deal.Accept(deal.State{Status: b.Status}); err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "bid is not pending"})
	}
	// the single conditional UPDATE both transitions the bid and
	// enforces one-active-bid-per-slot against concurrent accepts
	if err := h.Bids.AcceptPending(ctx, b.ID, b.SlotID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "bid is not pending or slot already has an active bid"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "accept failed"})
	}
	h.audit(c, "bid.accept", "bid", b.ID, "")
	stored, err := h.Bids.GetByID(ctx, b.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, stored)
}

// Decline rejects a pending bid.  Creator only.  Terminal.
func (h *BidHandler) Decline(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	b, creatorID, err := h.loadBidParties(c)
	if err != nil {
		return jsonHTTPError(c, err)
	}
	if userID != creatorID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the slot creator may decline"})
	}
	next, err := deal.Decline(deal.State{Status: b.Status})
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "bid is not pending"})
	}
	ctx := c.Request().Context()
	if err := h.Bids.UpdateStatus(ctx, b.ID, b.Status, next.Status); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "bid is not pending"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "decline failed"})
	}
	h.audit(c, "bid.decline", "bid", b.ID, "")
	stored, err := h.Bids.GetByID(ctx, b.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, stored)
}

// Approve records the calling party's final approval.  When the second
// flag lands, one transaction moves the bid to Committed, locks the
// slot and writes the financing commitment; the deal event is published
// only after the commit succeeds.  A party approving twice is a no-op.
func (h *BidHandler) Approve(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	b, creatorID, err := h.loadBidParties(c)
	if err != nil {
		return jsonHTTPError(c, err)
	}

	var party deal.Party
	switch userID {
	case creatorID:
		party = deal.PartyCreator
	case b.CounterpartyID:
		party = deal.PartyBuyer
	default:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a party to this bid"})
	}

	state := deal.State{Status: b.Status, CreatorApproved: b.CreatorApproved, BuyerApproved: b.BuyerApproved}
	_, changed, _, err := deal.Approve(state, party)
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "bid is not awaiting final approval"})
	}
	ctx := c.Request().Context()
	if !changed {
		// this side already approved; return current state unchanged
		return c.JSON(http.StatusOK, b)
	}

	tx, err := h.Bids.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	txCommitted := false
	defer func() {
		if !txCommitted {
			_ = tx.Rollback()
		}
	}()

	if err := h.Bids.SetApprovalTx(ctx, tx, b.ID, party); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "bid is not awaiting final approval"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "approve failed"})
	}

	// the snapshot loaded before the transaction cannot see an approval
	// that landed concurrently, so the commit decision comes from the
	// row as it stands now, re-read under lock
	locked, err := h.Bids.ApprovalStateTx(ctx, tx, b.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "approve failed"})
	}
	committed := deal.CommitReady(locked)

	var commitment model.Commitment
	if committed {
		if err := h.Bids.UpdateStatusTx(ctx, tx, b.ID, deal.StatusAwaitingApproval, deal.StatusCommitted); err != nil {
			return c.JSON(http.StatusConflict, echo.Map{"error": "bid is not awaiting final approval"})
		}
		if err := h.Slots.UpdateStatusTx(ctx, tx, b.SlotID, model.SlotAvailable, model.SlotLocked); err != nil {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot is no longer available"})
		}
		commitment = model.Commitment{
			SlotID:          b.SlotID,
			BidID:           b.ID,
			CounterpartyID:  b.CounterpartyID,
			CommittedAmount: deal.ParseAmount(b.AmountTerms),
			PaidDeposit:     false,
			Schedule:        b.FlightWindow,
		}
		if err := h.Commitments.CreateTx(ctx, tx, commitment); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record commitment failed"})
		}
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "approve failed"})
	}
	txCommitted = true

	h.audit(c, "bid.approve", "bid", b.ID, "")
	stored, err := h.Bids.GetByID(ctx, b.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if committed {
		h.audit(c, "deal.committed", "bid", b.ID, b.AmountTerms)
		if h.Events != nil {
			var projectID uint64
			if slot, err := h.Slots.GetByID(ctx, b.SlotID); err == nil {
				projectID = slot.ProjectID
			}
			ev := queue.DealCommittedEvent{
				BidID:           stored.ID,
				SlotID:          stored.SlotID,
				ProjectID:       projectID,
				CounterpartyID:  stored.CounterpartyID,
				Objective:       stored.Objective,
				PricingModel:    stored.PricingModel,
				AmountTerms:     stored.AmountTerms,
				CommittedAmount: commitment.CommittedAmount,
				FlightWindow:    stored.FlightWindow,
				CommittedAt:     time.Now().UTC().Format(time.RFC3339),
			}
			if err := h.Events.PublishDealCommitted(ev); err != nil {
				log.Printf("publish deal.committed failed: bid=%d: %v", b.ID, err)
			}
		}
	}
	return c.JSON(http.StatusOK, stored)
}

type commentReq struct {
	Text  string `json:"text"`
	Text2 string `json:"body"`
}

// AddComment appends a note to the bid's thread.  Only the two parties
// of the deal may write; the thread closes once the bid is declined or
// cancelled.
func (h *BidHandler) AddComment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	b, creatorID, err := h.loadBidParties(c)
	if err != nil {
		return jsonHTTPError(c, err)
	}
	// operators can read threads but never write into them
	if userID != b.CounterpartyID && userID != creatorID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a party to this bid"})
	}
	if !deal.CanComment(b.Status) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "bid thread is closed"})
	}
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	text := strings.TrimSpace(pick(req.Text, req.Text2))
	if text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
	}
	comment, err := h.Bids.AddComment(c.Request().Context(), b.ID, userID, text)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add comment failed"})
	}
	h.audit(c, "bid.comment", "bid", b.ID, "")
	return c.JSON(http.StatusCreated, comment)
}

// dealMemoResp is the committed-deal summary shown to both parties.
type dealMemoResp struct {
	Bid         model.Bid     `json:"bid"`
	Slot        model.Slot    `json:"slot"`
	Project     model.Project `json:"project"`
	Creator     model.User    `json:"creator"`
	Buyer       model.User    `json:"counterparty"`
	Amount      float64       `json:"amount"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// DealMemo assembles the memo for an accepted or committed bid.
// Parties and operators only.
func (h *BidHandler) DealMemo(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	b, creatorID, err := h.loadBidParties(c)
	if err != nil {
		return jsonHTTPError(c, err)
	}
	if userID != b.CounterpartyID && userID != creatorID && getRole(c) != model.RoleOperator {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a party to this bid"})
	}
	if !deal.IsActive(b.Status) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no deal memo before acceptance"})
	}

	ctx := c.Request().Context()
	slot, err := h.Slots.GetByID(ctx, b.SlotID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	project, err := h.Projects.GetByID(ctx, slot.ProjectID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	creator, err := h.Users.GetByID(ctx, creatorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	buyer, err := h.Users.GetByID(ctx, b.CounterpartyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, dealMemoResp{
		Bid:         b,
		Slot:        slot,
		Project:     project,
		Creator:     creator,
		Buyer:       buyer,
		Amount:      deal.ParseAmount(b.AmountTerms),
		GeneratedAt: time.Now().UTC(),
	})
}

// evidencePackResp bundles everything an operator needs to review a
// disputed or flagged deal.
type evidencePackResp struct {
	Bid         model.Bid          `json:"bid"`
	Slot        model.Slot         `json:"slot"`
	Project     model.Project      `json:"project"`
	Creator     model.User         `json:"creator"`
	Buyer       model.User         `json:"counterparty"`
	AuditTrail  []model.AuditEntry `json:"auditTrail"`
	GeneratedAt time.Time          `json:"generatedAt"`
}

// EvidencePack exports the full deal record.  Operator only, enforced
// by route middleware.
func (h *BidHandler) EvidencePack(c echo.Context) error {
	b, creatorID, err := h.loadBidParties(c)
	if err != nil {
		return jsonHTTPError(c, err)
	}
	ctx := c.Request().Context()
	slot, err := h.Slots.GetByID(ctx, b.SlotID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	project, err := h.Projects.GetByID(ctx, slot.ProjectID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	creator, err := h.Users.GetByID(ctx, creatorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	buyer, err := h.Users.GetByID(ctx, b.CounterpartyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	entries, err := h.Audit.List(ctx, 500)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	trail := make([]model.AuditEntry, 0)
	for _, e := range entries {
		if e.EntityType == "bid" && e.EntityID == b.ID {
			trail = append(trail, e)
		}
	}
	return c.JSON(http.StatusOK, evidencePackResp{
		Bid:         b,
		Slot:        slot,
		Project:     project,
		Creator:     creator,
		Buyer:       buyer,
		AuditTrail:  trail,
		GeneratedAt: time.Now().UTC(),
	})
}
