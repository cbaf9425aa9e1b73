package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avelora/integration-marketplace/internal/deal"
	"github.com/avelora/integration-marketplace/internal/model"
	"github.com/avelora/integration-marketplace/internal/utils"
)

// ErrBidNotFound is returned when a bid cannot be found.
var ErrBidNotFound = errors.New("bid not found")

// BidRepo encapsulates all database queries for bids and their comment
// threads.  Guarded updates (WHERE status=?) make concurrent lifecycle
// transitions safe: whichever writer matches the expected status wins,
// the loser gets ErrConflict.
type BidRepo struct {
	db *sql.DB
}

// NewBidRepo constructs a BidRepo with the provided DB handle.
func NewBidRepo(db *sql.DB) *BidRepo { return &BidRepo{db: db} }

// DB exposes the underlying pool for transaction management by handlers.
func (r *BidRepo) DB() *sql.DB { return r.db }

const bidColumns = "id, slot_id, counterparty_id, objective, pricing_model, amount_terms, flight_window, status, creator_approved, buyer_approved, created_at, updated_at"

// Create inserts a new bid in Pending status and loads the stored row
// back into b.
func (r *BidRepo) Create(ctx context.Context, b *model.Bid) error {
	const q = `INSERT INTO bids
		(slot_id, counterparty_id, objective, pricing_model, amount_terms, flight_window, status)
		VALUES (?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		b.SlotID, b.CounterpartyID, b.Objective, b.PricingModel, b.AmountTerms, b.FlightWindow,
		deal.StatusPending)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*b = stored
	return nil
}

// GetByID returns a bid with its comment thread loaded, or
// ErrBidNotFound.
func (r *BidRepo) GetByID(ctx context.Context, id uint64) (model.Bid, error) {
	b, err := scanBid(r.db.QueryRowContext(ctx,
		"SELECT "+bidColumns+" FROM bids WHERE id=? LIMIT 1", id).Scan)
	if err == sql.ErrNoRows {
		return model.Bid{}, ErrBidNotFound
	}
	if err != nil {
		return model.Bid{}, err
	}
	b.Comments, err = r.ListComments(ctx, id)
	return b, err
}

// ListByCounterparty returns the buyer's bids, newest first, with
// comment threads loaded.
func (r *BidRepo) ListByCounterparty(ctx context.Context, counterpartyID uint64) ([]model.Bid, error) {
	return r.list(ctx, "SELECT "+bidColumns+" FROM bids WHERE counterparty_id=? ORDER BY id DESC", counterpartyID)
}

// ListBySlot returns every bid on a slot in insertion order.
func (r *BidRepo) ListBySlot(ctx context.Context, slotID uint64) ([]model.Bid, error) {
	return r.list(ctx, "SELECT "+bidColumns+" FROM bids WHERE slot_id=? ORDER BY id", slotID)
}

// ListForCreator returns every bid against the creator's slots, newest
// first.
func (r *BidRepo) ListForCreator(ctx context.Context, creatorID uint64) ([]model.Bid, error) {
	const q = `SELECT ` + bidColumns + ` FROM bids WHERE slot_id IN
		(SELECT s.id FROM slots s JOIN projects p ON p.id = s.project_id WHERE p.creator_id=?)
		ORDER BY id DESC`
	return r.list(ctx, q, creatorID)
}

// ListAll returns every bid, newest first.  Operator use only.
func (r *BidRepo) ListAll(ctx context.Context) ([]model.Bid, error) {
	return r.list(ctx, "SELECT "+bidColumns+" FROM bids ORDER BY id DESC")
}

// CountActiveBySlot counts bids on the slot whose status is still in
// flight after acceptance.  A slot may carry at most one such bid.
func (r *BidRepo) CountActiveBySlot(ctx context.Context, slotID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bids WHERE slot_id=? AND status IN (?,?,?)",
		slotID, deal.StatusAccepted, deal.StatusAwaitingApproval, deal.StatusCommitted).Scan(&n)
	return n, err
}

// AcceptPending moves a Pending bid into the approval phase in one
// conditional statement: the transition lands only when the bid is
// still Pending and no other bid on the slot holds an active status.
// Folding the exclusivity check into the UPDATE itself closes the race
// between two accepts of different bids on the same slot; whichever
// statement runs second sees the first one's row and matches nothing.
func (r *BidRepo) AcceptPending(ctx context.Context, id, slotID uint64) error {
	// the inner derived table lets MySQL read bids inside an UPDATE on bids
	const q = `UPDATE bids SET status=? WHERE id=? AND status=?
		AND NOT EXISTS (
			SELECT 1 FROM (SELECT id FROM bids WHERE slot_id=? AND status IN (?,?,?)) AS active
		)`
	res, err := r.db.ExecContext(ctx, q,
		deal.StatusAwaitingApproval, id, deal.StatusPending,
		slotID, deal.StatusAccepted, deal.StatusAwaitingApproval, deal.StatusCommitted)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// UpdateTerms rewrites the negotiable fields of a Pending bid owned by
// counterpartyID.  Returns ErrConflict when the bid has already left
// Pending.
func (r *BidRepo) UpdateTerms(ctx context.Context, id, counterpartyID uint64, b model.Bid) error {
	if err := r.checkOwner(ctx, id, counterpartyID); err != nil {
		return err
	}
	const q = `UPDATE bids SET objective=?, pricing_model=?, amount_terms=?, flight_window=?
		WHERE id=? AND status=?`
	res, err := r.db.ExecContext(ctx, q,
		b.Objective, b.PricingModel, b.AmountTerms, b.FlightWindow, id, deal.StatusPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// UpdateStatus transitions a bid's status, guarded by the expected
// current status.  Returns ErrConflict when another writer got there
// first.
func (r *BidRepo) UpdateStatus(ctx context.Context, id uint64, from, to string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE bids SET status=? WHERE id=? AND status=?", to, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// SetApprovalTx records one party's final approval inside tx, guarded
// by the awaiting-approval status.
func (r *BidRepo) SetApprovalTx(ctx context.Context, tx *sql.Tx, id uint64, party deal.Party) error {
	col := "buyer_approved"
	if party == deal.PartyCreator {
		col = "creator_approved"
	}
	res, err := tx.ExecContext(ctx,
		"UPDATE bids SET "+col+"=1 WHERE id=? AND status=?", id, deal.StatusAwaitingApproval)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// ApprovalStateTx re-reads the bid's status and approval flags inside
// tx with a row lock.  The commit decision must come from this
// post-update row rather than the snapshot the request started from,
// otherwise two concurrent approvals each miss the other's flag and
// the deal never commits.
func (r *BidRepo) ApprovalStateTx(ctx context.Context, tx *sql.Tx, id uint64) (deal.State, error) {
	var s deal.State
	err := tx.QueryRowContext(ctx,
		"SELECT status, creator_approved, buyer_approved FROM bids WHERE id=? FOR UPDATE",
		id).Scan(&s.Status, &s.CreatorApproved, &s.BuyerApproved)
	if err == sql.ErrNoRows {
		return deal.State{}, ErrBidNotFound
	}
	return s, err
}

// UpdateStatusTx is the transactional variant of UpdateStatus.
func (r *BidRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to string) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE bids SET status=? WHERE id=? AND status=?", to, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// ActiveAmount pairs an in-flight bid's amount terms with the project
// it bids against, for financing rollups.
type ActiveAmount struct {
	ProjectID   uint64
	AmountTerms string
}

// ActiveAmountsByCreator returns the amount terms of every accepted,
// awaiting-approval or committed bid against the creator's slots,
// keyed by project.  Pending bids are offers, not financing, and are
// excluded.
func (r *BidRepo) ActiveAmountsByCreator(ctx context.Context, creatorID uint64) ([]ActiveAmount, error) {
	const q = `SELECT s.project_id, b.amount_terms FROM bids b
		JOIN slots s ON s.id = b.slot_id
		JOIN projects p ON p.id = s.project_id
		WHERE p.creator_id=? AND b.status IN (?,?,?)
		ORDER BY s.project_id, b.id`
	rows, err := r.db.QueryContext(ctx, q, creatorID,
		deal.StatusAccepted, deal.StatusAwaitingApproval, deal.StatusCommitted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ActiveAmount, 0)
	for rows.Next() {
		var a ActiveAmount
		if err := rows.Scan(&a.ProjectID, &a.AmountTerms); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AddComment appends a comment to the bid's thread and returns the
// stored comment.
func (r *BidRepo) AddComment(ctx context.Context, bidID, authorID uint64, text string) (model.Comment, error) {
	publicID := utils.NewULID()
	const q = `INSERT INTO bid_comments (bid_id, public_id, author_id, body) VALUES (?,?,?,?)`
	if _, err := r.db.ExecContext(ctx, q, bidID, publicID, authorID, text); err != nil {
		return model.Comment{}, err
	}
	var c model.Comment
	err := r.db.QueryRowContext(ctx,
		"SELECT public_id, author_id, body, created_at FROM bid_comments WHERE public_id=?",
		publicID).Scan(&c.PublicID, &c.AuthorID, &c.Text, &c.CreatedAt)
	return c, err
}

// ListComments returns a bid's comments in insertion order.
func (r *BidRepo) ListComments(ctx context.Context, bidID uint64) ([]model.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT public_id, author_id, body, created_at FROM bid_comments WHERE bid_id=? ORDER BY id",
		bidID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.PublicID, &c.AuthorID, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *BidRepo) checkOwner(ctx context.Context, id, counterpartyID uint64) error {
	var actual uint64
	err := r.db.QueryRowContext(ctx, "SELECT counterparty_id FROM bids WHERE id=?", id).Scan(&actual)
	if err == sql.ErrNoRows {
		return ErrBidNotFound
	}
	if err != nil {
		return err
	}
	if actual != counterpartyID {
		return ErrForbidden
	}
	return nil
}

func (r *BidRepo) list(ctx context.Context, query string, args ...any) ([]model.Bid, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Bid, 0)
	for rows.Next() {
		b, err := scanBid(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Comments, err = r.ListComments(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func scanBid(scan func(...any) error) (model.Bid, error) {
	var b model.Bid
	err := scan(&b.ID, &b.SlotID, &b.CounterpartyID, &b.Objective, &b.PricingModel,
		&b.AmountTerms, &b.FlightWindow, &b.Status, &b.CreatorApproved, &b.BuyerApproved,
		&b.CreatedAt, &b.UpdatedAt)
	b.Comments = []model.Comment{}
	return b, err
}
