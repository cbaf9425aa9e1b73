package repository

import (
	"context"
	"database/sql"

	"github.com/avelora/integration-marketplace/internal/model"
)

// CommitmentRepo encapsulates database queries for financing
// commitments.  A commitment row is written exactly once, inside the
// same transaction that moves its bid to Committed.
type CommitmentRepo struct {
	db *sql.DB
}

// NewCommitmentRepo constructs a CommitmentRepo with the provided DB
// handle.
func NewCommitmentRepo(db *sql.DB) *CommitmentRepo { return &CommitmentRepo{db: db} }

const commitmentColumns = "id, slot_id, bid_id, counterparty_id, committed_amount, paid_deposit, schedule, created_at"

// CreateTx inserts a commitment inside tx.
func (r *CommitmentRepo) CreateTx(ctx context.Context, tx *sql.Tx, c model.Commitment) error {
	const q = `INSERT INTO commitments
		(slot_id, bid_id, counterparty_id, committed_amount, paid_deposit, schedule)
		VALUES (?,?,?,?,?,?)`
	_, err := tx.ExecContext(ctx, q,
		c.SlotID, c.BidID, c.CounterpartyID, c.CommittedAmount, c.PaidDeposit, c.Schedule)
	return err
}

// ListAll returns every commitment in insertion order.  Operator use.
func (r *CommitmentRepo) ListAll(ctx context.Context) ([]model.Commitment, error) {
	return r.list(ctx, "SELECT "+commitmentColumns+" FROM commitments ORDER BY id")
}

// ListByCreator returns commitments against the creator's slots, for
// the financing dashboard.
func (r *CommitmentRepo) ListByCreator(ctx context.Context, creatorID uint64) ([]model.Commitment, error) {
	const q = `SELECT ` + commitmentColumns + ` FROM commitments WHERE slot_id IN
		(SELECT s.id FROM slots s JOIN projects p ON p.id = s.project_id WHERE p.creator_id=?)
		ORDER BY id`
	return r.list(ctx, q, creatorID)
}

func (r *CommitmentRepo) list(ctx context.Context, query string, args ...any) ([]model.Commitment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Commitment, 0)
	for rows.Next() {
		var c model.Commitment
		err := rows.Scan(&c.ID, &c.SlotID, &c.BidID, &c.CounterpartyID,
			&c.CommittedAmount, &c.PaidDeposit, &c.Schedule, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
