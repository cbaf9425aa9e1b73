package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/avelora/integration-marketplace/internal/deal"
)

// Two concurrent accepts of different pending bids on one slot must not
// both land: the exclusivity check is folded into the UPDATE itself, so
// the statement that runs second matches zero rows.
func TestAcceptPendingGuardsSlotExclusivity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewBidRepo(db)
	ctx := context.Background()

	// the slot already carries an active bid: the conditional UPDATE
	// matches nothing and the accept loses with a conflict
	mock.ExpectExec("UPDATE bids SET status=").
		WithArgs(deal.StatusAwaitingApproval, uint64(7), deal.StatusPending,
			uint64(3), deal.StatusAccepted, deal.StatusAwaitingApproval, deal.StatusCommitted).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.AcceptPending(ctx, 7, 3); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on busy slot, got %v", err)
	}

	// free slot: the same statement transitions the bid
	mock.ExpectExec("UPDATE bids SET status=").
		WithArgs(deal.StatusAwaitingApproval, uint64(8), deal.StatusPending,
			uint64(4), deal.StatusAccepted, deal.StatusAwaitingApproval, deal.StatusCommitted).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.AcceptPending(ctx, 8, 4); err != nil {
		t.Fatalf("accept on free slot: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// The commit decision on approval must come from the row as re-read
// under lock after the flag lands, not from the snapshot the request
// started with: when the other party approved concurrently, only the
// locked re-read sees both flags.
func TestApprovalDecidedFromLockedRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewBidRepo(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bids SET creator_approved=1").
		WithArgs(uint64(7), deal.StatusAwaitingApproval).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// the buyer's approval landed in between: the locked row carries
	// both flags even though this request's snapshot had neither
	mock.ExpectQuery("SELECT status, creator_approved, buyer_approved FROM bids").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "creator_approved", "buyer_approved"}).
			AddRow(deal.StatusAwaitingApproval, true, true))

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()

	if err := repo.SetApprovalTx(ctx, tx, 7, deal.PartyCreator); err != nil {
		t.Fatalf("set approval: %v", err)
	}
	locked, err := repo.ApprovalStateTx(ctx, tx, 7)
	if err != nil {
		t.Fatalf("approval state: %v", err)
	}
	if !deal.CommitReady(locked) {
		t.Fatalf("locked row with both approvals must commit: %+v", locked)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
