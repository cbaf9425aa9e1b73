package deal

import "testing"

func TestAcceptMovesPendingStraightToAwaitingApproval(t *testing.T) {
	out, err := Accept(State{Status: StatusPending})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Status != StatusAwaitingApproval {
		t.Fatalf("expected %s, got %s", StatusAwaitingApproval, out.Status)
	}
	if out.CreatorApproved || out.BuyerApproved {
		t.Fatalf("expected both approval flags reset on accept")
	}
}

func TestAcceptRejectsNonPending(t *testing.T) {
	for _, s := range []string{StatusAwaitingApproval, StatusCommitted, StatusDeclined, StatusCancelled} {
		if _, err := Accept(State{Status: s}); err != ErrInvalidTransition {
			t.Fatalf("accept from %s: expected ErrInvalidTransition, got %v", s, err)
		}
	}
}

func TestDeclineAndCancelOnlyFromPending(t *testing.T) {
	out, err := Decline(State{Status: StatusPending})
	if err != nil || out.Status != StatusDeclined {
		t.Fatalf("decline from pending: got %v %v", out, err)
	}
	out, err = Cancel(State{Status: StatusPending})
	if err != nil || out.Status != StatusCancelled {
		t.Fatalf("cancel from pending: got %v %v", out, err)
	}
	for _, s := range []string{StatusAwaitingApproval, StatusCommitted, StatusDeclined, StatusCancelled} {
		if _, err := Decline(State{Status: s}); err != ErrInvalidTransition {
			t.Fatalf("decline from %s: expected ErrInvalidTransition", s)
		}
		if _, err := Cancel(State{Status: s}); err != ErrInvalidTransition {
			t.Fatalf("cancel from %s: expected ErrInvalidTransition", s)
		}
	}
}

func TestEditOnlyWhilePending(t *testing.T) {
	if !CanEdit(State{Status: StatusPending}) {
		t.Fatalf("expected pending bid to be editable")
	}
	for _, s := range []string{StatusAwaitingApproval, StatusCommitted, StatusDeclined, StatusCancelled} {
		if CanEdit(State{Status: s}) {
			t.Fatalf("expected %s bid not to be editable", s)
		}
	}
}

// Full happy path from the product scenario: buyer bids, creator
// accepts, creator approves, buyer approves, deal commits.
func TestDualApprovalCommits(t *testing.T) {
	s, err := Accept(State{Status: StatusPending})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	s, changed, committed, err := Approve(s, PartyCreator)
	if err != nil || !changed || committed {
		t.Fatalf("creator approve: changed=%v committed=%v err=%v", changed, committed, err)
	}
	if !s.CreatorApproved || s.BuyerApproved {
		t.Fatalf("unexpected flags after creator approve: %+v", s)
	}
	if s.Status != StatusAwaitingApproval {
		t.Fatalf("status must remain %s until both approve, got %s", StatusAwaitingApproval, s.Status)
	}

	s, changed, committed, err = Approve(s, PartyBuyer)
	if err != nil || !changed || !committed {
		t.Fatalf("buyer approve: changed=%v committed=%v err=%v", changed, committed, err)
	}
	if s.Status != StatusCommitted {
		t.Fatalf("expected %s, got %s", StatusCommitted, s.Status)
	}
	if !s.CreatorApproved || !s.BuyerApproved {
		t.Fatalf("committed deal must carry both approvals: %+v", s)
	}
}

// Approval order must not matter.
func TestApprovalOrderIrrelevant(t *testing.T) {
	s, _ := Accept(State{Status: StatusPending})
	s, _, committed, _ := Approve(s, PartyBuyer)
	if committed {
		t.Fatalf("single approval must not commit")
	}
	s, _, committed, err := Approve(s, PartyCreator)
	if err != nil || !committed {
		t.Fatalf("expected commit on second approval, err=%v", err)
	}
}

func TestApproveIdempotentPerParty(t *testing.T) {
	s, _ := Accept(State{Status: StatusPending})
	s, changed, _, err := Approve(s, PartyCreator)
	if err != nil || !changed {
		t.Fatalf("first approve: changed=%v err=%v", changed, err)
	}
	again, changed, committed, err := Approve(s, PartyCreator)
	if err != nil {
		t.Fatalf("second approve: %v", err)
	}
	if changed || committed {
		t.Fatalf("second approve by same party must be a no-op")
	}
	if again != s {
		t.Fatalf("state mutated by idempotent approve: %+v vs %+v", again, s)
	}
}

func TestApproveRejectedOutsideAwaitingApproval(t *testing.T) {
	for _, s := range []string{StatusPending, StatusCommitted, StatusDeclined, StatusCancelled} {
		if _, _, _, err := Approve(State{Status: s}, PartyBuyer); err != ErrInvalidTransition {
			t.Fatalf("approve from %s: expected ErrInvalidTransition, got %v", s, err)
		}
	}
}

func TestCanApprove(t *testing.T) {
	s := State{Status: StatusAwaitingApproval}
	if !CanApprove(s, PartyCreator) || !CanApprove(s, PartyBuyer) {
		t.Fatalf("both parties should be able to approve initially")
	}
	s.CreatorApproved = true
	if CanApprove(s, PartyCreator) {
		t.Fatalf("creator already approved")
	}
	if !CanApprove(s, PartyBuyer) {
		t.Fatalf("buyer has not approved yet")
	}
	if CanApprove(State{Status: StatusPending}, PartyBuyer) {
		t.Fatalf("approval is only meaningful while awaiting approval")
	}
}

// Two parties approving at the same time each start from a snapshot
// where the other's flag is unset, so neither call reports committed.
// The commit decision therefore belongs to the merged row as re-read
// under lock, where CommitReady sees both flags.
func TestConcurrentApprovalsCommitViaMergedRow(t *testing.T) {
	snapshot, _ := Accept(State{Status: StatusPending})

	fromCreator, changed, committed, err := Approve(snapshot, PartyCreator)
	if err != nil || !changed || committed {
		t.Fatalf("creator from shared snapshot: changed=%v committed=%v err=%v", changed, committed, err)
	}
	fromBuyer, changed, committed, err := Approve(snapshot, PartyBuyer)
	if err != nil || !changed || committed {
		t.Fatalf("buyer from shared snapshot: changed=%v committed=%v err=%v", changed, committed, err)
	}

	// each write lands its own flag; the stored row is the union
	merged := State{
		Status:          StatusAwaitingApproval,
		CreatorApproved: fromCreator.CreatorApproved,
		BuyerApproved:   fromBuyer.BuyerApproved,
	}
	if !CommitReady(merged) {
		t.Fatalf("merged row with both approvals must be commit-ready: %+v", merged)
	}
	if CommitReady(fromCreator) || CommitReady(fromBuyer) {
		t.Fatalf("a single approval must not be commit-ready")
	}
	if CommitReady(State{Status: StatusCommitted, CreatorApproved: true, BuyerApproved: true}) {
		t.Fatalf("an already committed row must not commit again")
	}
}

func TestCommentThreadClosesOnDeclineAndCancel(t *testing.T) {
	for _, s := range []string{StatusPending, StatusAwaitingApproval, StatusCommitted} {
		if !CanComment(s) {
			t.Fatalf("thread on %s bid should be open", s)
		}
	}
	for _, s := range []string{StatusDeclined, StatusCancelled} {
		if CanComment(s) {
			t.Fatalf("thread on %s bid should be closed", s)
		}
	}
}

func TestActiveAndTerminalSets(t *testing.T) {
	for _, s := range []string{StatusAccepted, StatusAwaitingApproval, StatusCommitted} {
		if !IsActive(s) {
			t.Fatalf("%s should be active", s)
		}
	}
	for _, s := range []string{StatusPending, StatusDeclined, StatusCancelled} {
		if IsActive(s) {
			t.Fatalf("%s should not be active", s)
		}
	}
	for _, s := range []string{StatusCommitted, StatusDeclined, StatusCancelled} {
		if !IsTerminal(s) {
			t.Fatalf("%s should be terminal", s)
		}
	}
	if IsTerminal(StatusAwaitingApproval) {
		t.Fatalf("awaiting approval is not terminal")
	}
}
