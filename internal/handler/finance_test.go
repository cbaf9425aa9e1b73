package handler

import (
	"testing"

	"github.com/avelora/integration-marketplace/internal/model"
	"github.com/avelora/integration-marketplace/internal/repository"
)

func TestFinanceDashboardPerProjectBreakdown(t *testing.T) {
	budgetA, budgetB := 10000.0, 5000.0
	projects := []model.Project{
		{ID: 1, Title: "Neon Harbor", BudgetTarget: &budgetA},
		{ID: 2, Title: "Last Orchard", BudgetTarget: &budgetB},
		{ID: 3, Title: "Unfunded Pilot"},
	}
	// in-flight amounts: committed and awaiting-approval bids both count
	amounts := []repository.ActiveAmount{
		{ProjectID: 1, AmountTerms: "$2500 (Fixed)"},
		{ProjectID: 1, AmountTerms: "$500 (Fixed)"},
		{ProjectID: 2, AmountTerms: "$1500 (Fixed)"},
	}
	commitments := []model.Commitment{
		{BidID: 9, CommittedAmount: 2500, PaidDeposit: true},
		{BidID: 10, CommittedAmount: 1500},
	}

	resp := buildFinanceDashboard(projects, amounts, commitments)

	if len(resp.Projects) != 3 {
		t.Fatalf("expected a row per project, got %d", len(resp.Projects))
	}
	if resp.Projects[0].CommittedAmount != 3000 {
		t.Fatalf("project 1 committed: want 3000, got %v", resp.Projects[0].CommittedAmount)
	}
	if resp.Projects[1].CommittedAmount != 1500 {
		t.Fatalf("project 2 committed: want 1500, got %v", resp.Projects[1].CommittedAmount)
	}
	if resp.Projects[2].CommittedAmount != 0 {
		t.Fatalf("project without bids must report zero, got %v", resp.Projects[2].CommittedAmount)
	}
	if resp.TotalCommitted != 4500 {
		t.Fatalf("total committed: want 4500, got %v", resp.TotalCommitted)
	}
	if resp.TotalBudgetTarget != 15000 {
		t.Fatalf("total budget: want 15000, got %v", resp.TotalBudgetTarget)
	}
	if resp.PercentageCovered != 30 {
		t.Fatalf("coverage: want 30, got %v", resp.PercentageCovered)
	}
	if resp.DepositsPaid != 1 {
		t.Fatalf("deposits paid: want 1, got %d", resp.DepositsPaid)
	}
}

func TestFinanceDashboardNoBudgets(t *testing.T) {
	resp := buildFinanceDashboard([]model.Project{{ID: 1}}, nil, nil)
	if resp.PercentageCovered != 0 {
		t.Fatalf("coverage without budgets must be zero, got %v", resp.PercentageCovered)
	}
}
