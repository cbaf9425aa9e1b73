package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avelora/integration-marketplace/internal/deal"
	"github.com/avelora/integration-marketplace/internal/model"
	"github.com/avelora/integration-marketplace/internal/repository"
)

// operatorMarginRate is the marketplace's take on committed volume,
// reported on the operator overview.
const operatorMarginRate = 0.10

// FinanceHandler serves the financing views built from in-flight bids
// and recorded commitments.
type FinanceHandler struct {
	Commitments *repository.CommitmentRepo
	Projects    *repository.ProjectRepo
	Bids        *repository.BidRepo
}

func NewFinanceHandler(cm *repository.CommitmentRepo, p *repository.ProjectRepo, b *repository.BidRepo) *FinanceHandler {
	return &FinanceHandler{Commitments: cm, Projects: p, Bids: b}
}

// projectFinance is one project's row on the creator dashboard.
type projectFinance struct {
	Project         model.Project `json:"project"`
	CommittedAmount float64       `json:"committedAmount"`
}

type financeDashboardResp struct {
	Projects          []projectFinance   `json:"projects"`
	TotalBudgetTarget float64            `json:"totalBudgetTarget"`
	TotalCommitted    float64            `json:"totalCommitted"`
	PercentageCovered float64            `json:"percentageCovered"`
	DepositsPaid      int                `json:"depositsPaid"`
	Commitments       []model.Commitment `json:"commitments"`
}

// buildFinanceDashboard rolls active bid amounts up per project and
// computes how much of the stated budgets is covered.  Accepted and
// awaiting-approval bids count as commitments in progress, not just
// the already committed ones.
func buildFinanceDashboard(projects []model.Project, amounts []repository.ActiveAmount,
	commitments []model.Commitment) financeDashboardResp {
	perProject := make(map[uint64]float64, len(projects))
	for _, a := range amounts {
		perProject[a.ProjectID] += deal.ParseAmount(a.AmountTerms)
	}
	resp := financeDashboardResp{
		Projects:    make([]projectFinance, 0, len(projects)),
		Commitments: commitments,
	}
	for _, p := range projects {
		row := projectFinance{Project: p, CommittedAmount: perProject[p.ID]}
		resp.Projects = append(resp.Projects, row)
		resp.TotalCommitted += row.CommittedAmount
		if p.BudgetTarget != nil {
			resp.TotalBudgetTarget += *p.BudgetTarget
		}
	}
	for _, cm := range commitments {
		if cm.PaidDeposit {
			resp.DepositsPaid++
		}
	}
	if resp.TotalBudgetTarget > 0 {
		resp.PercentageCovered = resp.TotalCommitted / resp.TotalBudgetTarget * 100
	}
	return resp
}

// Dashboard reports the creator's financing position per project plus
// overall budget coverage.
func (h *FinanceHandler) Dashboard(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	projects, err := h.Projects.ListByCreator(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	amounts, err := h.Bids.ActiveAmountsByCreator(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	commitments, err := h.Commitments.ListByCreator(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, buildFinanceDashboard(projects, amounts, commitments))
}

type operatorOverviewResp struct {
	TotalCommitted  float64            `json:"totalCommitted"`
	TotalBudgets    float64            `json:"totalBudgets"`
	DepositsPaid    int                `json:"depositsPaid"`
	PlatformMargin  float64            `json:"platformMargin"`
	CommitmentCount int                `json:"commitmentCount"`
	Commitments     []model.Commitment `json:"commitments"`
}

// OperatorOverview reports marketplace-wide committed volume, stated
// budget targets and the platform margin.
func (h *FinanceHandler) OperatorOverview(c echo.Context) error {
	ctx := c.Request().Context()
	commitments, err := h.Commitments.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	projects, err := h.Projects.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	resp := operatorOverviewResp{
		CommitmentCount: len(commitments),
		Commitments:     commitments,
	}
	for _, cm := range commitments {
		resp.TotalCommitted += cm.CommittedAmount
		if cm.PaidDeposit {
			resp.DepositsPaid++
		}
	}
	for _, p := range projects {
		if p.BudgetTarget != nil {
			resp.TotalBudgets += *p.BudgetTarget
		}
	}
	resp.PlatformMargin = resp.TotalCommitted * operatorMarginRate
	return c.JSON(http.StatusOK, resp)
}
