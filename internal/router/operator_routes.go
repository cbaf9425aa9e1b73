package router

import (
	"github.com/labstack/echo/v4"

	"github.com/avelora/integration-marketplace/internal/handler"
	"github.com/avelora/integration-marketplace/internal/middleware"
	"github.com/avelora/integration-marketplace/internal/model"
)

// RegisterOperator registers OPERATOR-scoped endpoints under /v1.
// Operators hold a marketplace-wide read view plus audit and evidence
// exports.
func RegisterOperator(e *echo.Echo, a *handler.AuthHandler, b *handler.BidHandler,
	f *handler.FinanceHandler, au *handler.AuditHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOperator),
	)

	g.GET("/users", a.ListUsers)
	g.GET("/bids/:id/evidence_pack", b.EvidencePack)
	g.GET("/finance/operator/overview", f.OperatorOverview)
	g.GET("/audit", au.List)
}
