package router

import (
	"github.com/labstack/echo/v4"

	"github.com/avelora/integration-marketplace/internal/handler"
	"github.com/avelora/integration-marketplace/internal/middleware"
	"github.com/avelora/integration-marketplace/internal/model"
)

// RegisterShared registers endpoints used by more than one role.  The
// deal lifecycle routes only require a valid JWT; relationship checks
// (party of the bid, owner of the slot) happen in the handlers because
// they depend on row data, not on the role claim alone.
func RegisterShared(e *echo.Echo, b *handler.BidHandler, s *handler.SlotHandler,
	p *handler.ProjectHandler, sk *handler.SKUHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	// ---- Reads shared across roles ----
	g.GET("/slots/:id", s.Get)
	g.GET("/projects", p.List)
	g.GET("/projects/:id", p.Get)
	g.GET("/skus/:id", sk.Get)

	// ---- Bid inbox and deal lifecycle ----
	g.GET("/bids", b.List)
	g.GET("/bids/:id", b.Get)
	g.GET("/bids/slot/:slotId", b.ListBySlot)
	g.POST("/bids/:id/comments", b.AddComment)
	g.POST("/bids/:id/approve", b.Approve)
	g.GET("/bids/:id/deal_memo", b.DealMemo)

	// accept/decline are creator actions; ownership of the slot is
	// verified in the handler
	creator := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCreator),
	)
	creator.POST("/bids/:id/accept", b.Accept)
	creator.POST("/bids/:id/decline", b.Decline)
}
