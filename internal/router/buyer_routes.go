package router

import (
	"github.com/labstack/echo/v4"

	"github.com/avelora/integration-marketplace/internal/handler"
	"github.com/avelora/integration-marketplace/internal/middleware"
	"github.com/avelora/integration-marketplace/internal/model"
)

// RegisterBuyer registers buyer-scoped endpoints under /v1 for
// advertisers and merchants.  The marketplace browse endpoint uses the
// redirect variant of the role gate so that a creator landing on it is
// sent to their own home instead of receiving an error, and its
// responses flow through the Redis cache when one is configured.
func RegisterBuyer(e *echo.Echo, d *handler.DiscoveryHandler, b *handler.BidHandler,
	as *handler.AssistHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	browse := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RedirectRole("/v1/me", model.RoleAdvertiser, model.RoleMerchant, model.RoleOperator),
	)
	if cache != nil {
		browse.Use(cache)
	}
	browse.GET("/slots", d.Browse)

	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdvertiser, model.RoleMerchant),
	)

	// ---- Bids ----
	g.POST("/bids", b.Create)
	g.PUT("/bids/:id", b.Update)
	g.PATCH("/bids/:id", b.Update)
	g.DELETE("/bids/:id", b.Cancel)

	// ---- Pitch assist ----
	g.POST("/assist/pitch", as.Pitch)
}
