package router

import (
	"github.com/labstack/echo/v4"

	"github.com/avelora/integration-marketplace/internal/handler"
	"github.com/avelora/integration-marketplace/internal/middleware"
	"github.com/avelora/integration-marketplace/internal/model"
)

// RegisterCreator registers CREATOR-scoped endpoints under /v1.
// All routes require a valid JWT and CREATOR role.
func RegisterCreator(e *echo.Echo, p *handler.ProjectHandler, s *handler.SlotHandler,
	f *handler.FinanceHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCreator),
	)

	// ---- Projects ----
	g.POST("/projects", p.Create)
	g.PUT("/projects/:id", p.Update)
	g.PATCH("/projects/:id", p.Update)
	g.DELETE("/projects/:id", p.Delete)

	// ---- Slots ----
	g.POST("/slots", s.Create)
	g.GET("/projects/:id/slots", s.ListByProject)
	g.PUT("/slots/:id", s.Update)
	g.PATCH("/slots/:id", s.Update)
	g.DELETE("/slots/:id", s.Delete)

	// ---- Financing ----
	g.GET("/finance/dashboard", f.Dashboard)
}
