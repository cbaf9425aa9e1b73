package router

import (
	"github.com/labstack/echo/v4"

	"github.com/avelora/integration-marketplace/internal/handler"
	"github.com/avelora/integration-marketplace/internal/middleware"
	"github.com/avelora/integration-marketplace/internal/model"
)

// RegisterMerchant registers MERCHANT-scoped endpoints under /v1.
func RegisterMerchant(e *echo.Echo, sk *handler.SKUHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleMerchant),
	)

	// ---- SKU catalog ----
	g.POST("/skus", sk.Create)
	g.GET("/skus", sk.List)
	g.PUT("/skus/:id", sk.Update)
	g.PATCH("/skus/:id", sk.Update)
	g.DELETE("/skus/:id", sk.Delete)
	g.POST("/skus/:id/upload-image", sk.UploadImage)
}
