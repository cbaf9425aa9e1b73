package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/avelora/integration-marketplace/internal/repository"
)

// AuditHandler exposes the audit trail to operators.
type AuditHandler struct {
	Audit *repository.AuditRepo
}

func NewAuditHandler(a *repository.AuditRepo) *AuditHandler {
	return &AuditHandler{Audit: a}
}

// List returns the newest audit entries, capped by the limit query
// parameter.
func (h *AuditHandler) List(c echo.Context) error {
	limit := 100
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = n
	}
	entries, err := h.Audit.List(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, entries)
}
