package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avelora/integration-marketplace/internal/assist"
)

// AssistHandler serves pitch copy suggestions to buyers.
type AssistHandler struct {
	Assist *assist.Service
}

func NewAssistHandler(a *assist.Service) *AssistHandler {
	return &AssistHandler{Assist: a}
}

type assistReq struct {
	ProductName  string `json:"productName"`
	ProductName2 string `json:"product_name"`
	SlotScene    string `json:"slotScene"`
	SlotScene2   string `json:"slot_scene"`
	Objective    string `json:"objective"`
	Tone         string `json:"tone"`
}

// Pitch generates suggested pitch copy from the bid draft fields.
func (h *AssistHandler) Pitch(c echo.Context) error {
	var req assistReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	out, err := h.Assist.GeneratePitch(c.Request().Context(), assist.Request{
		ProductName: pick(req.ProductName, req.ProductName2),
		SlotScene:   pick(req.SlotScene, req.SlotScene2),
		Objective:   req.Objective,
		Tone:        req.Tone,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generation failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"pitch": out})
}
