package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/avelora/integration-marketplace/internal/model"
	"github.com/avelora/integration-marketplace/internal/repository"
)

func TestSlotUpdatePreservesOmittedFields(t *testing.T) {
	base := model.Slot{
		ProjectID:    3,
		SceneRef:     "S14 INT. BAR",
		Description:  "hero pours a drink",
		Constraints:  "no spirits brands",
		PricingFloor: 1500,
		Modality:     model.ModalityPrivateAuction,
		Status:       model.SlotLocked,
		Visibility:   model.VisibilityPrivate,
	}
	got, msg := (slotReq{Description: "tweaked copy"}).toModel(base)
	if msg != "" {
		t.Fatalf("unexpected validation error: %s", msg)
	}
	if got.Status != model.SlotLocked {
		t.Fatalf("editing copy must not re-list a locked slot, status=%s", got.Status)
	}
	if got.Visibility != model.VisibilityPrivate || got.Modality != model.ModalityPrivateAuction {
		t.Fatalf("omitted enums must keep stored values: %+v", got)
	}
	if got.Description != "tweaked copy" {
		t.Fatalf("provided field must win: %q", got.Description)
	}
	if got.ProjectID != 3 || got.SceneRef != base.SceneRef || got.PricingFloor != 1500 {
		t.Fatalf("omitted fields must keep stored values: %+v", got)
	}
}

func TestSlotCreateDefaults(t *testing.T) {
	got, msg := (slotReq{ProjectID: 9, SceneRef: "S2 EXT. ROOF"}).toModel(model.Slot{})
	if msg != "" {
		t.Fatalf("unexpected validation error: %s", msg)
	}
	if got.Status != model.SlotAvailable {
		t.Fatalf("new slot should default to Available, got %s", got.Status)
	}
	if got.Visibility != model.VisibilityPublic || got.Modality != model.ModalityPrivateAuction {
		t.Fatalf("unexpected defaults: %+v", got)
	}
}

func TestSlotUpdateRefusesRelistWithActiveDeal(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	h := NewSlotHandler(repository.NewSlotRepo(db), repository.NewProjectRepo(db), repository.NewBidRepo(db))

	now := time.Now()
	mock.ExpectQuery("SELECT id, project_id, scene_ref").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "project_id", "scene_ref", "description", "constraints", "pricing_floor",
			"modality", "status", "visibility", "created_at", "updated_at",
		}).AddRow(5, 3, "S14 INT. BAR", "copy", "", 1500.0,
			model.ModalityPrivateAuction, model.SlotLocked, model.VisibilityPrivate, now, now))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bids`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"status":"Available"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("5")
	c.Set("user_id", uint64(11))

	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for relisting a locked slot, got %d body=%s", rec.Code, rec.Body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
