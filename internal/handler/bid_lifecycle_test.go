package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/avelora/integration-marketplace/internal/deal"
	"github.com/avelora/integration-marketplace/internal/repository"
)

func TestAddCommentRefusedOnClosedThread(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	h := &BidHandler{Bids: repository.NewBidRepo(db), Slots: repository.NewSlotRepo(db)}

	now := time.Now()
	mock.ExpectQuery("SELECT id, slot_id, counterparty_id").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "slot_id", "counterparty_id", "objective", "pricing_model", "amount_terms",
			"flight_window", "status", "creator_approved", "buyer_approved", "created_at", "updated_at",
		}).AddRow(7, 3, 21, "Reach", "Fixed", "$500 (Fixed)", "Q1 2026",
			deal.StatusDeclined, false, false, now, now))
	mock.ExpectQuery("SELECT public_id, author_id, body, created_at FROM bid_comments").
		WillReturnRows(sqlmock.NewRows([]string{"public_id", "author_id", "body", "created_at"}))
	mock.ExpectQuery("SELECT p.creator_id FROM slots").
		WillReturnRows(sqlmock.NewRows([]string{"creator_id"}).AddRow(11))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"still interested?"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7")
	c.Set("user_id", uint64(21))

	if err := h.AddComment(c); err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on a declined bid's thread, got %d body=%s", rec.Code, rec.Body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
