package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func invoke(t *testing.T, mw echo.MiddlewareFunc, role any) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	h := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestRequireRoleAllows(t *testing.T) {
	rec := invoke(t, RequireRole("CREATOR", "OPERATOR"), "CREATOR")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRoleForbids(t *testing.T) {
	rec := invoke(t, RequireRole("CREATOR"), "ADVERTISER")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRoleMissingClaim(t *testing.T) {
	rec := invoke(t, RequireRole("CREATOR"), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRedirectRolePassesAllowed(t *testing.T) {
	rec := invoke(t, RedirectRole("/v1/me", "ADVERTISER", "MERCHANT"), "MERCHANT")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRedirectRoleRedirectsOthers(t *testing.T) {
	rec := invoke(t, RedirectRole("/v1/me", "ADVERTISER", "MERCHANT"), "CREATOR")
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/v1/me" {
		t.Fatalf("expected redirect to /v1/me, got %q", loc)
	}
}
