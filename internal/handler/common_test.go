package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestGetUserIDAcceptsCommonClaimTypes(t *testing.T) {
	e := echo.New()
	cases := []struct {
		name string
		val  any
		want uint64
	}{
		{"uint64", uint64(7), 7},
		{"int", 7, 7},
		{"int64", int64(7), 7},
		{"float64 from json claims", float64(7), 7},
		{"string", "7", 7},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.Set("user_id", tc.val)
		got, err := getUserID(c)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestGetUserIDRejectsMissing(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if _, err := getUserID(c); err == nil {
		t.Fatal("expected error for missing user_id")
	}
}

func TestPickPrefersFirstNonEmpty(t *testing.T) {
	if got := pick("", "snake", "camel"); got != "snake" {
		t.Fatalf("pick = %q, want snake", got)
	}
	if got := pick("camel", "snake"); got != "camel" {
		t.Fatalf("pick = %q, want camel", got)
	}
	if got := pick("", ""); got != "" {
		t.Fatalf("pick = %q, want empty", got)
	}
}

func TestPickFAndPickU(t *testing.T) {
	v := 5.0
	if got := pickF(nil, &v); got == nil || *got != 5.0 {
		t.Fatalf("pickF did not return the non-nil pointer")
	}
	if got := pickF(nil, nil); got != nil {
		t.Fatalf("pickF(nil, nil) = %v, want nil", got)
	}
	if got := pickU(0, 9); got != 9 {
		t.Fatalf("pickU = %d, want 9", got)
	}
}

func TestParseIDRejectsBadValues(t *testing.T) {
	e := echo.New()
	for _, bad := range []string{"", "0", "abc", "-1"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(bad)
		if _, err := parseID(c, "id"); err == nil {
			t.Fatalf("parseID(%q) did not fail", bad)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("42")
	id, err := parseID(c, "id")
	if err != nil || id != 42 {
		t.Fatalf("parseID(42) = %d, %v", id, err)
	}
}
