package middleware

// identity.go holds helpers shared across middleware files for reading
// the authenticated identity out of the Echo context.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user id as a string, or
// "anon" when nothing is stored.  JWTAuth stores the raw "sub" claim
// which json decodes as float64, so both forms are handled.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return "anon"
}

// currentRole returns the authenticated role, or "anon".
func currentRole(c echo.Context) string {
	if s, ok := c.Get("role").(string); ok && s != "" {
		return s
	}
	return "anon"
}
