package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	at, err := NewAccessToken(secret, 42, "CREATOR", 15)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if at.Token == "" {
		t.Fatalf("empty token")
	}
	if time.Until(at.Exp) <= 0 {
		t.Fatalf("token already expired: %v", at.Exp)
	}

	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			t.Fatalf("unexpected signing method %v", tk.Method)
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse issued token: %v", err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type")
	}
	if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
		t.Fatalf("sub claim = %v, want 42", claims["sub"])
	}
	if role, _ := claims["role"].(string); role != "CREATOR" {
		t.Fatalf("role claim = %v, want CREATOR", claims["role"])
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	rt, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
	if len(rt.Raw) != 96 {
		t.Fatalf("raw refresh token length = %d, want 96", len(rt.Raw))
	}
	if HashRefreshRaw(rt.Raw) != HashRefreshRaw(rt.Raw) {
		t.Fatalf("hash must be deterministic")
	}
	other, _ := NewRefreshToken(7)
	if HashRefreshRaw(rt.Raw) == HashRefreshRaw(other.Raw) {
		t.Fatalf("distinct tokens must hash differently")
	}
}

func TestNewULIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewULID()
		if len(id) != 26 {
			t.Fatalf("ulid length = %d, want 26", len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate ulid %s", id)
		}
		seen[id] = true
	}
}
