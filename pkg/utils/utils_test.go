package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 2*time.Hour)
	id := uuid.New()

	token, err := m.GenerateAccessToken(id, "ofis@acente.com", "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != id || claims.Role != "admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 2*time.Hour)
	id := uuid.New()

	refresh, err := m.GenerateRefreshToken(id)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.ValidateAccessToken(refresh); err == nil {
		t.Fatalf("refresh token accepted as access token")
	}
	got, err := m.ValidateRefreshToken(refresh)
	if err != nil || got != id {
		t.Fatalf("refresh validation failed: %v %v", got, err)
	}
}

func TestTokenWithWrongSecret(t *testing.T) {
	token, _ := NewJWTManager("a", time.Hour, time.Hour).GenerateAccessToken(uuid.New(), "x@y.z", "staff")
	if _, err := NewJWTManager("b", time.Hour, time.Hour).ValidateAccessToken(token); err == nil {
		t.Fatalf("expected signature failure")
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("gizli-sifre")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPasswordHash("gizli-sifre", hash) {
		t.Fatalf("password should match")
	}
	if CheckPasswordHash("yanlis", hash) {
		t.Fatalf("wrong password matched")
	}
}

func TestParseID(t *testing.T) {
	if id, ok := ParseID("42"); !ok || id != 42 {
		t.Fatalf("expected 42, got %d %v", id, ok)
	}
	for _, bad := range []string{"", "0", "-1", "abc"} {
		if _, ok := ParseID(bad); ok {
			t.Fatalf("%q should be rejected", bad)
		}
	}
}

func TestStoredFileName(t *testing.T) {
	name := StoredFileName("Poliçe.PDF")
	if !strings.HasSuffix(name, ".pdf") {
		t.Fatalf("extension not kept: %s", name)
	}
	if _, err := uuid.Parse(strings.TrimSuffix(name, ".pdf")); err != nil {
		t.Fatalf("name is not a uuid: %s", name)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-09")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Location() != time.UTC || d.Hour() != 0 || d.Day() != 9 {
		t.Fatalf("unexpected date %v", d)
	}

	r, err := ParseDate("2025-03-09T23:30:00+03:00")
	if err != nil {
		t.Fatalf("parse rfc3339: %v", err)
	}
	if !r.Equal(d) {
		t.Fatalf("calendar day should be kept: %v", r)
	}

	if _, err := ParseDate("09.03.2025"); err == nil {
		t.Fatalf("expected error for unsupported layout")
	}
}

func TestDaysBetween(t *testing.T) {
	a, _ := ParseDate("2025-01-01")
	b, _ := ParseDate("2025-03-01")
	if got := DaysBetween(a, b); got != 59 {
		t.Fatalf("expected 59, got %d", got)
	}
}
