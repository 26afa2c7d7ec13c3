package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testJWTSecret = "test-secret"

func signedToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestJWTIdentity(t *testing.T) {
	t.Parallel()

	identity := NewJWTIdentity(testJWTSecret)

	t.Run("accepts valid bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tickets/mine", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, testJWTSecret, "buyer-1"))

		buyerID, err := identity.BuyerID(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buyerID != "buyer-1" {
			t.Fatalf("expected buyer-1, got %q", buyerID)
		}
	})

	t.Run("rejects missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tickets/mine", nil)

		if _, err := identity.BuyerID(req); err == nil {
			t.Fatal("expected error for missing header")
		}
	})

	t.Run("rejects non-bearer scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tickets/mine", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

		if _, err := identity.BuyerID(req); err == nil {
			t.Fatal("expected error for non-bearer scheme")
		}
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tickets/mine", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, "other-secret", "buyer-1"))

		if _, err := identity.BuyerID(req); err == nil {
			t.Fatal("expected error for wrong signing key")
		}
	})

	t.Run("rejects expired token", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "buyer-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		})
		signed, err := token.SignedString([]byte(testJWTSecret))
		if err != nil {
			t.Fatalf("sign token: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/tickets/mine", nil)
		req.Header.Set("Authorization", "Bearer "+signed)

		if _, err := identity.BuyerID(req); err == nil {
			t.Fatal("expected error for expired token")
		}
	})

	t.Run("rejects token without subject", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		signed, err := token.SignedString([]byte(testJWTSecret))
		if err != nil {
			t.Fatalf("sign token: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/tickets/mine", nil)
		req.Header.Set("Authorization", "Bearer "+signed)

		if _, err := identity.BuyerID(req); err == nil {
			t.Fatal("expected error for missing subject")
		}
	})

	t.Run("rejects unsigned token", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "buyer-1"})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("sign token: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/tickets/mine", nil)
		req.Header.Set("Authorization", "Bearer "+signed)

		if _, err := identity.BuyerID(req); err == nil {
			t.Fatal("expected error for alg=none token")
		}
	})
}
