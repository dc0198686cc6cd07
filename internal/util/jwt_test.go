package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParseToken(t *testing.T) {
	secret := "unit-test-secret"
	token, err := GenerateToken(secret, "atendx", "64a000000000000000000001", "admin@example.com", 30*time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error = %v, want nil", err)
	}

	claims, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("ParseToken error = %v, want nil", err)
	}
	if claims.AdminID != "64a000000000000000000001" {
		t.Errorf("AdminID = %s, want 64a000000000000000000001", claims.AdminID)
	}
	if claims.Email != "admin@example.com" {
		t.Errorf("Email = %s, want admin@example.com", claims.Email)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Error("token must expire in the future")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _ := GenerateToken("secret-a", "atendx", "id", "a@b.c", time.Minute)
	if _, err := ParseToken("secret-b", token); err == nil {
		t.Error("ParseToken with wrong secret error = nil, want error")
	}
}

func TestParseToken_Expired(t *testing.T) {
	// jwt/v5 validates exp during parse
	claims := &Claims{
		AdminID: "id",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Error("ParseToken of expired token error = nil, want error")
	}
}
