package app

import (
	"testing"

	"github.com/form3tech-oss/jwt-go"
)

func TestGenerateToken(t *testing.T) {
	service := NewChainTokenService("test-secret", "test-issuer")

	token, err := service.GenerateToken("game-123", ChainTokenActionJoin)
	if err != nil {
		t.Fatalf("Failed to generate join token: %v", err)
	}

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			t.Fatalf("Unexpected signing method: %v", tok.Header["alg"])
		}
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("Failed to parse token: %v", err)
	}
	if !parsed.Valid {
		t.Fatal("Token should be valid")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("Expected map claims")
	}
	if claims["iss"] != "test-issuer" {
		t.Errorf("Expected issuer test-issuer, got %v", claims["iss"])
	}
	if claims["sub"] != "game-123" {
		t.Errorf("Expected subject game-123, got %v", claims["sub"])
	}
	if claims["act"] != ChainTokenActionJoin {
		t.Errorf("Expected action join, got %v", claims["act"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Error("Token should carry an expiry")
	}
	if claims["jti"] == "" {
		t.Error("Token should carry a unique id")
	}
}

func TestGenerateToken_Validation(t *testing.T) {
	service := NewChainTokenService("test-secret", "test-issuer")

	if _, err := service.GenerateToken("", ChainTokenActionJoin); err == nil {
		t.Error("Expected error for empty game id")
	}
	if _, err := service.GenerateToken("game-123", "mint"); err == nil {
		t.Error("Expected error for unsupported action")
	}

	unconfigured := NewChainTokenService("", "")
	if _, err := unconfigured.GenerateToken("game-123", ChainTokenActionSettle); err == nil {
		t.Error("Expected error for missing secret")
	}
}

func TestGenerateToken_SettleAction(t *testing.T) {
	service := NewChainTokenService("test-secret", "test-issuer")

	token, err := service.GenerateToken("game-123", ChainTokenActionSettle)
	if err != nil {
		t.Fatalf("Failed to generate settle token: %v", err)
	}

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("Failed to parse token: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["act"] != ChainTokenActionSettle {
		t.Errorf("Expected action settle, got %v", claims["act"])
	}
}
