package utils

import (
	"testing"

	"github.com/rackwise/rackwise/internal/models"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("warehouse42")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "warehouse42" {
		t.Fatal("Hash must not equal the plaintext")
	}
	if !CheckPasswordHash("warehouse42", hash) {
		t.Error("Correct password rejected")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("Wrong password accepted")
	}
}

func TestGenerateAndValidateTokens(t *testing.T) {
	user := &models.UserAuth{
		ID:    "7b0d8c3e-5f2a-4b1c-9e6d-0a1b2c3d4e5f",
		Email: "ops@example.com",
		Role:  "user",
	}

	access, refresh, err := GenerateTokens(user, "test-secret")
	if err != nil {
		t.Fatalf("GenerateTokens failed: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("Empty token returned")
	}

	claims, err := ValidateToken(access, "test-secret")
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims["id"] != user.ID {
		t.Errorf("Token id claim: got %v, want %s", claims["id"], user.ID)
	}
	if claims["role"] != "user" {
		t.Errorf("Token role claim: got %v", claims["role"])
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	user := &models.UserAuth{ID: "u1", Email: "a@b.c", Role: "user"}
	access, _, err := GenerateTokens(user, "secret-a")
	if err != nil {
		t.Fatalf("GenerateTokens failed: %v", err)
	}
	if _, err := ValidateToken(access, "secret-b"); err == nil {
		t.Error("Token signed with a different secret should not validate")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token", "secret"); err == nil {
		t.Error("Garbage input should not validate")
	}
}
