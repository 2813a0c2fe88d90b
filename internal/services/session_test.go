package services_test

import (
	"testing"
	"time"

	"github.com/fivealab/planner/internal/models"
	"github.com/fivealab/planner/internal/services"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	secret := "test-secret"

	token, err := services.NewSessionToken(secret, 42, models.RoleStudent, "Jordan Kim", time.Hour)
	if err != nil {
		t.Fatalf("NewSessionToken failed: %v", err)
	}

	claims, err := services.ParseSessionToken(secret, token)
	if err != nil {
		t.Fatalf("ParseSessionToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID %d, expected 42", claims.UserID)
	}
	if claims.Role != models.RoleStudent {
		t.Errorf("Role %q, expected student", claims.Role)
	}
	if claims.RealName != "Jordan Kim" {
		t.Errorf("RealName %q", claims.RealName)
	}
	if claims.ID == "" {
		t.Error("Expected a token id")
	}
}

func TestSessionTokenRejections(t *testing.T) {
	token, err := services.NewSessionToken("secret-a", 1, models.RoleAdmin, "Admin", time.Hour)
	if err != nil {
		t.Fatalf("NewSessionToken failed: %v", err)
	}

	if _, err := services.ParseSessionToken("secret-b", token); err == nil {
		t.Error("Expected rejection with wrong secret")
	}
	if _, err := services.ParseSessionToken("secret-a", "not-a-token"); err == nil {
		t.Error("Expected rejection of malformed token")
	}

	expired, err := services.NewSessionToken("secret-a", 1, models.RoleAdmin, "Admin", -time.Minute)
	if err != nil {
		t.Fatalf("NewSessionToken failed: %v", err)
	}
	if _, err := services.ParseSessionToken("secret-a", expired); err == nil {
		t.Error("Expected rejection of expired token")
	}
}
