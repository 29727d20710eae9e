package auth

import (
	"testing"
	"time"

	"github.com/NicoGarabito/TPIIPB-gestion-pagos/internal/domain/user"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Sign(7, user.RoleAdmin)

	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := m.Verify(token)

	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if claims.UserID != 7 {
		t.Errorf("UserID = %d, want 7", claims.UserID)
	}
	if claims.Rol != user.RoleAdmin {
		t.Errorf("Rol = %q, want %q", claims.Rol, user.RoleAdmin)
	}
	if claims.JTI == "" {
		t.Error("expected a jti")
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	signer := NewManager("secret-a", time.Hour)
	verifier := NewManager("secret-b", time.Hour)

	token, err := signer.Sign(1, user.RoleUsuario)

	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := verifier.Verify(token); err == nil {
		t.Fatal("expected verification to fail for a foreign secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	token, err := m.Sign(1, user.RoleUsuario)

	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.Verify(token); err == nil {
		t.Fatal("expected verification to fail for an expired token")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	if _, err := m.Verify("not-a-token"); err == nil {
		t.Fatal("expected verification to fail")
	}
}
