package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret-key-0123456789abcdef", time.Hour)

	token, err := m.Generate("session-42")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.SessionID != "session-42" {
		t.Errorf("session ID = %q, want session-42", claims.SessionID)
	}
}

func TestExpiredToken(t *testing.T) {
	m := NewTokenManager("test-secret-key-0123456789abcdef", -time.Minute)

	token, err := m.Generate("session-42")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestWrongSecret(t *testing.T) {
	m1 := NewTokenManager("secret-one-0123456789abcdef0000", time.Hour)
	m2 := NewTokenManager("secret-two-0123456789abcdef0000", time.Hour)

	token, err := m1.Generate("session-42")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := m2.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}
