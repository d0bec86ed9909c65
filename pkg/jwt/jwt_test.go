package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/edmundobop/plataforma-bravo-web-sub001/config"
)

func newTestManager(accessTTL time.Duration) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: 24 * time.Hour,
	})
}

func TestManager_AccessTokenRoundTrip(t *testing.T) {
	m := newTestManager(15 * time.Minute)

	token, err := m.GenerateAccessToken("user-1", "member", "unit-1")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "member" || claims.UnitID != "unit-1" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.TokenType != "access" {
		t.Errorf("expected access token, got %s", claims.TokenType)
	}
	if claims.ID == "" {
		t.Error("expected a jti to be set")
	}
}

func TestManager_RefreshTokenType(t *testing.T) {
	m := newTestManager(15 * time.Minute)

	token, err := m.GenerateRefreshToken("user-1", "member", "unit-1")
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("expected refresh token, got %s", claims.TokenType)
	}
}

func TestManager_ExpiredToken(t *testing.T) {
	m := newTestManager(-time.Minute)

	token, err := m.GenerateAccessToken("user-1", "member", "unit-1")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	_, err = m.ParseToken(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got: %v", err)
	}
}

func TestManager_WrongSecret(t *testing.T) {
	m := newTestManager(15 * time.Minute)
	other := NewManager(&config.AuthConfig{
		JWTSecret:       "other-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})

	token, err := m.GenerateAccessToken("user-1", "member", "unit-1")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	_, err = other.ParseToken(token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got: %v", err)
	}
}

func TestManager_GarbageToken(t *testing.T) {
	m := newTestManager(15 * time.Minute)

	_, err := m.ParseToken("not.a.token")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got: %v", err)
	}
}

func TestManager_AccessTokenTTL(t *testing.T) {
	m := newTestManager(30 * time.Minute)
	if got := m.AccessTokenTTL(); got != 30*time.Minute {
		t.Errorf("expected 30m, got %v", got)
	}
}
