package httpapi

import (
	"errors"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"barbercash/backend/internal/domain"
)

type authenticatorStub struct {
	user     domain.User
	password string
}

func (s authenticatorStub) Authenticate(username string, password string) (domain.User, error) {
	if username != s.user.Username || password != s.password {
		return domain.User{}, errors.New("invalid credentials")
	}
	return s.user, nil
}

func stubUsers() authenticatorStub {
	return authenticatorStub{
		user:     domain.User{ID: "usr-1", Name: "MARIA", Username: "maria", Role: domain.RoleStaff},
		password: "pass1234",
	}
}

func TestLoginIssuesTokenCarryingActor(t *testing.T) {
	manager := NewAuthManager("test-secret", time.Hour, stubUsers())

	resp, err := manager.Login(domain.LoginRequest{Username: " maria ", Password: "pass1234"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.Role != domain.RoleStaff || resp.User.ID != "usr-1" {
		t.Fatalf("unexpected login response: %+v", resp)
	}

	actor, err := manager.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if actor.UserID != "usr-1" || actor.Username != "maria" || actor.Role != domain.RoleStaff {
		t.Fatalf("unexpected actor: %+v", actor)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	manager := NewAuthManager("test-secret", time.Hour, stubUsers())
	if _, err := manager.Login(domain.LoginRequest{Username: "maria", Password: "nope"}); err == nil {
		t.Fatalf("expected invalid credentials")
	}
}

func TestParseTokenRejectsForeignAndExpiredTokens(t *testing.T) {
	manager := NewAuthManager("test-secret", time.Hour, stubUsers())
	other := NewAuthManager("other-secret", time.Hour, stubUsers())

	resp, err := other.Login(domain.LoginRequest{Username: "maria", Password: "pass1234"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := manager.ParseToken(resp.AccessToken); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}

	expired, err := manager.sign(stubUsers().user, time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := manager.ParseToken(expired); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}

	unsigned := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, barberClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{Subject: "maria", ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "usr-1",
		Role:             domain.RoleAdmin,
	})
	raw, err := unsigned.SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := manager.ParseToken(raw); err == nil {
		t.Fatalf("expected alg=none token to be rejected")
	}
}
