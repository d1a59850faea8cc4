package auth

import (
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

func TestServiceSignAndParseRoundTrip(t *testing.T) {
	svc, err := NewService(Config{
		Secret:         "super-secret-key",
		AccessTokenTTL: time.Minute,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	fixed := time.Now()
	svc.WithNow(func() time.Time { return fixed })

	token, expiresAt, err := svc.SignAccessToken("ops@example.com")
	if err != nil {
		t.Fatalf("sign access token: %v", err)
	}
	if !expiresAt.Equal(fixed.Add(time.Minute)) {
		t.Fatalf("unexpected expiry: %s", expiresAt)
	}
	subject, err := svc.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if subject != "ops@example.com" {
		t.Fatalf("unexpected subject: %s", subject)
	}
}

func TestServiceParseRejectsAlgorithmMismatch(t *testing.T) {
	svc, err := NewService(Config{
		Secret:         "super-secret-key",
		AccessTokenTTL: time.Minute,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	fixed := time.Now()
	svc.WithNow(func() time.Time { return fixed })

	built, err := jwt.NewBuilder().
		Subject("ops@example.com").
		Issuer(svc.issuer).
		Audience([]string{svc.audience}).
		IssuedAt(fixed).
		NotBefore(fixed.Add(-svc.clockSkew)).
		Expiration(fixed.Add(svc.accessTTL)).
		Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}
	signed, err := jwt.Sign(built, jwt.WithKey(jwa.HS384, svc.secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := svc.ParseAccessToken(string(signed)); err == nil {
		t.Fatal("expected algorithm mismatch error")
	}
}

func TestServiceParseRejectsExpiredToken(t *testing.T) {
	svc, err := NewService(Config{
		Secret:         "super-secret-key",
		AccessTokenTTL: time.Minute,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	past := time.Now().Add(-time.Hour)
	svc.WithNow(func() time.Time { return past })
	token, _, err := svc.SignAccessToken("ops@example.com")
	if err != nil {
		t.Fatalf("sign access token: %v", err)
	}

	svc.WithNow(time.Now)
	if _, err := svc.ParseAccessToken(token); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestServiceRequiresSecret(t *testing.T) {
	if _, err := NewService(Config{Secret: "  "}); err == nil {
		t.Fatal("expected missing secret error")
	}
}
