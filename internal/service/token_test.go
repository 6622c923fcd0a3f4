package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/studiokit/backend/internal/model"
)

func TestIssuePairRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testAuthConfig())
	id := uuid.New()

	pair, err := issuer.IssuePair(id, "team@x.com", model.RoleTeam)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatal("access and refresh tokens are identical")
	}

	access, err := issuer.ParseAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if access.ID != id || access.Email != "team@x.com" || access.Role != model.RoleTeam {
		t.Fatalf("unexpected access identity: %+v", access)
	}

	refresh, err := issuer.ParseRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
	if refresh.ID != id {
		t.Fatalf("unexpected refresh identity: %+v", refresh)
	}
}

func TestCrossSecretVerificationFails(t *testing.T) {
	issuer := NewTokenIssuer(testAuthConfig())
	pair, err := issuer.IssuePair(uuid.New(), "admin@x.com", model.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := issuer.ParseRefresh(pair.AccessToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("access token under refresh secret: expected ErrUnauthorized, got %v", err)
	}
	if _, err := issuer.ParseAccess(pair.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("refresh token under access secret: expected ErrUnauthorized, got %v", err)
	}
}

func TestExpiredTokenFails(t *testing.T) {
	cfg := testAuthConfig()
	cfg.AccessTTL = -time.Minute
	issuer := NewTokenIssuer(cfg)

	pair, err := issuer.IssuePair(uuid.New(), "admin@x.com", model.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.ParseAccess(pair.AccessToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expired token: expected ErrUnauthorized, got %v", err)
	}
}

func TestMalformedClaimsAreHardFailures(t *testing.T) {
	cfg := testAuthConfig()
	issuer := NewTokenIssuer(cfg)
	now := time.Now()

	cases := map[string]sessionClaims{
		"missing subject": {
			Email: "admin@x.com",
			Role:  model.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		},
		"missing email": {
			Role: model.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   uuid.NewString(),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		},
		"invalid role": {
			Email: "admin@x.com",
			Role:  "superuser",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   uuid.NewString(),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		},
		"non-uuid subject": {
			Email: "admin@x.com",
			Role:  model.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "42",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		},
	}

	for name, claims := range cases {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.AccessSecret))
		if err != nil {
			t.Fatalf("%s: sign: %v", name, err)
		}
		if _, err := issuer.ParseAccess(signed); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}
}

func TestUnsignedTokenFails(t *testing.T) {
	issuer := NewTokenIssuer(testAuthConfig())

	token := jwt.NewWithClaims(jwt.SigningMethodNone, sessionClaims{
		Email: "admin@x.com",
		Role:  model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := issuer.ParseAccess(signed); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("alg=none token: expected ErrUnauthorized, got %v", err)
	}
}
