package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/studiokit/backend/internal/config"
	"github.com/studiokit/backend/internal/model"
)

// TokenIssuer signs and verifies the access/refresh pair. The two kinds use
// independent secrets and lifetimes: leaking one signing key must not allow
// forging the other token kind.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

type sessionClaims struct {
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
	jwt.RegisteredClaims
}

func NewTokenIssuer(cfg config.AuthConfig) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
	}
}

func (t *TokenIssuer) AccessTTL() time.Duration  { return t.accessTTL }
func (t *TokenIssuer) RefreshTTL() time.Duration { return t.refreshTTL }

// IssuePair signs both tokens for the given identity. The tokens carry the
// same claims; only secret and expiry differ.
func (t *TokenIssuer) IssuePair(id uuid.UUID, email string, role model.Role) (model.TokenPair, error) {
	accessToken, err := t.sign(id, email, role, t.accessSecret, t.accessTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshToken, err := t.sign(id, email, role, t.refreshSecret, t.refreshTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (t *TokenIssuer) ParseAccess(tokenStr string) (*model.AuthIdentity, error) {
	return t.parse(tokenStr, t.accessSecret)
}

func (t *TokenIssuer) ParseRefresh(tokenStr string) (*model.AuthIdentity, error) {
	return t.parse(tokenStr, t.refreshSecret)
}

func (t *TokenIssuer) sign(id uuid.UUID, email string, role model.Role, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (t *TokenIssuer) parse(tokenStr string, secret []byte) (*model.AuthIdentity, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthorized
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}

	// Missing subject or email is a hard failure, not a soft default.
	if claims.Subject == "" || claims.Email == "" || !claims.Role.Valid() {
		return nil, ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrUnauthorized
	}

	return &model.AuthIdentity{
		ID:    userID,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}
