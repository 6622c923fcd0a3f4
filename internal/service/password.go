package service

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher wraps bcrypt for both login passwords and refresh tokens at
// rest. Verification mismatches are a boolean false, never an error.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// HashToken digests the token before bcrypt: a signed JWT always exceeds
// bcrypt's 72-byte input cap.
func (h *PasswordHasher) HashToken(token string) (string, error) {
	return h.Hash(digestToken(token))
}

func (h *PasswordHasher) VerifyToken(token, hash string) bool {
	return h.Verify(digestToken(token), hash)
}

func digestToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
