package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/studiokit/backend/internal/db"
	"github.com/studiokit/backend/internal/model"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrAccessDenied = errors.New("access denied")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
)

// dummyHash is a real bcrypt digest compared against when the email does not
// resolve to a user, so unknown-email and wrong-password take the same time.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserSessionStore is the slice of the credential store the auth core needs.
type UserSessionStore interface {
	GetUserByEmail(ctx context.Context, email string, includePasswordHash bool) (*model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	SetRefreshTokenHash(ctx context.Context, id uuid.UUID, hash string) error
	ClearRefreshTokenHash(ctx context.Context, id uuid.UUID) error
	RotateRefreshTokenHash(ctx context.Context, id uuid.UUID, oldHash, newHash string) (bool, error)
}

type AuthService struct {
	store  UserSessionStore
	tokens *TokenIssuer
	hasher *PasswordHasher
}

func NewAuthService(store UserSessionStore, tokens *TokenIssuer, hasher *PasswordHasher) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		hasher: hasher,
	}
}

// ValidateCredentials resolves an email/password pair to an identity.
// Unknown email and wrong password both come back as ErrUnauthorized; the
// caller cannot tell which happened.
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (*model.AuthIdentity, error) {
	user, err := s.store.GetUserByEmail(ctx, email, true)
	if err != nil {
		if db.IsNoRows(err) {
			s.hasher.Verify(password, dummyHash)
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrUnauthorized
	}

	return &model.AuthIdentity{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

// Login issues a token pair and persists the refresh-token hash, overwriting
// any prior value. Overwriting is the rotation point: every previously issued
// refresh token for this user stops working here. The hash write is sequenced
// before the pair is returned.
func (s *AuthService) Login(ctx context.Context, identity *model.AuthIdentity) (model.TokenPair, error) {
	pair, err := s.tokens.IssuePair(identity.ID, identity.Email, identity.Role)
	if err != nil {
		return model.TokenPair{}, err
	}

	hash, err := s.hasher.HashToken(pair.RefreshToken)
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := s.store.SetRefreshTokenHash(ctx, identity.ID, hash); err != nil {
		return model.TokenPair{}, err
	}

	return pair, nil
}

// Logout clears the stored refresh-token hash, so any outstanding refresh
// token dies immediately. An already-issued access token stays valid until
// its own expiry, at most 15 minutes; there is no access-token blacklist.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.store.ClearRefreshTokenHash(ctx, userID)
}

// Refresh verifies the presented token against the stored hash and rotates
// in a new pair. Refresh tokens are single-use: a successful refresh replaces
// the hash, and the same token presented again is denied. The swap is a
// conditional update, so two concurrent refreshes with the same token admit
// exactly one winner.
func (s *AuthService) Refresh(ctx context.Context, userID uuid.UUID, presented string) (model.TokenPair, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return model.TokenPair{}, ErrAccessDenied
		}
		return model.TokenPair{}, err
	}

	if user.RefreshTokenHash == nil {
		return model.TokenPair{}, ErrAccessDenied
	}
	if !s.hasher.VerifyToken(presented, *user.RefreshTokenHash) {
		return model.TokenPair{}, ErrAccessDenied
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Email, user.Role)
	if err != nil {
		return model.TokenPair{}, err
	}

	newHash, err := s.hasher.HashToken(pair.RefreshToken)
	if err != nil {
		return model.TokenPair{}, err
	}

	rotated, err := s.store.RotateRefreshTokenHash(ctx, userID, *user.RefreshTokenHash, newHash)
	if err != nil {
		return model.TokenPair{}, err
	}
	if !rotated {
		return model.TokenPair{}, ErrAccessDenied
	}

	return pair, nil
}

// ResolveIdentity fetches the current user row for "who am I" responses.
func (s *AuthService) ResolveIdentity(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}
