package service

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/studiokit/backend/internal/db"
	"github.com/studiokit/backend/internal/model"
	"github.com/studiokit/backend/internal/storage"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
)

// UserAdminStore is the credential-store surface the user CRUD needs beyond
// what the auth core consumes.
type UserAdminStore interface {
	CreateUser(ctx context.Context, id uuid.UUID, email, passwordHash string, role model.Role, displayName string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string, includePasswordHash bool) (*model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUserFields(ctx context.Context, id uuid.UUID, fields db.UserFields) (*model.User, error)
	SoftDeleteUser(ctx context.Context, id uuid.UUID) error
	HardDeleteUser(ctx context.Context, id uuid.UUID) error
}

type UsersService struct {
	store  UserAdminStore
	hasher *PasswordHasher
	files  storage.Provider
}

func NewUsersService(store UserAdminStore, hasher *PasswordHasher, files storage.Provider) *UsersService {
	return &UsersService{
		store:  store,
		hasher: hasher,
		files:  files,
	}
}

// EnsureAdmin seeds the initial admin account. A no-op when the account
// already exists or seeding is not configured.
func (s *UsersService) EnsureAdmin(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	_, err := s.store.GetUserByEmail(ctx, email, false)
	if err == nil {
		return nil
	}
	if !db.IsNoRows(err) {
		return err
	}

	_, err = s.Create(ctx, model.CreateUserRequest{
		Email:       email,
		Password:    password,
		Role:        model.RoleAdmin,
		DisplayName: "Administrator",
	})
	return err
}

func (s *UsersService) List(ctx context.Context) ([]model.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *UsersService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UsersService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	if !req.Role.Valid() {
		return nil, ErrInvalidInput
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.CreateUser(ctx, uuid.New(), req.Email, hash, req.Role, req.DisplayName)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return user, nil
}

// Update applies an admin-driven partial update. A password here is a reset:
// the current password is not checked.
func (s *UsersService) Update(ctx context.Context, id uuid.UUID, req model.UpdateUserRequest) (*model.User, error) {
	fields := db.UserFields{
		DisplayName: req.DisplayName,
	}

	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, ErrInvalidInput
		}
		fields.Role = req.Role
	}

	if req.Password != nil {
		if err := validatePassword(*req.Password); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		fields.PasswordHash = &hash
	}

	user, err := s.store.UpdateUserFields(ctx, id, fields)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword is the self-service path: the current password must verify
// before the new one is stored.
func (s *UsersService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return ErrUnauthorized
		}
		return err
	}

	withHash, err := s.store.GetUserByEmail(ctx, user.Email, true)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(currentPassword, withHash.PasswordHash) {
		return ErrUnauthorized
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	_, err = s.store.UpdateUserFields(ctx, userID, db.UserFields{PasswordHash: &hash})
	return err
}

// Delete removes the user, soft by default. Cleanup of the profile image is
// best-effort: a storage failure is logged, not returned.
func (s *UsersService) Delete(ctx context.Context, id uuid.UUID, hard bool) error {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return ErrNotFound
		}
		return err
	}

	if hard {
		err = s.store.HardDeleteUser(ctx, id)
	} else {
		err = s.store.SoftDeleteUser(ctx, id)
	}
	if err != nil {
		return err
	}

	if user.ProfileImage != nil {
		if err := s.files.Remove(ctx, *user.ProfileImage); err != nil {
			log.Printf("Failed to remove profile image for user %s: %v", id, err)
		}
	}
	return nil
}

// SetAvatar stores the uploaded image and records its reference on the user
// row, removing the previous image best-effort.
func (s *UsersService) SetAvatar(ctx context.Context, userID uuid.UUID, filename string, r io.Reader) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	ref, err := s.files.Save(ctx, filename, r)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateUserFields(ctx, userID, db.UserFields{ProfileImage: &ref})
	if err != nil {
		return nil, err
	}

	if user.ProfileImage != nil {
		if err := s.files.Remove(ctx, *user.ProfileImage); err != nil {
			log.Printf("Failed to remove previous profile image for user %s: %v", userID, err)
		}
	}
	return updated, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return ErrInvalidInput
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
