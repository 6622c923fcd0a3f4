package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/studiokit/backend/internal/model"
)

const userColumns = `id, email, password_hash, role, refresh_token_hash, display_name, profile_image, created_at, updated_at, deleted_at`

// userColumnsNoHash leaves password_hash out of default lookups; only the
// login path asks for it explicitly.
const userColumnsNoHash = `id, email, '' AS password_hash, role, refresh_token_hash, display_name, profile_image, created_at, updated_at, deleted_at`

func (db *Postgres) CreateUser(ctx context.Context, id uuid.UUID, email, passwordHash string, role model.Role, displayName string) (*model.User, error) {
	query := fmt.Sprintf(`
		INSERT INTO users (id, email, password_hash, role, display_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING %s
	`, userColumns)

	return db.scanUser(db.Pool.QueryRow(ctx, query, id, email, passwordHash, role, displayName))
}

func (db *Postgres) GetUserByEmail(ctx context.Context, email string, includePasswordHash bool) (*model.User, error) {
	columns := userColumnsNoHash
	if includePasswordHash {
		columns = userColumns
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE email = $1 AND deleted_at IS NULL
	`, columns)

	return db.scanUser(db.Pool.QueryRow(ctx, query, email))
}

func (db *Postgres) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`, userColumnsNoHash)

	return db.scanUser(db.Pool.QueryRow(ctx, query, id))
}

func (db *Postgres) ListUsers(ctx context.Context) ([]model.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE deleted_at IS NULL
		ORDER BY created_at ASC
	`, userColumnsNoHash)

	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := db.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// UserFields is a partial update; nil fields are left untouched.
type UserFields struct {
	DisplayName  *string
	Role         *model.Role
	PasswordHash *string
	ProfileImage *string
}

func (db *Postgres) UpdateUserFields(ctx context.Context, id uuid.UUID, fields UserFields) (*model.User, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}

	appendSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if fields.DisplayName != nil {
		appendSet("display_name", *fields.DisplayName)
	}
	if fields.Role != nil {
		appendSet("role", *fields.Role)
	}
	if fields.PasswordHash != nil {
		appendSet("password_hash", *fields.PasswordHash)
	}
	if fields.ProfileImage != nil {
		appendSet("profile_image", *fields.ProfileImage)
	}

	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING %s
	`, strings.Join(sets, ", "), userColumns)

	return db.scanUser(db.Pool.QueryRow(ctx, query, args...))
}

func (db *Postgres) SetRefreshTokenHash(ctx context.Context, id uuid.UUID, hash string) error {
	query := `
		UPDATE users
		SET refresh_token_hash = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := db.Pool.Exec(ctx, query, id, hash)
	return err
}

func (db *Postgres) ClearRefreshTokenHash(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET refresh_token_hash = NULL, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := db.Pool.Exec(ctx, query, id)
	return err
}

// RotateRefreshTokenHash swaps the stored hash only if it still equals
// oldHash. Two concurrent refreshes with the same token admit exactly one
// winner; the loser sees rotated == false.
func (db *Postgres) RotateRefreshTokenHash(ctx context.Context, id uuid.UUID, oldHash, newHash string) (bool, error) {
	query := `
		UPDATE users
		SET refresh_token_hash = $3, updated_at = NOW()
		WHERE id = $1 AND refresh_token_hash = $2 AND deleted_at IS NULL
	`
	tag, err := db.Pool.Exec(ctx, query, id, oldHash, newHash)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (db *Postgres) SoftDeleteUser(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET deleted_at = NOW(), refresh_token_hash = NULL, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := db.Pool.Exec(ctx, query, id)
	return err
}

func (db *Postgres) HardDeleteUser(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := db.Pool.Exec(ctx, query, id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (db *Postgres) scanUser(row rowScanner) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.RefreshTokenHash,
		&user.DisplayName,
		&user.ProfileImage,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
