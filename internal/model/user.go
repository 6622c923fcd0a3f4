package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
	RoleTeam   Role = "team"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleClient, RoleTeam:
		return true
	}
	return false
}

// User is the credential-store row. PasswordHash and RefreshTokenHash never
// leave the process; handlers serialize PublicUser instead.
type User struct {
	ID               uuid.UUID
	Email            string
	PasswordHash     string
	Role             Role
	RefreshTokenHash *string
	DisplayName      string
	ProfileImage     *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

type PublicUser struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	DisplayName  string    `json:"displayName"`
	ProfileImage *string   `json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:           u.ID,
		Email:        u.Email,
		Role:         u.Role,
		DisplayName:  u.DisplayName,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// AuthIdentity is the request-scoped claim set attached by the guard layer
// after token verification.
type AuthIdentity struct {
	ID    uuid.UUID
	Email string
	Role  Role
}
