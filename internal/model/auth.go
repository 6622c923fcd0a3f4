package model

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Message string     `json:"message"`
	User    PublicUser `json:"user"`
}

type LogoutResponse struct {
	Status string `json:"status"`
}

// TokenPair is the access/refresh pair issued together on login and refresh.
// Tokens travel only in cookies; the pair itself is never serialized to JSON.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}
