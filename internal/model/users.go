package model

type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	Role        Role   `json:"role" binding:"required"`
	DisplayName string `json:"displayName"`
}

// UpdateUserRequest carries an admin-driven partial update. Nil fields are
// left untouched. Password here is a reset: no current-password check.
type UpdateUserRequest struct {
	DisplayName *string `json:"displayName"`
	Role        *Role   `json:"role"`
	Password    *string `json:"password"`
}

type UserListResponse struct {
	Users []PublicUser `json:"users"`
}

type AvatarResponse struct {
	ProfileImage string `json:"profileImage"`
}
