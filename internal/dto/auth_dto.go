package dto

import (
	"time"

	"salonbook/internal/entity"
)

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SignUpRequest struct {
	FullName string  `json:"fullName" validate:"required,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,max=72"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AdminSignInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type VerifyTokenRequest struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Photo     *string   `json:"photo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type AdminResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

type SignUpResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type SignInResponse struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn"`
	User      UserResponse `json:"user"`
}

type AdminSignInResponse struct {
	Success   bool          `json:"success"`
	Message   string        `json:"message"`
	Token     string        `json:"token"`
	ExpiresIn int64         `json:"expiresIn"`
	Admin     AdminResponse `json:"admin"`
}

type ClaimsResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Email     string    `json:"email"`
	Role      string    `json:"role,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type VerifyTokenResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Claims  ClaimsResponse `json:"claims"`
}

type MeResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	User    *UserResponse  `json:"user,omitempty"`
	Admin   *AdminResponse `json:"admin,omitempty"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func UserResponseFromEntity(user *entity.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		FullName:  user.FullName,
		Email:     user.Email,
		Phone:     user.Phone,
		Photo:     user.Photo,
		CreatedAt: user.CreatedAt,
	}
}

func AdminResponseFromEntity(admin *entity.Admin) AdminResponse {
	return AdminResponse{
		ID:          admin.ID.String(),
		Username:    admin.Username,
		Email:       admin.Email,
		Role:        string(admin.Role),
		LastLoginAt: admin.LastLoginAt,
	}
}
