package dto

import "github.com/google/uuid"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=50"`
	Username string `json:"username" validate:"required,max=20"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	UsernameOrEmail string `json:"username_or_email" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token    string    `json:"token"`
	Id       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}
