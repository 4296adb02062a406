package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessSignUp  = "user signed up successfully"
	MessageSuccessSignIn  = "user signed in successfully"
	MessageSuccessSignOut = "user signed out successfully"
	MessageSuccessGetUser = "user retrieved successfully"

	MessageFailedSignUp  = "failed to sign up user"
	MessageFailedSignIn  = "failed to sign in user"
	MessageFailedGetUser = "failed to retrieve user"

	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidAuthType = errors.New("invalid auth type")
)

type (
	SignUpRequest struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		PhotoURL string `json:"photo_url" validate:"omitempty,url"`
		AuthType string `json:"auth_type" validate:"required,oneof=email google github"`
	}

	SignInRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	UserResponse struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		PhotoURL  string    `json:"photo_url,omitempty"`
		AuthType  string    `json:"auth_type"`
		CreatedAt time.Time `json:"created_at"`
	}

	AuthResponse struct {
		User  UserResponse `json:"user"`
		Token string       `json:"token"`
	}
)
