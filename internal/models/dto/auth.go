package dto

import "github.com/houseofcharity/charity-be/internal/models"

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	UserData RegisterProfile `json:"userData"`
}

// RegisterProfile carries the initial profile of a new account.
type RegisterProfile struct {
	UserType    string `json:"user_type" validate:"required,oneof=donor ngo"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	Pincode     string `json:"pincode"`
	Description string `json:"description"`
	Website     string `json:"website"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string             `json:"message"`
	Token   string             `json:"token"`
	User    models.SessionUser `json:"user"`
}
