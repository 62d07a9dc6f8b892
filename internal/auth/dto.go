package auth

import (
	"github.com/angelmondragon/stockline-backend/internal/users"
)

// LoginRequest captures the credentials sent to the login endpoint. Username is
// either the email address or the phone number.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the tokens and profile produced by a successful login.
type LoginResponse struct {
	AccessToken  string         `json:"token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}
