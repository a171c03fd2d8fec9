package models

import "github.com/golang-jwt/jwt/v5"

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest creates a new user and logs it in.
type RegisterRequest struct {
	Email    string   `json:"email" validate:"required,email,max=255"`
	Password string   `json:"password" validate:"required,min=8,max=40"`
	FullName *string  `json:"full_name,omitempty" validate:"omitempty,max=255"`
	Role     UserRole `json:"role,omitempty" validate:"omitempty,oneof=admin teacher guest"`
}

// TokenResponse is the bearer token wire shape.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// JWTClaims is the access token payload. The subject carries the user's
// email; it is the only claim verification depends on.
type JWTClaims struct {
	jwt.RegisteredClaims
}
