package models

import "github.com/golang-jwt/jwt/v5"

// LoginRequest holds credentials for authenticating a staff member.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and staff info.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
	Staff       StaffSummary `json:"staff"`
}

// StaffSummary describes the authenticated staff member in responses.
type StaffSummary struct {
	StaffID    int64     `json:"staff_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
	Role       StaffRole `json:"role"`
}

// JWTClaims is the access token payload.
type JWTClaims struct {
	StaffID int64     `json:"staff_id"`
	Role    StaffRole `json:"role"`
	Email   string    `json:"email"`
	jwt.RegisteredClaims
}
