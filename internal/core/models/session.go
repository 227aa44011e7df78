package models

import "time"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Email        string `json:"email"`
	FullName     string `json:"fullName"`
}

// User is the cached identity record kept in the credential store.
type User struct {
	Email           string `json:"email"`
	FullName        string `json:"fullName"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

type Session struct {
	User
	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`
}

// SessionState is what observers of the session see.
type SessionState struct {
	IsAuthenticated bool       `json:"isAuthenticated"`
	Email           string     `json:"email"`
	FullName        string     `json:"fullName"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
}
