// Package model defines the data structures used throughout the application.
package model

import "time"

// DefaultRole is assigned to accounts registered without an explicit role.
const DefaultRole = "User"

// User represents a registered account.
//
// PasswordHash is a bcrypt hash with the salt embedded — the plaintext
// password is never stored, and the hash never leaves the service (note
// the json:"-" tag; the outbound shape is UserResponse).
//
// Email and CPF are both unique across all accounts. CPF is the Brazilian
// national identity number; we treat it as an opaque unique string.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Name         string    `json:"name"      db:"name"`
	Email        string    `json:"email"     db:"email"`
	CPF          string    `json:"cpf"       db:"cpf"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	Role         string    `json:"role"      db:"role"` // e.g. "User", "Admin"
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// UserResponse is the outbound projection of a User. It exists so that
// listing endpoints can never accidentally serialize hash material —
// there is simply no field to leak.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	CPF   string `json:"cpf"`
	Role  string `json:"role"`
}

// Response converts a User into its outbound projection.
func (u *User) Response() UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		CPF:   u.CPF,
		Role:  u.Role,
	}
}
