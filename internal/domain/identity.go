package domain

import "time"

// Role type to distinguish between user roles
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the credential-bearing user record held in the relational
// store. It is the authoritative source for authentication; every other
// record refers to it only through its numeric ID (no cascade semantics).
type Identity struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this via JSON
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
