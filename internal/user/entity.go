// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID                string     `db:"id"`
	Name              string     `db:"name"`
	Email             string     `db:"email"`
	PasswordHash      string     `db:"password_hash"`
	Role              string     `db:"role"`
	PhotoID           *string    `db:"photo_id"`
	PhotoURL          *string    `db:"photo_url"`
	ResetTokenHash    *string    `db:"reset_token_hash"`
	ResetTokenExpires *time.Time `db:"reset_token_expires_at"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleManager:
		return true
	default:
		return false
	}
}
