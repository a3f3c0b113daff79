package model

import "time"

// Admin roles.
const (
	RoleSuper    = "super"
	RoleSecurity = "security"
)

type Admin struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
