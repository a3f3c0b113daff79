package model

import "time"

// Session actor roles.
const (
	ActorAdmin      = "admin"
	ActorTechnician = "technician"
)

type Session struct {
	ID        int64     `json:"id"`
	Token     string    `json:"-"`
	ActorID   int64     `json:"actor_id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
