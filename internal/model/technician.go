package model

import "time"

type Technician struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Specialty string    `json:"specialty"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}
