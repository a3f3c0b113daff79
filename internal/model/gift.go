package model

import "time"

type Gift struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	PointsRequired int       `json:"points_required"`
	ImageRef       string    `json:"image_ref,omitempty"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}
