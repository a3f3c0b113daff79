package model

import "time"

// PointsTransaction is an append-only audit record of a points accrual.
// Rows are never updated or deleted.
type PointsTransaction struct {
	ID             int64     `json:"id"`
	TechnicianID   int64     `json:"technician_id"`
	PurchaseAmount int       `json:"purchase_amount"`
	PointsAdded    int       `json:"points_added"`
	AdminID        *int64    `json:"admin_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
