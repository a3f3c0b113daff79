package model

import "time"

// Redemption statuses. Only pending is assigned today; the field exists so a
// fulfillment workflow can transition records later without a schema change.
const (
	RedemptionPending = "pending"
)

// Redemption records a technician spending points on a gift. PointsSpent is
// a snapshot of the gift's price at redemption time; later gift edits must
// not change it.
type Redemption struct {
	ID           int64     `json:"id"`
	TechnicianID int64     `json:"technician_id"`
	GiftID       int64     `json:"gift_id"`
	PointsSpent  int       `json:"points_spent"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// RedeemedGift is a redemption joined with its gift for history views.
type RedeemedGift struct {
	GiftName    string    `json:"gift_name"`
	ImageRef    string    `json:"image_ref,omitempty"`
	PointsSpent int       `json:"points_spent"`
	Status      string    `json:"status"`
	RedeemedAt  time.Time `json:"redeemed_at"`
}
