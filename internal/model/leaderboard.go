package model

import "time"

// Winner is one row of the public winners feed, derived from redemption
// history.
type Winner struct {
	TechnicianName string    `json:"technician_name"`
	GiftName       string    `json:"gift_name"`
	WonAt          time.Time `json:"won_at"`
}

// Standing is the fallback leaderboard row used when no redemption history
// exists yet: technicians ranked by current points.
type Standing struct {
	TechnicianName string `json:"technician_name"`
	Points         int    `json:"points"`
}

// Leaderboard holds either winners or standings, never both. Standings are
// a wholesale substitution for an empty redemption history.
type Leaderboard struct {
	Winners   []Winner   `json:"winners,omitempty"`
	Standings []Standing `json:"standings,omitempty"`
}
