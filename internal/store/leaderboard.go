package store

import (
	"database/sql"
	"fmt"

	"github.com/albudairi/techrewards/internal/model"
)

// LeaderboardStore derives the read-only winners view. It never writes.
type LeaderboardStore struct {
	db *sql.DB
}

func NewLeaderboardStore(db *sql.DB) *LeaderboardStore {
	return &LeaderboardStore{db: db}
}

// Winners lists recent redemptions joined with technician and gift names,
// most recent first. A technician who redeemed twice appears twice.
func (s *LeaderboardStore) Winners(limit int) ([]model.Winner, error) {
	rows, err := s.db.Query(
		`SELECT t.name, g.name, r.created_at
		 FROM redemptions r
		 JOIN technicians t ON t.id = r.technician_id
		 JOIN gifts g ON g.id = r.gift_id
		 ORDER BY r.id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list winners: %w", err)
	}
	defer rows.Close()

	var winners []model.Winner
	for rows.Next() {
		var w model.Winner
		if err := rows.Scan(&w.TechnicianName, &w.GiftName, &w.WonAt); err != nil {
			return nil, fmt.Errorf("scan winner: %w", err)
		}
		winners = append(winners, w)
	}
	return winners, rows.Err()
}

// Standings ranks technicians by current points, ties broken by most
// recently created.
func (s *LeaderboardStore) Standings(limit int) ([]model.Standing, error) {
	rows, err := s.db.Query(
		`SELECT name, points FROM technicians ORDER BY points DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	defer rows.Close()

	var standings []model.Standing
	for rows.Next() {
		var st model.Standing
		if err := rows.Scan(&st.TechnicianName, &st.Points); err != nil {
			return nil, fmt.Errorf("scan standing: %w", err)
		}
		standings = append(standings, st)
	}
	return standings, rows.Err()
}

// Leaderboard returns winners when any redemption history exists, otherwise
// the standings ranking as a wholesale substitution. The two shapes are
// never merged.
func (s *LeaderboardStore) Leaderboard(limit int) (*model.Leaderboard, error) {
	winners, err := s.Winners(limit)
	if err != nil {
		return nil, err
	}
	if len(winners) > 0 {
		return &model.Leaderboard{Winners: winners}, nil
	}

	standings, err := s.Standings(limit)
	if err != nil {
		return nil, err
	}
	return &model.Leaderboard{Standings: standings}, nil
}

// BestPerformer names the technician with the highest balance, or "" when
// none exist.
func (s *LeaderboardStore) BestPerformer() (string, error) {
	var name string
	err := s.db.QueryRow(`SELECT name FROM technicians ORDER BY points DESC, id DESC LIMIT 1`).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get best performer: %w", err)
	}
	return name, nil
}
