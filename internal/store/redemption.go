package store

import (
	"database/sql"
	"fmt"

	"github.com/albudairi/techrewards/internal/model"
)

// RedemptionStore exchanges points for gifts. The decrement is conditional
// on the balance still covering the price at write time, so concurrent
// redemptions against the same technician can never drive the balance
// negative.
type RedemptionStore struct {
	db *sql.DB
}

func NewRedemptionStore(db *sql.DB) *RedemptionStore {
	return &RedemptionStore{db: db}
}

func scanRedemption(scanner interface{ Scan(...any) error }) (*model.Redemption, error) {
	var r model.Redemption
	err := scanner.Scan(&r.ID, &r.TechnicianID, &r.GiftID, &r.PointsSpent, &r.Status, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

const redemptionCols = `id, technician_id, gift_id, points_spent, status, created_at`

// Redeem debits the gift's price from the technician's balance and records
// a pending redemption, in one transaction. points_spent snapshots the
// price at this moment; later gift edits do not touch it. Returns the new
// balance alongside the record.
//
// Preconditions, checked in order: the gift exists and is active
// (ErrGiftUnavailable), the technician exists (ErrNotFound), and the
// balance covers the price at commit time (ErrInsufficientBalance). On any
// failure no row is touched.
func (s *RedemptionStore) Redeem(technicianID, giftID int64) (*model.Redemption, int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var price int
	var active int
	err = tx.QueryRow(`SELECT points_required, active FROM gifts WHERE id = ?`, giftID).Scan(&price, &active)
	if err == sql.ErrNoRows {
		return nil, 0, ErrGiftUnavailable
	}
	if err != nil {
		return nil, 0, fmt.Errorf("get gift: %w", err)
	}
	if active == 0 {
		return nil, 0, ErrGiftUnavailable
	}

	// Conditional decrement: this is the serialization point. If another
	// redemption spent the balance first, zero rows match.
	result, err := tx.Exec(
		`UPDATE technicians SET points = points - ? WHERE id = ? AND points >= ?`,
		price, technicianID, price,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("debit balance: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, 0, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		var balance int
		err := tx.QueryRow(`SELECT points FROM technicians WHERE id = ?`, technicianID).Scan(&balance)
		if err == sql.ErrNoRows {
			return nil, 0, ErrNotFound
		}
		if err != nil {
			return nil, 0, fmt.Errorf("get balance: %w", err)
		}
		return nil, 0, ErrInsufficientBalance
	}

	result, err = tx.Exec(
		`INSERT INTO redemptions (technician_id, gift_id, points_spent, status) VALUES (?, ?, ?, ?)`,
		technicianID, giftID, price, model.RedemptionPending,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("insert redemption: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, 0, fmt.Errorf("last insert id: %w", err)
	}

	row := tx.QueryRow(`SELECT `+redemptionCols+` FROM redemptions WHERE id = ?`, id)
	redemption, err := scanRedemption(row)
	if err != nil {
		return nil, 0, fmt.Errorf("get redemption: %w", err)
	}

	var newBalance int
	if err := tx.QueryRow(`SELECT points FROM technicians WHERE id = ?`, technicianID).Scan(&newBalance); err != nil {
		return nil, 0, fmt.Errorf("get new balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit tx: %w", err)
	}
	return redemption, newBalance, nil
}

// ListByTechnician returns a technician's redemption history joined with
// gift details, newest first.
func (s *RedemptionStore) ListByTechnician(technicianID int64) ([]model.RedeemedGift, error) {
	rows, err := s.db.Query(
		`SELECT g.name, g.image_ref, r.points_spent, r.status, r.created_at
		 FROM redemptions r
		 JOIN gifts g ON g.id = r.gift_id
		 WHERE r.technician_id = ?
		 ORDER BY r.id DESC`,
		technicianID,
	)
	if err != nil {
		return nil, fmt.Errorf("list redemptions: %w", err)
	}
	defer rows.Close()

	var redeemed []model.RedeemedGift
	for rows.Next() {
		var rg model.RedeemedGift
		var imageRef sql.NullString
		if err := rows.Scan(&rg.GiftName, &imageRef, &rg.PointsSpent, &rg.Status, &rg.RedeemedAt); err != nil {
			return nil, fmt.Errorf("scan redemption: %w", err)
		}
		rg.ImageRef = imageRef.String
		redeemed = append(redeemed, rg)
	}
	return redeemed, rows.Err()
}

// CountByGift returns the number of redemptions recorded for a gift.
func (s *RedemptionStore) CountByGift(giftID int64) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM redemptions WHERE gift_id = ?`, giftID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count redemptions: %w", err)
	}
	return n, nil
}
