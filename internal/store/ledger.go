package store

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/albudairi/techrewards/internal/model"
	"github.com/albudairi/techrewards/internal/points"
)

// LedgerStore maintains technician balances and the append-only accrual
// audit trail. The balance increment and the audit insert commit together
// or not at all.
type LedgerStore struct {
	db *sql.DB
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func scanPointsTx(scanner interface{ Scan(...any) error }) (*model.PointsTransaction, error) {
	var t model.PointsTransaction
	var adminID sql.NullInt64

	err := scanner.Scan(&t.ID, &t.TechnicianID, &t.PurchaseAmount, &t.PointsAdded, &adminID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	if adminID.Valid {
		t.AdminID = &adminID.Int64
	}
	return &t, nil
}

const pointsTxCols = `id, technician_id, purchase_amount, points_added, admin_id, created_at`

// Rate returns the configured dinar-per-point exchange rate, defaulting
// when the setting is missing or malformed.
func (s *LedgerStore) Rate() (int, error) {
	return rateFrom(s.db.QueryRow(`SELECT value FROM settings WHERE key = 'iqd_per_point'`))
}

func rateFrom(row *sql.Row) (int, error) {
	var value string
	err := row.Scan(&value)
	if err == sql.ErrNoRows {
		return points.DefaultRate, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get exchange rate: %w", err)
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return points.DefaultRate, nil
	}
	return n, nil
}

// AddPoints converts purchaseAmount at the configured rate, credits the
// technician's balance, and appends the audit record, all in one
// transaction. Returns ErrInvalidInput for a non-positive amount and
// ErrNotFound when the technician does not exist.
func (s *LedgerStore) AddPoints(technicianID int64, purchaseAmount int, adminID int64) (*model.PointsTransaction, error) {
	if purchaseAmount <= 0 {
		return nil, ErrInvalidInput
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	rate, err := rateFrom(tx.QueryRow(`SELECT value FROM settings WHERE key = 'iqd_per_point'`))
	if err != nil {
		return nil, err
	}

	added, err := points.ForAmount(purchaseAmount, rate)
	if err != nil {
		return nil, ErrInvalidInput
	}

	result, err := tx.Exec(
		`UPDATE technicians SET points = points + ? WHERE id = ?`,
		added, technicianID,
	)
	if err != nil {
		return nil, fmt.Errorf("credit balance: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	var admin sql.NullInt64
	if adminID != 0 {
		admin = sql.NullInt64{Int64: adminID, Valid: true}
	}
	result, err = tx.Exec(
		`INSERT INTO points_tx (technician_id, purchase_amount, points_added, admin_id) VALUES (?, ?, ?, ?)`,
		technicianID, purchaseAmount, added, admin,
	)
	if err != nil {
		return nil, fmt.Errorf("insert points transaction: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := tx.QueryRow(`SELECT `+pointsTxCols+` FROM points_tx WHERE id = ?`, id)
	ptx, err := scanPointsTx(row)
	if err != nil {
		return nil, fmt.Errorf("get points transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return ptx, nil
}

// ListByTechnician returns a technician's accrual history, newest first.
func (s *LedgerStore) ListByTechnician(technicianID int64) ([]model.PointsTransaction, error) {
	rows, err := s.db.Query(
		`SELECT `+pointsTxCols+` FROM points_tx WHERE technician_id = ? ORDER BY id DESC`,
		technicianID,
	)
	if err != nil {
		return nil, fmt.Errorf("list points transactions: %w", err)
	}
	defer rows.Close()

	var txs []model.PointsTransaction
	for rows.Next() {
		t, err := scanPointsTx(rows)
		if err != nil {
			return nil, fmt.Errorf("scan points transaction: %w", err)
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}

// Recent returns the newest accruals across all technicians, for the admin
// activity feed.
func (s *LedgerStore) Recent(limit int) ([]model.PointsTransaction, error) {
	rows, err := s.db.Query(
		`SELECT `+pointsTxCols+` FROM points_tx ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	defer rows.Close()

	var txs []model.PointsTransaction
	for rows.Next() {
		t, err := scanPointsTx(rows)
		if err != nil {
			return nil, fmt.Errorf("scan points transaction: %w", err)
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}

// TotalAwarded sums every points accrual across all technicians.
func (s *LedgerStore) TotalAwarded() (int, error) {
	var total sql.NullInt64
	if err := s.db.QueryRow(`SELECT COALESCE(SUM(points_added), 0) FROM points_tx`).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum points awarded: %w", err)
	}
	return int(total.Int64), nil
}
