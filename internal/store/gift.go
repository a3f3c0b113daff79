package store

import (
	"database/sql"
	"fmt"

	"github.com/albudairi/techrewards/internal/model"
)

type GiftStore struct {
	db *sql.DB
}

func NewGiftStore(db *sql.DB) *GiftStore {
	return &GiftStore{db: db}
}

func scanGift(scanner interface{ Scan(...any) error }) (*model.Gift, error) {
	var g model.Gift
	var imageRef sql.NullString
	var active int

	err := scanner.Scan(&g.ID, &g.Name, &g.PointsRequired, &imageRef, &active, &g.CreatedAt)
	if err != nil {
		return nil, err
	}

	g.ImageRef = imageRef.String
	g.Active = active != 0
	return &g, nil
}

const giftCols = `id, name, points_required, image_ref, active, created_at`

// Create inserts an active gift. imageRef may be empty; a gift without an
// image is a valid state.
func (s *GiftStore) Create(name string, pointsRequired int, imageRef string) (*model.Gift, error) {
	if name == "" || pointsRequired <= 0 {
		return nil, ErrInvalidInput
	}

	var img sql.NullString
	if imageRef != "" {
		img = sql.NullString{String: imageRef, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO gifts (name, points_required, image_ref) VALUES (?, ?, ?)`,
		name, pointsRequired, img,
	)
	if err != nil {
		return nil, fmt.Errorf("insert gift: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *GiftStore) GetByID(id int64) (*model.Gift, error) {
	row := s.db.QueryRow(`SELECT `+giftCols+` FROM gifts WHERE id = ?`, id)
	g, err := scanGift(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get gift: %w", err)
	}
	return g, nil
}

// List returns all gifts, newest first.
func (s *GiftStore) List() ([]model.Gift, error) {
	rows, err := s.db.Query(`SELECT ` + giftCols + ` FROM gifts ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list gifts: %w", err)
	}
	defer rows.Close()

	var gifts []model.Gift
	for rows.Next() {
		g, err := scanGift(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gift: %w", err)
		}
		gifts = append(gifts, *g)
	}
	return gifts, rows.Err()
}

// ListActive returns redeemable gifts, cheapest first.
func (s *GiftStore) ListActive() ([]model.Gift, error) {
	rows, err := s.db.Query(`SELECT ` + giftCols + ` FROM gifts WHERE active = 1 ORDER BY points_required ASC`)
	if err != nil {
		return nil, fmt.Errorf("list active gifts: %w", err)
	}
	defer rows.Close()

	var gifts []model.Gift
	for rows.Next() {
		g, err := scanGift(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gift: %w", err)
		}
		gifts = append(gifts, *g)
	}
	return gifts, rows.Err()
}

// Update edits the gift's name and price. Past redemptions keep the
// points_spent they were created with.
func (s *GiftStore) Update(id int64, name string, pointsRequired int) (*model.Gift, error) {
	if name == "" || pointsRequired <= 0 {
		return nil, ErrInvalidInput
	}

	_, err := s.db.Exec(
		`UPDATE gifts SET name = ?, points_required = ? WHERE id = ?`,
		name, pointsRequired, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update gift: %w", err)
	}
	return s.GetByID(id)
}

// SetActive toggles redeemability. Deactivation takes effect immediately
// for new redemptions and leaves past records untouched.
func (s *GiftStore) SetActive(id int64, active bool) error {
	var a int
	if active {
		a = 1
	}
	_, err := s.db.Exec(`UPDATE gifts SET active = ? WHERE id = ?`, a, id)
	if err != nil {
		return fmt.Errorf("set gift active: %w", err)
	}
	return nil
}

// SetImageRef records the blob reference for the gift's image.
func (s *GiftStore) SetImageRef(id int64, imageRef string) error {
	var img sql.NullString
	if imageRef != "" {
		img = sql.NullString{String: imageRef, Valid: true}
	}
	_, err := s.db.Exec(`UPDATE gifts SET image_ref = ? WHERE id = ?`, img, id)
	if err != nil {
		return fmt.Errorf("set gift image: %w", err)
	}
	return nil
}

// Delete removes a gift. Its redemption history cascades so no redemption
// is left pointing at a missing gift.
func (s *GiftStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM gifts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete gift: %w", err)
	}
	return nil
}

func (s *GiftStore) CountActive() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM gifts WHERE active = 1`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active gifts: %w", err)
	}
	return n, nil
}
