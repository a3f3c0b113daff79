package store

import (
	"database/sql"
	"errors"
	"fmt"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/albudairi/techrewards/internal/model"
)

type TechnicianStore struct {
	db *sql.DB
}

func NewTechnicianStore(db *sql.DB) *TechnicianStore {
	return &TechnicianStore{db: db}
}

func scanTechnician(scanner interface{ Scan(...any) error }) (*model.Technician, error) {
	var t model.Technician
	err := scanner.Scan(&t.ID, &t.Name, &t.Phone, &t.Specialty, &t.Points, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const technicianCols = `id, name, phone, specialty, points, created_at`

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

// Create inserts a technician with a zero starting balance. The phone number
// must be unique; duplicates return ErrConflict.
func (s *TechnicianStore) Create(name, phone, passwordHash, specialty string) (*model.Technician, error) {
	if name == "" || phone == "" || passwordHash == "" {
		return nil, ErrInvalidInput
	}

	result, err := s.db.Exec(
		`INSERT INTO technicians (name, phone, password_hash, specialty) VALUES (?, ?, ?, ?)`,
		name, phone, passwordHash, specialty,
	)
	if isUniqueViolation(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("insert technician: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *TechnicianStore) GetByID(id int64) (*model.Technician, error) {
	row := s.db.QueryRow(`SELECT `+technicianCols+` FROM technicians WHERE id = ?`, id)
	t, err := scanTechnician(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get technician: %w", err)
	}
	return t, nil
}

// GetByPhone returns the technician and its password hash for login checks.
func (s *TechnicianStore) GetByPhone(phone string) (*model.Technician, string, error) {
	var t model.Technician
	var hash string
	err := s.db.QueryRow(
		`SELECT id, name, phone, specialty, points, created_at, password_hash FROM technicians WHERE phone = ?`,
		phone,
	).Scan(&t.ID, &t.Name, &t.Phone, &t.Specialty, &t.Points, &t.CreatedAt, &hash)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("get technician by phone: %w", err)
	}
	return &t, hash, nil
}

// List returns all technicians, newest first.
func (s *TechnicianStore) List() ([]model.Technician, error) {
	rows, err := s.db.Query(`SELECT ` + technicianCols + ` FROM technicians ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list technicians: %w", err)
	}
	defer rows.Close()

	var techs []model.Technician
	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, fmt.Errorf("scan technician: %w", err)
		}
		techs = append(techs, *t)
	}
	return techs, rows.Err()
}

// Update edits identity fields. An empty passwordHash keeps the existing
// credential. A duplicate phone returns ErrConflict.
func (s *TechnicianStore) Update(id int64, name, phone, specialty, passwordHash string) (*model.Technician, error) {
	if name == "" || phone == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	if passwordHash != "" {
		_, err = s.db.Exec(
			`UPDATE technicians SET name = ?, phone = ?, specialty = ?, password_hash = ? WHERE id = ?`,
			name, phone, specialty, passwordHash, id,
		)
	} else {
		_, err = s.db.Exec(
			`UPDATE technicians SET name = ?, phone = ?, specialty = ? WHERE id = ?`,
			name, phone, specialty, id,
		)
	}
	if isUniqueViolation(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("update technician: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a technician. Ledger rows and redemptions cascade.
func (s *TechnicianStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM technicians WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete technician: %w", err)
	}
	return nil
}

func (s *TechnicianStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM technicians`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count technicians: %w", err)
	}
	return n, nil
}
