package store

import (
	"database/sql"
	"fmt"

	"github.com/albudairi/techrewards/internal/model"
)

type AdminStore struct {
	db *sql.DB
}

func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

func scanAdmin(scanner interface{ Scan(...any) error }) (*model.Admin, error) {
	var a model.Admin
	err := scanner.Scan(&a.ID, &a.Email, &a.Role, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

const adminCols = `id, email, role, created_at`

func (s *AdminStore) Create(email, passwordHash, role string) (*model.Admin, error) {
	if email == "" || passwordHash == "" {
		return nil, ErrInvalidInput
	}

	result, err := s.db.Exec(
		`INSERT INTO admins (email, password_hash, role) VALUES (?, ?, ?)`,
		email, passwordHash, role,
	)
	if isUniqueViolation(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("insert admin: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *AdminStore) GetByID(id int64) (*model.Admin, error) {
	row := s.db.QueryRow(`SELECT `+adminCols+` FROM admins WHERE id = ?`, id)
	a, err := scanAdmin(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return a, nil
}

// GetByEmail returns the admin and its password hash for login checks.
func (s *AdminStore) GetByEmail(email string) (*model.Admin, string, error) {
	var a model.Admin
	var hash string
	err := s.db.QueryRow(
		`SELECT id, email, role, created_at, password_hash FROM admins WHERE email = ?`,
		email,
	).Scan(&a.ID, &a.Email, &a.Role, &a.CreatedAt, &hash)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("get admin by email: %w", err)
	}
	return &a, hash, nil
}

// Seed ensures a super admin exists, creating one with the given
// credentials on first boot. Existing admins are left untouched.
func (s *AdminStore) Seed(email, passwordHash string) error {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM admins WHERE role = ?`, model.RoleSuper).Scan(&n); err != nil {
		return fmt.Errorf("count super admins: %w", err)
	}
	if n > 0 {
		return nil
	}
	_, err := s.Create(email, passwordHash, model.RoleSuper)
	return err
}

// UpdateSuperCredentials replaces the super admin's email and password.
func (s *AdminStore) UpdateSuperCredentials(email, passwordHash string) error {
	if email == "" || passwordHash == "" {
		return ErrInvalidInput
	}
	result, err := s.db.Exec(
		`UPDATE admins SET email = ?, password_hash = ? WHERE role = ?`,
		email, passwordHash, model.RoleSuper,
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("update super admin: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
