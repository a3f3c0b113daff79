package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/albudairi/techrewards/internal/points"
)

const exchangeRateKey = "iqd_per_point"

type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("setting %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// ExchangeRate returns the dinar-per-point rate, falling back to the
// default when the setting is absent or malformed. Real query failures
// propagate.
func (s *SettingsStore) ExchangeRate() (int, error) {
	value, err := s.Get(exchangeRateKey)
	if errors.Is(err, ErrNotFound) {
		return points.DefaultRate, nil
	}
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(value)
	if convErr != nil || n <= 0 {
		return points.DefaultRate, nil
	}
	return n, nil
}

// SetExchangeRate stores a new rate. Rejects non-positive values.
func (s *SettingsStore) SetExchangeRate(rate int) error {
	if rate <= 0 {
		return ErrInvalidInput
	}
	return s.Set(exchangeRateKey, strconv.Itoa(rate))
}
