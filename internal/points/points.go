// Package points implements the purchase-amount to loyalty-points
// conversion policy.
package points

import "errors"

// DefaultRate is the dinar-per-point exchange rate used when the setting is
// absent.
const DefaultRate = 10000

var (
	ErrNonPositiveAmount = errors.New("purchase amount must be positive")
	ErrNonPositiveRate   = errors.New("exchange rate must be positive")
)

// ForAmount converts a purchase amount to points at the given rate:
// floor(amount / rate), with a minimum of one point. Any positive purchase
// earns at least one point even when it is smaller than the rate; this is
// intentional and not plain integer division.
func ForAmount(amount, rate int) (int, error) {
	if amount <= 0 {
		return 0, ErrNonPositiveAmount
	}
	if rate <= 0 {
		return 0, ErrNonPositiveRate
	}

	p := amount / rate
	if p < 1 {
		p = 1
	}
	return p, nil
}
