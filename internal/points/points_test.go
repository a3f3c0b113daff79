package points

import "testing"

func TestForAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount int
		rate   int
		want   int
	}{
		{"exact multiple", 20000, 10000, 2},
		{"rounds down", 25000, 10000, 2},
		{"below rate earns minimum", 5000, 10000, 1},
		{"tiny amount earns minimum", 1, 10000, 1},
		{"rate of one", 7, 1, 7},
		{"large purchase", 1250000, 10000, 125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ForAmount(tt.amount, tt.rate)
			if err != nil {
				t.Fatalf("ForAmount(%d, %d): %v", tt.amount, tt.rate, err)
			}
			if got != tt.want {
				t.Errorf("ForAmount(%d, %d) = %d, want %d", tt.amount, tt.rate, got, tt.want)
			}
		})
	}
}

func TestForAmountRejectsNonPositiveAmount(t *testing.T) {
	for _, amount := range []int{0, -1, -10000} {
		if _, err := ForAmount(amount, DefaultRate); err != ErrNonPositiveAmount {
			t.Errorf("ForAmount(%d, %d) error = %v, want ErrNonPositiveAmount", amount, DefaultRate, err)
		}
	}
}

func TestForAmountRejectsNonPositiveRate(t *testing.T) {
	for _, rate := range []int{0, -5} {
		if _, err := ForAmount(100, rate); err != ErrNonPositiveRate {
			t.Errorf("ForAmount(100, %d) error = %v, want ErrNonPositiveRate", rate, err)
		}
	}
}
