package payments

import "testing"

func TestCommissionFor(t *testing.T) {
	tests := []struct {
		price   int64
		percent int
		want    int64
	}{
		{price: 1000, percent: 10, want: 100},
		{price: 999, percent: 10, want: 100}, // 99.9 rounds up
		{price: 994, percent: 10, want: 99},
		{price: 0, percent: 10, want: 0},
		{price: 1000, percent: 0, want: 0},
		{price: 1, percent: 10, want: 0}, // 0.1 rounds down
		{price: 5, percent: 10, want: 1}, // 0.5 rounds up
	}

	for _, tt := range tests {
		if got := CommissionFor(tt.price, tt.percent); got != tt.want {
			t.Fatalf("CommissionFor(%d, %d) = %d, want %d", tt.price, tt.percent, got, tt.want)
		}
	}
}
