package money

import "testing"

func TestToCents(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   int64
	}{
		{name: "whole units", amount: 30.00, want: 3000},
		{name: "cent precision", amount: 10.01, want: 1001},
		{name: "float artifact rounds cleanly", amount: 0.1 + 0.2, want: 30},
		{name: "half cent rounds up", amount: 0.005, want: 1},
		{name: "zero", amount: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToCents(tt.amount); got != tt.want {
				t.Errorf("ToCents(%v) = %d, want %d", tt.amount, got, tt.want)
			}
		})
	}
}

func TestFromCents(t *testing.T) {
	tests := []struct {
		name  string
		cents int64
		want  float64
	}{
		{name: "whole units", cents: 3000, want: 30.00},
		{name: "cent precision", cents: 1001, want: 10.01},
		{name: "negative", cents: -2500, want: -25.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromCents(tt.cents); got != tt.want {
				t.Errorf("FromCents(%d) = %v, want %v", tt.cents, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for cents := int64(-10000); cents <= 10000; cents++ {
		if got := ToCents(FromCents(cents)); got != cents {
			t.Fatalf("round trip of %d cents produced %d", cents, got)
		}
	}
}
