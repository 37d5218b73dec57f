package split

import (
	"errors"
	"reflect"
	"testing"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func sumShares(outputs []SplitOutput) int64 {
	var total int64
	for _, o := range outputs {
		total += o.AmountOwed
	}
	return total
}

func sharesByUser(outputs []SplitOutput) map[int64]int64 {
	m := make(map[int64]int64, len(outputs))
	for _, o := range outputs {
		m[o.UserID] = o.AmountOwed
	}
	return m
}

func TestEqualStrategy(t *testing.T) {
	tests := []struct {
		name         string
		amountCents  int64
		participants []SplitInput
		wantErr      error
		validateFunc func(t *testing.T, outputs []SplitOutput)
	}{
		{
			name:        "100 cents among three, remainder to lowest id",
			amountCents: 100,
			participants: []SplitInput{
				{UserID: 3}, {UserID: 1}, {UserID: 2},
			},
			validateFunc: func(t *testing.T, outputs []SplitOutput) {
				want := map[int64]int64{1: 34, 2: 33, 3: 33}
				if got := sharesByUser(outputs); !reflect.DeepEqual(got, want) {
					t.Errorf("shares = %v, want %v", got, want)
				}
			},
		},
		{
			name:        "99 cents among two",
			amountCents: 99,
			participants: []SplitInput{
				{UserID: 1}, {UserID: 2},
			},
			validateFunc: func(t *testing.T, outputs []SplitOutput) {
				want := map[int64]int64{1: 50, 2: 49}
				if got := sharesByUser(outputs); !reflect.DeepEqual(got, want) {
					t.Errorf("shares = %v, want %v", got, want)
				}
			},
		},
		{
			name:        "exact division leaves no remainder",
			amountCents: 9000,
			participants: []SplitInput{
				{UserID: 10}, {UserID: 20}, {UserID: 30},
			},
			validateFunc: func(t *testing.T, outputs []SplitOutput) {
				for _, o := range outputs {
					if o.AmountOwed != 3000 {
						t.Errorf("user %d owes %d, want 3000", o.UserID, o.AmountOwed)
					}
				}
			},
		},
		{
			name:         "single participant owes everything",
			amountCents:  501,
			participants: []SplitInput{{UserID: 7}},
			validateFunc: func(t *testing.T, outputs []SplitOutput) {
				if len(outputs) != 1 || outputs[0].AmountOwed != 501 {
					t.Errorf("outputs = %v, want single share of 501", outputs)
				}
			},
		},
		{
			name:         "empty participants",
			amountCents:  100,
			participants: nil,
			wantErr:      ErrNoParticipants,
		},
		{
			name:         "zero amount",
			amountCents:  0,
			participants: []SplitInput{{UserID: 1}},
			wantErr:      ErrNonPositiveAmount,
		},
		{
			name:         "negative amount",
			amountCents:  -100,
			participants: []SplitInput{{UserID: 1}},
			wantErr:      ErrNonPositiveAmount,
		},
		{
			name:        "duplicate participant",
			amountCents: 100,
			participants: []SplitInput{
				{UserID: 1}, {UserID: 1},
			},
			wantErr: ErrDuplicateParticipant,
		},
	}

	strategy := &EqualStrategy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputs, err := strategy.Calculate(tt.amountCents, tt.participants)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if !errors.Is(err, ErrInvalidSplit) {
					t.Errorf("err %v does not wrap ErrInvalidSplit", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := sumShares(outputs); got != tt.amountCents {
				t.Errorf("shares sum to %d, want %d", got, tt.amountCents)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, outputs)
			}
		})
	}
}

func TestEqualStrategyFairness(t *testing.T) {
	strategy := &EqualStrategy{}
	participants := []SplitInput{
		{UserID: 5}, {UserID: 2}, {UserID: 9}, {UserID: 1}, {UserID: 4}, {UserID: 8}, {UserID: 3},
	}

	for amount := int64(1); amount <= 1000; amount++ {
		outputs, err := strategy.Calculate(amount, participants)
		if err != nil {
			t.Fatalf("amount %d: %v", amount, err)
		}
		if sumShares(outputs) != amount {
			t.Fatalf("amount %d: shares sum to %d", amount, sumShares(outputs))
		}
		min, max := outputs[0].AmountOwed, outputs[0].AmountOwed
		for _, o := range outputs {
			if o.AmountOwed < min {
				min = o.AmountOwed
			}
			if o.AmountOwed > max {
				max = o.AmountOwed
			}
		}
		if max-min > 1 {
			t.Fatalf("amount %d: shares differ by %d cents", amount, max-min)
		}
	}
}

func TestEqualStrategyDeterminism(t *testing.T) {
	strategy := &EqualStrategy{}
	ascending := []SplitInput{{UserID: 1}, {UserID: 2}, {UserID: 3}}
	shuffled := []SplitInput{{UserID: 3}, {UserID: 1}, {UserID: 2}}

	first, err := strategy.Calculate(1001, ascending)
	if err != nil {
		t.Fatal(err)
	}
	second, err := strategy.Calculate(1001, shuffled)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("remainder assignment depends on input order: %v vs %v", first, second)
	}
}

func TestPercentageStrategy(t *testing.T) {
	tests := []struct {
		name         string
		amountCents  int64
		participants []SplitInput
		wantErr      error
		validateFunc func(t *testing.T, outputs []SplitOutput)
	}{
		{
			name:        "50/30/20 of one dollar",
			amountCents: 100,
			participants: []SplitInput{
				{UserID: 1, Percentage: f64(50)},
				{UserID: 2, Percentage: f64(30)},
				{UserID: 3, Percentage: f64(20)},
			},
			validateFunc: func(t *testing.T, outputs []SplitOutput) {
				want := map[int64]int64{1: 50, 2: 30, 3: 20}
				if got := sharesByUser(outputs); !reflect.DeepEqual(got, want) {
					t.Errorf("shares = %v, want %v", got, want)
				}
			},
		},
		{
			name:        "thirds reconcile to the exact amount",
			amountCents: 1000,
			participants: []SplitInput{
				{UserID: 1, Percentage: f64(33.33)},
				{UserID: 2, Percentage: f64(33.33)},
				{UserID: 3, Percentage: f64(33.34)},
			},
			validateFunc: func(t *testing.T, outputs []SplitOutput) {
				shares := sharesByUser(outputs)
				for id, owed := range shares {
					if owed < 333 || owed > 334 {
						t.Errorf("user %d owes %d, want 333 or 334", id, owed)
					}
				}
			},
		},
		{
			name:        "zero percent participant owes nothing",
			amountCents: 500,
			participants: []SplitInput{
				{UserID: 1, Percentage: f64(100)},
				{UserID: 2, Percentage: f64(0)},
			},
			validateFunc: func(t *testing.T, outputs []SplitOutput) {
				want := map[int64]int64{1: 500, 2: 0}
				if got := sharesByUser(outputs); !reflect.DeepEqual(got, want) {
					t.Errorf("shares = %v, want %v", got, want)
				}
			},
		},
		{
			name:        "percentages summing to 95 rejected",
			amountCents: 100,
			participants: []SplitInput{
				{UserID: 1, Percentage: f64(50)},
				{UserID: 2, Percentage: f64(45)},
			},
			wantErr: ErrInvalidPercentages,
		},
		{
			name:        "missing percentage",
			amountCents: 100,
			participants: []SplitInput{
				{UserID: 1, Percentage: f64(50)},
				{UserID: 2},
			},
			wantErr: ErrMissingPercentage,
		},
		{
			name:        "percentage above 100",
			amountCents: 100,
			participants: []SplitInput{
				{UserID: 1, Percentage: f64(150)},
				{UserID: 2, Percentage: f64(-50)},
			},
			wantErr: ErrPercentageOutOfRange,
		},
	}

	strategy := &PercentageStrategy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputs, err := strategy.Calculate(tt.amountCents, tt.participants)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := sumShares(outputs); got != tt.amountCents {
				t.Errorf("shares sum to %d, want %d", got, tt.amountCents)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, outputs)
			}
		})
	}
}

func TestPercentageStrategyConservation(t *testing.T) {
	strategy := &PercentageStrategy{}
	participants := []SplitInput{
		{UserID: 1, Percentage: f64(33.33)},
		{UserID: 2, Percentage: f64(33.33)},
		{UserID: 3, Percentage: f64(16.67)},
		{UserID: 4, Percentage: f64(16.67)},
	}

	for _, amount := range []int64{1, 3, 99, 100, 101, 997, 10000, 123457} {
		outputs, err := strategy.Calculate(amount, participants)
		if err != nil {
			t.Fatalf("amount %d: %v", amount, err)
		}
		if got := sumShares(outputs); got != amount {
			t.Errorf("amount %d: shares sum to %d", amount, got)
		}
	}
}

func TestExactAmountStrategy(t *testing.T) {
	tests := []struct {
		name         string
		amountCents  int64
		participants []SplitInput
		wantErr      error
		validateFunc func(t *testing.T, outputs []SplitOutput)
	}{
		{
			name:        "amounts pass through verbatim",
			amountCents: 1000,
			participants: []SplitInput{
				{UserID: 2, Amount: i64(300)},
				{UserID: 1, Amount: i64(700)},
			},
			validateFunc: func(t *testing.T, outputs []SplitOutput) {
				want := map[int64]int64{1: 700, 2: 300}
				if got := sharesByUser(outputs); !reflect.DeepEqual(got, want) {
					t.Errorf("shares = %v, want %v", got, want)
				}
			},
		},
		{
			name:        "zero share allowed",
			amountCents: 500,
			participants: []SplitInput{
				{UserID: 1, Amount: i64(500)},
				{UserID: 2, Amount: i64(0)},
			},
		},
		{
			name:        "one cent short rejected, no tolerance",
			amountCents: 1000,
			participants: []SplitInput{
				{UserID: 1, Amount: i64(500)},
				{UserID: 2, Amount: i64(499)},
			},
			wantErr: ErrInvalidExactAmounts,
		},
		{
			name:        "negative share rejected",
			amountCents: 100,
			participants: []SplitInput{
				{UserID: 1, Amount: i64(200)},
				{UserID: 2, Amount: i64(-100)},
			},
			wantErr: ErrNegativeShare,
		},
		{
			name:        "missing amount",
			amountCents: 100,
			participants: []SplitInput{
				{UserID: 1, Amount: i64(100)},
				{UserID: 2},
			},
			wantErr: ErrMissingExactAmount,
		},
	}

	strategy := &ExactAmountStrategy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputs, err := strategy.Calculate(tt.amountCents, tt.participants)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := sumShares(outputs); got != tt.amountCents {
				t.Errorf("shares sum to %d, want %d", got, tt.amountCents)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, outputs)
			}
		})
	}
}

func TestFactory(t *testing.T) {
	factory := NewSplitStrategyFactory()

	for _, splitType := range []SplitType{SplitTypeEqual, SplitTypePercentage, SplitTypeExactAmount} {
		strategy, err := factory.Create(splitType)
		if err != nil {
			t.Fatalf("Create(%s): %v", splitType, err)
		}
		if strategy.Type() != splitType {
			t.Errorf("strategy.Type() = %s, want %s", strategy.Type(), splitType)
		}
	}

	if _, err := factory.CreateFromString("SHARES"); !errors.Is(err, ErrInvalidSplit) {
		t.Errorf("unknown type err = %v, want ErrInvalidSplit", err)
	}
}
