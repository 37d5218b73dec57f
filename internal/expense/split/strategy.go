package split

import (
	"errors"
	"fmt"
	"sort"
)

// SplitType defines the type of split strategy
type SplitType string

const (
	SplitTypeEqual       SplitType = "EQUAL"
	SplitTypePercentage  SplitType = "PERCENTAGE"
	SplitTypeExactAmount SplitType = "EXACT_AMOUNT"
)

// SplitInput represents a participant in a split with optional values.
// Amounts are integer minor units (cents).
type SplitInput struct {
	UserID     int64    `json:"user_id"`
	Percentage *float64 `json:"percentage,omitempty"`   // For PERCENTAGE split
	Amount     *int64   `json:"amount_cents,omitempty"` // For EXACT_AMOUNT split
}

// SplitOutput represents the calculated share for a single participant
type SplitOutput struct {
	UserID     int64 `json:"user_id"`
	AmountOwed int64 `json:"amount_owed_cents"`
}

// Strategy is the interface that all split strategies must implement.
// Invariant for every strategy: the returned shares sum to exactly the
// expense amount, and identical inputs always produce identical output.
type Strategy interface {
	// Calculate computes each participant's share of the amount, in cents
	Calculate(amountCents int64, participants []SplitInput) ([]SplitOutput, error)

	// Type returns the type identifier for this strategy
	Type() SplitType

	// Validate checks if the inputs are valid for this strategy
	Validate(amountCents int64, participants []SplitInput) error
}

// Factory creates split strategies based on the requested type
type Factory struct{}

// NewSplitStrategyFactory creates a new factory instance
func NewSplitStrategyFactory() *Factory {
	return &Factory{}
}

// Create returns the appropriate strategy implementation based on the type
func (f *Factory) Create(splitType SplitType) (Strategy, error) {
	switch splitType {
	case SplitTypeEqual:
		return &EqualStrategy{}, nil
	case SplitTypePercentage:
		return &PercentageStrategy{}, nil
	case SplitTypeExactAmount:
		return &ExactAmountStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown split type %q", ErrInvalidSplit, splitType)
	}
}

// CreateFromString creates a strategy from a string type (useful for API requests)
func (f *Factory) CreateFromString(splitType string) (Strategy, error) {
	return f.Create(SplitType(splitType))
}

// ErrInvalidSplit is the root of the split validation error family; every
// malformed-input error below wraps it so callers can match the whole
// class with errors.Is.
var ErrInvalidSplit = errors.New("invalid split input")

var (
	ErrNoParticipants       = fmt.Errorf("%w: at least one participant is required", ErrInvalidSplit)
	ErrDuplicateParticipant = fmt.Errorf("%w: duplicate participant", ErrInvalidSplit)
	ErrNonPositiveAmount    = fmt.Errorf("%w: amount must be positive", ErrInvalidSplit)
	ErrNegativeShare        = fmt.Errorf("%w: participant amounts cannot be negative", ErrInvalidSplit)
	ErrMissingPercentage    = fmt.Errorf("%w: percentage value required for all participants", ErrInvalidSplit)
	ErrMissingExactAmount   = fmt.Errorf("%w: exact amount required for all participants", ErrInvalidSplit)
	ErrPercentageOutOfRange = fmt.Errorf("%w: percentage must be between 0 and 100", ErrInvalidSplit)
	ErrInvalidPercentages   = fmt.Errorf("%w: percentages must sum to 100", ErrInvalidSplit)
	ErrInvalidExactAmounts  = fmt.Errorf("%w: exact amounts must sum to the expense amount", ErrInvalidSplit)
)

// percentageTolerance absorbs float drift in user-entered percentages
// (e.g. 33.33 * 3); exact amounts get no such slack.
const percentageTolerance = 0.01

// validateParticipants enforces the checks shared by every strategy
func validateParticipants(amountCents int64, participants []SplitInput) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if amountCents <= 0 {
		return ErrNonPositiveAmount
	}

	seen := make(map[int64]bool, len(participants))
	for _, p := range participants {
		if seen[p.UserID] {
			return fmt.Errorf("%w: user %d", ErrDuplicateParticipant, p.UserID)
		}
		seen[p.UserID] = true
	}
	return nil
}

// sortedByUserID returns a copy of participants in ascending user ID order.
// Remainder cents are always handed out in this order so the assignment
// does not depend on how the request happened to list the participants.
func sortedByUserID(participants []SplitInput) []SplitInput {
	ordered := make([]SplitInput, len(participants))
	copy(ordered, participants)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].UserID < ordered[j].UserID
	})
	return ordered
}
