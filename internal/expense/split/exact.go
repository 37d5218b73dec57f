package split

// =============================================================================
// EXACT AMOUNT SPLIT STRATEGY
// Each participant owes a specific exact amount (must sum to the total)
// =============================================================================

// ExactAmountStrategy implements the Strategy interface for exact amount splits
type ExactAmountStrategy struct{}

// Type returns the split type identifier
func (s *ExactAmountStrategy) Type() SplitType {
	return SplitTypeExactAmount
}

// Validate checks if the inputs are valid for an exact amount split.
// Because amounts are integer cents there is no rounding slack here: the
// per-participant amounts must sum to the expense amount exactly.
func (s *ExactAmountStrategy) Validate(amountCents int64, participants []SplitInput) error {
	if err := validateParticipants(amountCents, participants); err != nil {
		return err
	}

	var total int64
	for _, p := range participants {
		if p.Amount == nil {
			return ErrMissingExactAmount
		}
		if *p.Amount < 0 {
			return ErrNegativeShare
		}
		total += *p.Amount
	}

	if total != amountCents {
		return ErrInvalidExactAmounts
	}

	return nil
}

// Calculate passes the specified amounts through verbatim
func (s *ExactAmountStrategy) Calculate(amountCents int64, participants []SplitInput) ([]SplitOutput, error) {
	if err := s.Validate(amountCents, participants); err != nil {
		return nil, err
	}

	ordered := sortedByUserID(participants)
	outputs := make([]SplitOutput, len(ordered))
	for i, p := range ordered {
		outputs[i] = SplitOutput{
			UserID:     p.UserID,
			AmountOwed: *p.Amount,
		}
	}

	return outputs, nil
}
