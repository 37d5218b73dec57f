package split

// =============================================================================
// EQUAL SPLIT STRATEGY
// Divides the expense equally among all participants
// =============================================================================

// EqualStrategy implements the Strategy interface for equal splits
type EqualStrategy struct{}

// Type returns the split type identifier
func (s *EqualStrategy) Type() SplitType {
	return SplitTypeEqual
}

// Validate checks if the inputs are valid for an equal split
func (s *EqualStrategy) Validate(amountCents int64, participants []SplitInput) error {
	return validateParticipants(amountCents, participants)
}

// Calculate divides the amount evenly among all participants. Integer
// division leaves a remainder of at most len(participants)-1 cents; one
// extra cent goes to each of the first remainder participants in ascending
// user ID order, so the shares always sum to exactly the amount and no two
// shares differ by more than one cent.
func (s *EqualStrategy) Calculate(amountCents int64, participants []SplitInput) ([]SplitOutput, error) {
	if err := s.Validate(amountCents, participants); err != nil {
		return nil, err
	}

	ordered := sortedByUserID(participants)
	n := int64(len(ordered))
	base := amountCents / n
	remainder := amountCents % n

	outputs := make([]SplitOutput, len(ordered))
	for i, p := range ordered {
		owed := base
		if int64(i) < remainder {
			owed++
		}
		outputs[i] = SplitOutput{
			UserID:     p.UserID,
			AmountOwed: owed,
		}
	}

	return outputs, nil
}
