package split

import "math"

// =============================================================================
// PERCENTAGE SPLIT STRATEGY
// Divides the expense based on specified percentages for each participant
// =============================================================================

// PercentageStrategy implements the Strategy interface for percentage-based splits
type PercentageStrategy struct{}

// Type returns the split type identifier
func (s *PercentageStrategy) Type() SplitType {
	return SplitTypePercentage
}

// Validate checks if the inputs are valid for a percentage split
func (s *PercentageStrategy) Validate(amountCents int64, participants []SplitInput) error {
	if err := validateParticipants(amountCents, participants); err != nil {
		return err
	}

	var totalPercentage float64
	for _, p := range participants {
		if p.Percentage == nil {
			return ErrMissingPercentage
		}
		if *p.Percentage < 0 || *p.Percentage > 100 {
			return ErrPercentageOutOfRange
		}
		totalPercentage += *p.Percentage
	}

	if math.Abs(totalPercentage-100) > percentageTolerance {
		return ErrInvalidPercentages
	}

	return nil
}

// Calculate assigns each participant roundHalfUp(amount * percentage / 100)
// cents, then reconciles the rounding residual one cent at a time in
// ascending user ID order so the shares sum to exactly the amount.
func (s *PercentageStrategy) Calculate(amountCents int64, participants []SplitInput) ([]SplitOutput, error) {
	if err := s.Validate(amountCents, participants); err != nil {
		return nil, err
	}

	ordered := sortedByUserID(participants)
	outputs := make([]SplitOutput, len(ordered))

	var distributed int64
	for i, p := range ordered {
		owed := roundHalfUp(float64(amountCents) * (*p.Percentage) / 100)
		distributed += owed
		outputs[i] = SplitOutput{
			UserID:     p.UserID,
			AmountOwed: owed,
		}
	}

	// Spread the residual so no participant absorbs more than one cent of it
	residual := amountCents - distributed
	for i := 0; residual != 0; i = (i + 1) % len(outputs) {
		if residual > 0 {
			outputs[i].AmountOwed++
			residual--
		} else if outputs[i].AmountOwed > 0 {
			outputs[i].AmountOwed--
			residual++
		}
	}

	return outputs, nil
}

// roundHalfUp rounds a non-negative value to the nearest integer,
// ties away from zero
func roundHalfUp(value float64) int64 {
	return int64(math.Floor(value + 0.5))
}
