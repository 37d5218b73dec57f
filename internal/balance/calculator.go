package balance

import (
	"fmt"
	"sort"

	"github.com/equalpay/equalpay/internal/expense"
	"github.com/equalpay/equalpay/internal/expense/split"
)

// Member is the slice of a group member the calculator needs
type Member struct {
	ID   int64
	Name string
}

// UserBalance is a member's aggregate position in a group, in cents.
// Positive NetBalance means the group owes them; negative means they owe.
type UserBalance struct {
	UserID     int64
	UserName   string
	TotalPaid  int64
	TotalOwed  int64
	NetBalance int64
}

// Settlement is a proposed transfer from a debtor to a creditor, in cents
type Settlement struct {
	DebtorID     int64
	DebtorName   string
	CreditorID   int64
	CreditorName string
	Amount       int64
}

// DanglingParticipantError reports an expense that references a user
// outside the group's member set. Balances computed past this point would
// silently omit money, so aggregation fails closed instead.
type DanglingParticipantError struct {
	ExpenseID int64
	UserID    int64
}

func (e *DanglingParticipantError) Error() string {
	return fmt.Sprintf("expense %d references user %d who is not a group member", e.ExpenseID, e.UserID)
}

// UnbalancedLedgerError reports net balances that do not sum to zero.
// This can only come from an aggregation bug upstream, never from user input.
type UnbalancedLedgerError struct {
	Sum int64
}

func (e *UnbalancedLedgerError) Error() string {
	return fmt.Sprintf("net balances sum to %d cents, want 0", e.Sum)
}

var splitFactory = split.NewSplitStrategyFactory()

// ComputeGroupBalances aggregates a group's full expense history into one
// UserBalance per member. Every member appears in the result, zeroed when
// they have no activity. For each expense the payer is credited the full
// amount as paid and every participant (payer included) is debited their
// derived share. Net balances across the group always sum to exactly zero.
func ComputeGroupBalances(members []Member, expenses []*expense.Expense) (map[int64]*UserBalance, error) {
	balances := make(map[int64]*UserBalance, len(members))
	for _, m := range members {
		balances[m.ID] = &UserBalance{
			UserID:   m.ID,
			UserName: m.Name,
		}
	}

	for _, e := range expenses {
		payer, ok := balances[e.PayerID]
		if !ok {
			return nil, &DanglingParticipantError{ExpenseID: e.ID, UserID: e.PayerID}
		}
		payer.TotalPaid += e.Amount

		strategy, err := splitFactory.Create(e.SplitType)
		if err != nil {
			return nil, fmt.Errorf("expense %d: %w", e.ID, err)
		}
		shares, err := strategy.Calculate(e.Amount, e.SplitInputs())
		if err != nil {
			return nil, fmt.Errorf("expense %d: %w", e.ID, err)
		}

		for _, share := range shares {
			b, ok := balances[share.UserID]
			if !ok {
				return nil, &DanglingParticipantError{ExpenseID: e.ID, UserID: share.UserID}
			}
			b.TotalOwed += share.AmountOwed
		}
	}

	for _, b := range balances {
		b.NetBalance = b.TotalPaid - b.TotalOwed
	}

	return balances, nil
}

// party is a debtor or creditor with its remaining unmatched cents
type party struct {
	id        int64
	name      string
	remaining int64
}

// ComputeSettlements reduces net balances to a minimal list of transfers
// that zeroes every balance. Greedy largest-magnitude matching: repeatedly
// pair the creditor owed the most with the debtor owing the most and
// transfer the smaller of the two amounts. Ties break on ascending user ID
// so the output is reproducible. Emits at most one transfer fewer than the
// number of nonzero balances.
func ComputeSettlements(balances map[int64]*UserBalance) ([]Settlement, error) {
	var sum int64
	var creditors, debtors []*party
	for _, b := range balances {
		sum += b.NetBalance
		switch {
		case b.NetBalance > 0:
			creditors = append(creditors, &party{id: b.UserID, name: b.UserName, remaining: b.NetBalance})
		case b.NetBalance < 0:
			debtors = append(debtors, &party{id: b.UserID, name: b.UserName, remaining: -b.NetBalance})
		}
	}

	if sum != 0 {
		return nil, &UnbalancedLedgerError{Sum: sum}
	}

	settlements := make([]Settlement, 0, len(creditors)+len(debtors))
	for len(creditors) > 0 && len(debtors) > 0 {
		ci := largest(creditors)
		di := largest(debtors)
		creditor, debtor := creditors[ci], debtors[di]

		amount := creditor.remaining
		if debtor.remaining < amount {
			amount = debtor.remaining
		}

		settlements = append(settlements, Settlement{
			DebtorID:     debtor.id,
			DebtorName:   debtor.name,
			CreditorID:   creditor.id,
			CreditorName: creditor.name,
			Amount:       amount,
		})

		creditor.remaining -= amount
		debtor.remaining -= amount
		if creditor.remaining == 0 {
			creditors = append(creditors[:ci], creditors[ci+1:]...)
		}
		if debtor.remaining == 0 {
			debtors = append(debtors[:di], debtors[di+1:]...)
		}
	}

	return settlements, nil
}

// largest returns the index of the party with the biggest remaining
// balance, lowest user ID winning ties
func largest(parties []*party) int {
	best := 0
	for i, p := range parties {
		if p.remaining > parties[best].remaining ||
			(p.remaining == parties[best].remaining && p.id < parties[best].id) {
			best = i
		}
	}
	return best
}

// SortedBalances returns the balances ordered by ascending user ID,
// for stable API output
func SortedBalances(balances map[int64]*UserBalance) []*UserBalance {
	ordered := make([]*UserBalance, 0, len(balances))
	for _, b := range balances {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].UserID < ordered[j].UserID
	})
	return ordered
}
