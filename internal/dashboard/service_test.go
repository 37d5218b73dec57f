package dashboard

import (
	"testing"
	"time"

	"github.com/equalpay/equalpay/internal/expense"
	"github.com/equalpay/equalpay/internal/expense/split"
)

func newTestService() *Service {
	expenseService := expense.NewService(nil, nil, split.NewSplitStrategyFactory())
	return NewService(expenseService, nil, nil, nil, nil)
}

func equalExpense(id, payerID int64, amount int64, date time.Time, participants ...int64) *expense.Expense {
	e := &expense.Expense{
		ID:          id,
		GroupID:     1,
		PayerID:     payerID,
		Description: "test",
		Amount:      amount,
		SplitType:   split.SplitTypeEqual,
		Category:    expense.CategoryOther,
		ExpenseDate: date,
	}
	for _, userID := range participants {
		e.Participants = append(e.Participants, &expense.Participant{UserID: userID})
	}
	return e
}

func TestSpendingTotalsSumsFullHistory(t *testing.T) {
	svc := newTestService()
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	old := now.AddDate(-1, 0, 0)

	// Well past any page size a listing endpoint would use.
	const count = 2500
	expenses := make([]*expense.Expense, count)
	for i := range expenses {
		expenses[i] = equalExpense(int64(i+1), 1, 100, old, 1)
	}

	total, _, _, err := svc.spendingTotals(expenses, 1, now)
	if err != nil {
		t.Fatalf("spendingTotals() error = %v", err)
	}
	if want := int64(count * 100); total != want {
		t.Errorf("total = %d, want %d", total, want)
	}
}

func TestSpendingTotalsMonthBuckets(t *testing.T) {
	svc := newTestService()
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

	expenses := []*expense.Expense{
		// This month: user 1's equal share of 3000 across three people is 1000.
		equalExpense(1, 1, 3000, time.Date(2026, time.August, 2, 0, 0, 0, 0, time.UTC), 1, 2, 3),
		// Last month: sole participant owes the full amount.
		equalExpense(2, 2, 500, time.Date(2026, time.July, 20, 0, 0, 0, 0, time.UTC), 1),
		// Older history counts toward the total only.
		equalExpense(3, 1, 200, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), 1),
		// User 1 not involved as a participant; share contributes nothing.
		equalExpense(4, 1, 900, time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC), 2, 3),
	}

	total, thisMonth, lastMonth, err := svc.spendingTotals(expenses, 1, now)
	if err != nil {
		t.Fatalf("spendingTotals() error = %v", err)
	}
	if total != 1700 {
		t.Errorf("total = %d, want 1700", total)
	}
	if thisMonth != 1000 {
		t.Errorf("thisMonth = %d, want 1000", thisMonth)
	}
	if lastMonth != 500 {
		t.Errorf("lastMonth = %d, want 500", lastMonth)
	}
}
