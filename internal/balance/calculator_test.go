package balance

import (
	"errors"
	"testing"

	"github.com/equalpay/equalpay/internal/expense"
	"github.com/equalpay/equalpay/internal/expense/split"
)

var testMembers = []Member{
	{ID: 1, Name: "Alice"},
	{ID: 2, Name: "Bob"},
	{ID: 3, Name: "Carol"},
}

func equalExpense(id, groupID, payerID, amountCents int64, participantIDs ...int64) *expense.Expense {
	e := &expense.Expense{
		ID:        id,
		GroupID:   groupID,
		PayerID:   payerID,
		Amount:    amountCents,
		SplitType: split.SplitTypeEqual,
	}
	for _, pid := range participantIDs {
		e.Participants = append(e.Participants, &expense.Participant{UserID: pid})
	}
	return e
}

func balancesFromNets(nets map[int64]int64) map[int64]*UserBalance {
	balances := make(map[int64]*UserBalance, len(nets))
	for id, net := range nets {
		balances[id] = &UserBalance{UserID: id, NetBalance: net}
	}
	return balances
}

func TestComputeGroupBalances(t *testing.T) {
	tests := []struct {
		name         string
		members      []Member
		expenses     []*expense.Expense
		wantErr      bool
		validateFunc func(t *testing.T, balances map[int64]*UserBalance)
	}{
		{
			name:     "no expenses seeds zero balances for every member",
			members:  testMembers,
			expenses: nil,
			validateFunc: func(t *testing.T, balances map[int64]*UserBalance) {
				if len(balances) != 3 {
					t.Fatalf("got %d balances, want 3", len(balances))
				}
				for id, b := range balances {
					if b.TotalPaid != 0 || b.TotalOwed != 0 || b.NetBalance != 0 {
						t.Errorf("member %d not zeroed: %+v", id, b)
					}
				}
			},
		},
		{
			name:    "single equal expense, payer participates",
			members: testMembers,
			expenses: []*expense.Expense{
				// Alice pays 30.00 for all three
				equalExpense(1, 1, 1, 3000, 1, 2, 3),
			},
			validateFunc: func(t *testing.T, balances map[int64]*UserBalance) {
				alice := balances[1]
				if alice.TotalPaid != 3000 || alice.TotalOwed != 1000 || alice.NetBalance != 2000 {
					t.Errorf("alice = %+v, want paid 3000 owed 1000 net 2000", alice)
				}
				for _, id := range []int64{2, 3} {
					b := balances[id]
					if b.TotalPaid != 0 || b.TotalOwed != 1000 || b.NetBalance != -1000 {
						t.Errorf("member %d = %+v, want owed 1000 net -1000", id, b)
					}
				}
			},
		},
		{
			name:    "payer outside participant set still credited in full",
			members: testMembers,
			expenses: []*expense.Expense{
				// Alice pays 10.00 for Bob and Carol only
				equalExpense(1, 1, 1, 1000, 2, 3),
			},
			validateFunc: func(t *testing.T, balances map[int64]*UserBalance) {
				if balances[1].NetBalance != 1000 {
					t.Errorf("alice net = %d, want 1000", balances[1].NetBalance)
				}
				if balances[2].NetBalance != -500 || balances[3].NetBalance != -500 {
					t.Errorf("bob/carol nets = %d/%d, want -500 each",
						balances[2].NetBalance, balances[3].NetBalance)
				}
			},
		},
		{
			name:    "multiple expenses accumulate",
			members: testMembers,
			expenses: []*expense.Expense{
				equalExpense(1, 1, 1, 3000, 1, 2, 3),
				equalExpense(2, 1, 2, 1500, 1, 2, 3),
				equalExpense(3, 1, 3, 600, 1, 2),
			},
			validateFunc: func(t *testing.T, balances map[int64]*UserBalance) {
				if balances[1].TotalPaid != 3000 || balances[2].TotalPaid != 1500 || balances[3].TotalPaid != 600 {
					t.Errorf("paid totals wrong: %+v %+v %+v", balances[1], balances[2], balances[3])
				}
				// Alice: 1000 + 500 + 300; Bob: 1000 + 500 + 300; Carol: 1000 + 500
				if balances[1].TotalOwed != 1800 || balances[2].TotalOwed != 1800 || balances[3].TotalOwed != 1500 {
					t.Errorf("owed totals wrong: %d %d %d",
						balances[1].TotalOwed, balances[2].TotalOwed, balances[3].TotalOwed)
				}
			},
		},
		{
			name:    "dangling participant fails closed",
			members: testMembers,
			expenses: []*expense.Expense{
				equalExpense(7, 1, 1, 1000, 1, 99),
			},
			wantErr: true,
		},
		{
			name:    "dangling payer fails closed",
			members: testMembers,
			expenses: []*expense.Expense{
				equalExpense(8, 1, 99, 1000, 1, 2),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances, err := ComputeGroupBalances(tt.members, tt.expenses)
			if tt.wantErr {
				var dangling *DanglingParticipantError
				if !errors.As(err, &dangling) {
					t.Fatalf("err = %v, want DanglingParticipantError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			// Conservation invariant: nets sum to exactly zero
			var sum int64
			for _, b := range balances {
				sum += b.NetBalance
			}
			if sum != 0 {
				t.Errorf("net balances sum to %d, want 0", sum)
			}

			if tt.validateFunc != nil {
				tt.validateFunc(t, balances)
			}
		})
	}
}

func TestComputeGroupBalancesMixedSplitTypes(t *testing.T) {
	pct := func(v float64) *float64 { return &v }
	cents := func(v int64) *int64 { return &v }

	expenses := []*expense.Expense{
		{
			ID: 1, GroupID: 1, PayerID: 1, Amount: 10000, SplitType: split.SplitTypePercentage,
			Participants: []*expense.Participant{
				{UserID: 1, Percentage: pct(50)},
				{UserID: 2, Percentage: pct(30)},
				{UserID: 3, Percentage: pct(20)},
			},
		},
		{
			ID: 2, GroupID: 1, PayerID: 2, Amount: 4500, SplitType: split.SplitTypeExactAmount,
			Participants: []*expense.Participant{
				{UserID: 1, Amount: cents(1500)},
				{UserID: 2, Amount: cents(2000)},
				{UserID: 3, Amount: cents(1000)},
			},
		},
	}

	balances, err := ComputeGroupBalances(testMembers, expenses)
	if err != nil {
		t.Fatal(err)
	}

	want := map[int64]*UserBalance{
		1: {TotalPaid: 10000, TotalOwed: 6500},
		2: {TotalPaid: 4500, TotalOwed: 5000},
		3: {TotalPaid: 0, TotalOwed: 3000},
	}
	for id, w := range want {
		got := balances[id]
		if got.TotalPaid != w.TotalPaid || got.TotalOwed != w.TotalOwed {
			t.Errorf("member %d: paid/owed = %d/%d, want %d/%d",
				id, got.TotalPaid, got.TotalOwed, w.TotalPaid, w.TotalOwed)
		}
	}
}

// applySettlements replays transfers against the input balances and
// returns the leftover net per user
func applySettlements(balances map[int64]*UserBalance, settlements []Settlement) map[int64]int64 {
	remaining := make(map[int64]int64, len(balances))
	for id, b := range balances {
		remaining[id] = b.NetBalance
	}
	for _, s := range settlements {
		remaining[s.DebtorID] += s.Amount
		remaining[s.CreditorID] -= s.Amount
	}
	return remaining
}

func TestComputeSettlements(t *testing.T) {
	tests := []struct {
		name         string
		nets         map[int64]int64
		wantErr      bool
		validateFunc func(t *testing.T, settlements []Settlement)
	}{
		{
			name: "one debtor pays two creditors",
			nets: map[int64]int64{1: 50, 2: 30, 3: -80},
			validateFunc: func(t *testing.T, settlements []Settlement) {
				if len(settlements) != 2 {
					t.Fatalf("got %d settlements, want 2", len(settlements))
				}
				// Largest creditor first
				if settlements[0].DebtorID != 3 || settlements[0].CreditorID != 1 || settlements[0].Amount != 50 {
					t.Errorf("first settlement = %+v, want 3 pays 1 amount 50", settlements[0])
				}
				if settlements[1].DebtorID != 3 || settlements[1].CreditorID != 2 || settlements[1].Amount != 30 {
					t.Errorf("second settlement = %+v, want 3 pays 2 amount 30", settlements[1])
				}
			},
		},
		{
			name: "two debtors pay one creditor",
			nets: map[int64]int64{1: 100, 2: -40, 3: -60},
			validateFunc: func(t *testing.T, settlements []Settlement) {
				if len(settlements) != 2 {
					t.Fatalf("got %d settlements, want 2", len(settlements))
				}
				if settlements[0].DebtorID != 3 || settlements[0].Amount != 60 {
					t.Errorf("first settlement = %+v, want 3 pays 60", settlements[0])
				}
				if settlements[1].DebtorID != 2 || settlements[1].Amount != 40 {
					t.Errorf("second settlement = %+v, want 2 pays 40", settlements[1])
				}
			},
		},
		{
			name: "already settled group needs nothing",
			nets: map[int64]int64{1: 0, 2: 0, 3: 0},
			validateFunc: func(t *testing.T, settlements []Settlement) {
				if len(settlements) != 0 {
					t.Errorf("got %d settlements, want 0", len(settlements))
				}
			},
		},
		{
			name: "settled members are skipped",
			nets: map[int64]int64{1: 25, 2: 0, 3: -25},
			validateFunc: func(t *testing.T, settlements []Settlement) {
				for _, s := range settlements {
					if s.DebtorID == 2 || s.CreditorID == 2 {
						t.Errorf("settled member appears in %+v", s)
					}
				}
			},
		},
		{
			name: "equal magnitudes break ties on ascending id",
			nets: map[int64]int64{4: -50, 2: 50, 1: 50, 3: -50},
			validateFunc: func(t *testing.T, settlements []Settlement) {
				if len(settlements) != 2 {
					t.Fatalf("got %d settlements, want 2", len(settlements))
				}
				if settlements[0].DebtorID != 3 || settlements[0].CreditorID != 1 {
					t.Errorf("first settlement = %+v, want debtor 3 -> creditor 1", settlements[0])
				}
			},
		},
		{
			name:    "unbalanced ledger rejected",
			nets:    map[int64]int64{1: 100, 2: -40},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances := balancesFromNets(tt.nets)
			settlements, err := ComputeSettlements(balances)
			if tt.wantErr {
				var unbalanced *UnbalancedLedgerError
				if !errors.As(err, &unbalanced) {
					t.Fatalf("err = %v, want UnbalancedLedgerError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			// Settlement correctness: replaying the transfers zeroes everyone
			for id, left := range applySettlements(balances, settlements) {
				if left != 0 {
					t.Errorf("member %d left with %d cents after settlement", id, left)
				}
			}

			// Heuristic bound: at most nonzero balances - 1 transfers
			nonzero := 0
			for _, net := range tt.nets {
				if net != 0 {
					nonzero++
				}
			}
			if nonzero > 0 && len(settlements) > nonzero-1 {
				t.Errorf("%d settlements for %d nonzero balances", len(settlements), nonzero)
			}

			for _, s := range settlements {
				if s.Amount <= 0 {
					t.Errorf("non-positive settlement amount in %+v", s)
				}
			}

			if tt.validateFunc != nil {
				tt.validateFunc(t, settlements)
			}
		})
	}
}

func TestComputeSettlementsDeterminism(t *testing.T) {
	nets := map[int64]int64{1: 317, 2: -123, 3: -194, 4: 89, 5: -89}
	first, err := ComputeSettlements(balancesFromNets(nets))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, err := ComputeSettlements(balancesFromNets(nets))
		if err != nil {
			t.Fatal(err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: %d settlements, want %d", i, len(again), len(first))
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("run %d: settlement %d = %+v, want %+v", i, j, again[j], first[j])
			}
		}
	}
}

func TestEndToEndExpensesToSettlements(t *testing.T) {
	// Alice fronts dinner, Bob fronts the cab; settlements must zero the group
	expenses := []*expense.Expense{
		equalExpense(1, 1, 1, 9000, 1, 2, 3),
		equalExpense(2, 1, 2, 3000, 1, 2, 3),
	}

	balances, err := ComputeGroupBalances(testMembers, expenses)
	if err != nil {
		t.Fatal(err)
	}

	settlements, err := ComputeSettlements(balances)
	if err != nil {
		t.Fatal(err)
	}

	for id, left := range applySettlements(balances, settlements) {
		if left != 0 {
			t.Errorf("member %d left with %d cents", id, left)
		}
	}
}
