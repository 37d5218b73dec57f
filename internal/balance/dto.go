package balance

import "github.com/equalpay/equalpay/pkg/money"

// UserBalanceResponse is one member's position in a group, in currency units
type UserBalanceResponse struct {
	UserID     int64   `json:"user_id"`
	UserName   string  `json:"user_name"`
	TotalPaid  float64 `json:"total_paid"`
	TotalOwed  float64 `json:"total_owed"`
	NetBalance float64 `json:"net_balance"`
}

// SettlementResponse is one suggested transfer
type SettlementResponse struct {
	DebtorID     int64   `json:"debtor_id"`
	DebtorName   string  `json:"debtor_name"`
	CreditorID   int64   `json:"creditor_id"`
	CreditorName string  `json:"creditor_name"`
	Amount       float64 `json:"amount"`
}

// GroupBalanceResponse is the full balance sheet for a group
type GroupBalanceResponse struct {
	GroupID       int64                  `json:"group_id"`
	GroupName     string                 `json:"group_name"`
	TotalExpenses float64                `json:"total_expenses"`
	UserBalances  []*UserBalanceResponse `json:"user_balances"`
	Settlements   []*SettlementResponse  `json:"settlements"`
}

// UserGroupBalanceResponse is a user's net position in one of their groups
type UserGroupBalanceResponse struct {
	GroupID    int64   `json:"group_id"`
	GroupName  string  `json:"group_name"`
	NetBalance float64 `json:"net_balance"`
}

func toUserBalanceResponse(b *UserBalance) *UserBalanceResponse {
	return &UserBalanceResponse{
		UserID:     b.UserID,
		UserName:   b.UserName,
		TotalPaid:  money.FromCents(b.TotalPaid),
		TotalOwed:  money.FromCents(b.TotalOwed),
		NetBalance: money.FromCents(b.NetBalance),
	}
}

func toSettlementResponse(s Settlement) *SettlementResponse {
	return &SettlementResponse{
		DebtorID:     s.DebtorID,
		DebtorName:   s.DebtorName,
		CreditorID:   s.CreditorID,
		CreditorName: s.CreditorName,
		Amount:       money.FromCents(s.Amount),
	}
}
