package settlement

import (
	"time"

	"github.com/equalpay/equalpay/pkg/money"
)

// RecordSettlementRequest represents the request to record a settlement
type RecordSettlementRequest struct {
	GroupID    int64      `json:"group_id" validate:"required,gt=0"`
	DebtorID   int64      `json:"debtor_id" validate:"required,gt=0"`
	CreditorID int64      `json:"creditor_id" validate:"required,gt=0"`
	Amount     float64    `json:"amount" validate:"required,gt=0"`
	Notes      *string    `json:"notes,omitempty" validate:"omitempty,max=500"`
	SettledAt  *time.Time `json:"settled_at,omitempty"`
}

// SettlementResponse represents the response for a settlement
type SettlementResponse struct {
	ID           int64   `json:"id"`
	GroupID      int64   `json:"group_id"`
	GroupName    string  `json:"group_name,omitempty"`
	DebtorID     int64   `json:"debtor_id"`
	DebtorName   string  `json:"debtor_name,omitempty"`
	CreditorID   int64   `json:"creditor_id"`
	CreditorName string  `json:"creditor_name,omitempty"`
	Amount       float64 `json:"amount"`
	Notes        *string `json:"notes,omitempty"`
	SettledAt    string  `json:"settled_at"`
	CreatedAt    string  `json:"created_at"`
}

// ToResponse converts a Settlement model to a SettlementResponse DTO
func (s *Settlement) ToResponse() *SettlementResponse {
	return &SettlementResponse{
		ID:           s.ID,
		GroupID:      s.GroupID,
		GroupName:    s.GroupName,
		DebtorID:     s.DebtorID,
		DebtorName:   s.DebtorName,
		CreditorID:   s.CreditorID,
		CreditorName: s.CreditorName,
		Amount:       money.FromCents(s.Amount),
		Notes:        s.Notes,
		SettledAt:    s.SettledAt.Format(time.RFC3339),
		CreatedAt:    s.CreatedAt.Format(time.RFC3339),
	}
}
