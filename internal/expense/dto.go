package expense

import (
	"time"

	"github.com/equalpay/equalpay/internal/expense/split"
	"github.com/equalpay/equalpay/pkg/money"
)

// ParticipantInput is one participant in an expense request.
// Amounts are decimal currency units; they are converted to cents at this
// boundary and nowhere else.
type ParticipantInput struct {
	UserID     int64    `json:"user_id" validate:"required,gt=0"`
	Percentage *float64 `json:"percentage,omitempty"` // For PERCENTAGE split
	Amount     *float64 `json:"amount,omitempty"`     // For EXACT_AMOUNT split
}

// ToParticipant converts the request input to the persisted participant shape
func (p *ParticipantInput) ToParticipant() *Participant {
	participant := &Participant{
		UserID:     p.UserID,
		Percentage: p.Percentage,
	}
	if p.Amount != nil {
		cents := money.ToCents(*p.Amount)
		participant.Amount = &cents
	}
	return participant
}

// CreateExpenseRequest represents the request to create an expense
type CreateExpenseRequest struct {
	GroupID      int64               `json:"group_id" validate:"required,gt=0"`
	Description  string              `json:"description" validate:"required,min=1,max=255"`
	Amount       float64             `json:"amount" validate:"required,gt=0"`
	SplitType    string              `json:"split_type" validate:"required,oneof=EQUAL PERCENTAGE EXACT_AMOUNT"`
	Category     string              `json:"category,omitempty"`
	Notes        *string             `json:"notes,omitempty"`
	ExpenseDate  *time.Time          `json:"expense_date,omitempty"`
	Participants []*ParticipantInput `json:"participants" validate:"required,min=1,dive"`
}

// UpdateExpenseRequest represents the request to update an expense.
// The expense's ID and group are fixed; everything else may change.
// Supplying participants replaces the previous participant set.
type UpdateExpenseRequest struct {
	Description  *string             `json:"description,omitempty" validate:"omitempty,min=1,max=255"`
	Amount       *float64            `json:"amount,omitempty" validate:"omitempty,gt=0"`
	SplitType    *string             `json:"split_type,omitempty" validate:"omitempty,oneof=EQUAL PERCENTAGE EXACT_AMOUNT"`
	Category     *string             `json:"category,omitempty"`
	Notes        *string             `json:"notes,omitempty"`
	ExpenseDate  *time.Time          `json:"expense_date,omitempty"`
	Participants []*ParticipantInput `json:"participants,omitempty" validate:"omitempty,min=1,dive"`
}

// SplitResponse is one participant's derived share of an expense
type SplitResponse struct {
	UserID     int64    `json:"user_id"`
	UserName   string   `json:"user_name,omitempty"`
	AmountOwed float64  `json:"amount_owed"`
	Percentage *float64 `json:"percentage,omitempty"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID          int64            `json:"id"`
	GroupID     int64            `json:"group_id"`
	PayerID     int64            `json:"payer_id"`
	PayerName   string           `json:"payer_name,omitempty"`
	Description string           `json:"description"`
	Amount      float64          `json:"amount"`
	SplitType   string           `json:"split_type"`
	Category    string           `json:"category"`
	Notes       *string          `json:"notes,omitempty"`
	ExpenseDate string           `json:"expense_date"`
	CreatedAt   string           `json:"created_at"`
	Splits      []*SplitResponse `json:"splits,omitempty"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO,
// attaching the derived splits when provided
func (e *Expense) ToResponse(splits []split.SplitOutput) *ExpenseResponse {
	resp := &ExpenseResponse{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PayerID:     e.PayerID,
		PayerName:   e.PayerName,
		Description: e.Description,
		Amount:      money.FromCents(e.Amount),
		SplitType:   string(e.SplitType),
		Category:    string(e.Category),
		Notes:       e.Notes,
		ExpenseDate: e.ExpenseDate.Format(time.RFC3339),
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}

	if splits == nil {
		return resp
	}

	names := make(map[int64]string, len(e.Participants))
	percentages := make(map[int64]*float64, len(e.Participants))
	for _, p := range e.Participants {
		names[p.UserID] = p.UserName
		percentages[p.UserID] = p.Percentage
	}

	resp.Splits = make([]*SplitResponse, len(splits))
	for i, s := range splits {
		resp.Splits[i] = &SplitResponse{
			UserID:     s.UserID,
			UserName:   names[s.UserID],
			AmountOwed: money.FromCents(s.AmountOwed),
			Percentage: percentages[s.UserID],
		}
	}

	return resp
}
