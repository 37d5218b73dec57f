package expense

import (
	"time"

	"github.com/equalpay/equalpay/internal/expense/split"
)

// Category classifies an expense for display and reporting
type Category string

const (
	CategoryFood          Category = "FOOD"
	CategoryTransport     Category = "TRANSPORT"
	CategoryEntertainment Category = "ENTERTAINMENT"
	CategoryShopping      Category = "SHOPPING"
	CategoryUtilities     Category = "UTILITIES"
	CategoryTravel        Category = "TRAVEL"
	CategoryHealth        Category = "HEALTH"
	CategoryOther         Category = "OTHER"
)

// Valid reports whether the category is one of the known values
func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryTransport, CategoryEntertainment, CategoryShopping,
		CategoryUtilities, CategoryTravel, CategoryHealth, CategoryOther:
		return true
	}
	return false
}

// Expense represents one shared cost in a group.
// Amount is in integer minor units (cents).
type Expense struct {
	ID          int64           `json:"id"`
	GroupID     int64           `json:"group_id"`
	PayerID     int64           `json:"payer_id"`
	Description string          `json:"description"`
	Amount      int64           `json:"amount_cents"`
	SplitType   split.SplitType `json:"split_type"`
	Category    Category        `json:"category"`
	Notes       *string         `json:"notes,omitempty"`
	ExpenseDate time.Time       `json:"expense_date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Populated via JOIN
	PayerName string `json:"payer_name,omitempty"`

	// Participants carry the split-defining inputs. Owed shares are never
	// stored; they are recomputed from these inputs on every read so they
	// cannot go stale relative to the expense.
	Participants []*Participant `json:"participants,omitempty"`
}

// Participant is one member of an expense's split, with the per-user input
// the split type needs (percentage or exact cents)
type Participant struct {
	UserID     int64    `json:"user_id"`
	Percentage *float64 `json:"percentage,omitempty"`
	Amount     *int64   `json:"amount_cents,omitempty"`

	// Populated via JOIN
	UserName string `json:"user_name,omitempty"`
}

// ToSplitInput converts to the split package's input type
func (p *Participant) ToSplitInput() split.SplitInput {
	return split.SplitInput{
		UserID:     p.UserID,
		Percentage: p.Percentage,
		Amount:     p.Amount,
	}
}

// SplitInputs returns the calculator inputs for all participants
func (e *Expense) SplitInputs() []split.SplitInput {
	inputs := make([]split.SplitInput, len(e.Participants))
	for i, p := range e.Participants {
		inputs[i] = p.ToSplitInput()
	}
	return inputs
}
