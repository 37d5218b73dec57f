package settlement

import "time"

// Settlement records an intent to transfer money from a debtor to a
// creditor within a group. Recording one does not move money and does not
// feed back into balance computation; it is an audit trail of who settled
// what, when.
type Settlement struct {
	ID         int64     `json:"id"`
	GroupID    int64     `json:"group_id"`
	DebtorID   int64     `json:"debtor_id"`
	CreditorID int64     `json:"creditor_id"`
	Amount     int64     `json:"amount_cents"`
	Notes      *string   `json:"notes,omitempty"`
	SettledAt  time.Time `json:"settled_at"`
	CreatedAt  time.Time `json:"created_at"`

	// Populated via JOIN
	DebtorName   string `json:"debtor_name,omitempty"`
	CreditorName string `json:"creditor_name,omitempty"`
	GroupName    string `json:"group_name,omitempty"`
}
