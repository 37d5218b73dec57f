package dashboard

// StatsResponse summarizes a user's activity across all their groups
type StatsResponse struct {
	TotalSpent      float64 `json:"total_spent"`
	SpentThisMonth  float64 `json:"spent_this_month"`
	SpentLastMonth  float64 `json:"spent_last_month"`
	MonthlyChange   float64 `json:"monthly_change"`
	ActiveGroups    int     `json:"active_groups"`
	NetBalance      float64 `json:"net_balance"`
	SettledPaid     float64 `json:"settled_paid"`
	SettledReceived float64 `json:"settled_received"`
}

// ActivityItem is one recent expense the user was involved in
type ActivityItem struct {
	ExpenseID   int64   `json:"expense_id"`
	GroupID     int64   `json:"group_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	YourShare   float64 `json:"your_share"`
	PayerID     int64   `json:"payer_id"`
	PayerName   string  `json:"payer_name,omitempty"`
	Category    string  `json:"category"`
	ExpenseDate string  `json:"expense_date"`
}
