package dashboard

import (
	"context"
	"time"

	"github.com/equalpay/equalpay/internal/balance"
	"github.com/equalpay/equalpay/internal/expense"
	"github.com/equalpay/equalpay/internal/group"
	"github.com/equalpay/equalpay/internal/settlement"
	"github.com/equalpay/equalpay/pkg/money"
)

// Service assembles per-user overview data from the other features
type Service struct {
	expenseService    *expense.Service
	expenseRepo       *expense.Repository
	groupRepo         *group.Repository
	balanceService    *balance.Service
	settlementService *settlement.Service
}

// NewService creates a new dashboard service
func NewService(expenseService *expense.Service, expenseRepo *expense.Repository, groupRepo *group.Repository, balanceService *balance.Service, settlementService *settlement.Service) *Service {
	return &Service{
		expenseService:    expenseService,
		expenseRepo:       expenseRepo,
		groupRepo:         groupRepo,
		balanceService:    balanceService,
		settlementService: settlementService,
	}
}

// Stats computes the user's headline numbers. "Spent" is the sum of the
// user's own derived shares, not the amounts they fronted for others.
func (s *Service) Stats(ctx context.Context, userID int64) (*StatsResponse, error) {
	expenses, err := s.expenseRepo.ListAllByUserInvolved(ctx, userID)
	if err != nil {
		return nil, err
	}

	total, thisMonth, lastMonth, err := s.spendingTotals(expenses, userID, time.Now())
	if err != nil {
		return nil, err
	}

	groups, err := s.groupRepo.AllByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	groupBalances, err := s.balanceService.UserBalances(ctx, userID)
	if err != nil {
		return nil, err
	}
	var net float64
	for _, gb := range groupBalances {
		net += gb.NetBalance
	}

	settledPaid, settledReceived, err := s.settlementService.TotalsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &StatsResponse{
		TotalSpent:      money.FromCents(total),
		SpentThisMonth:  money.FromCents(thisMonth),
		SpentLastMonth:  money.FromCents(lastMonth),
		MonthlyChange:   money.FromCents(thisMonth - lastMonth),
		ActiveGroups:    len(groups),
		NetBalance:      net,
		SettledPaid:     money.FromCents(settledPaid),
		SettledReceived: money.FromCents(settledReceived),
	}, nil
}

// spendingTotals sums the user's derived shares over their whole expense
// history, bucketing the current and previous calendar months
func (s *Service) spendingTotals(expenses []*expense.Expense, userID int64, now time.Time) (total, thisMonth, lastMonth int64, err error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	for _, e := range expenses {
		share, ok, err := s.userShare(e, userID)
		if err != nil {
			return 0, 0, 0, err
		}
		if !ok {
			continue
		}

		total += share
		switch {
		case !e.ExpenseDate.Before(monthStart):
			thisMonth += share
		case !e.ExpenseDate.Before(lastMonthStart):
			lastMonth += share
		}
	}

	return total, thisMonth, lastMonth, nil
}

// RecentActivity returns the user's most recent expenses, newest first
func (s *Service) RecentActivity(ctx context.Context, userID int64, limit int) ([]*ActivityItem, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}

	expenses, err := s.expenseRepo.ListByUserInvolved(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]*ActivityItem, 0, len(expenses))
	for _, e := range expenses {
		share, _, err := s.userShare(e, userID)
		if err != nil {
			return nil, err
		}

		items = append(items, &ActivityItem{
			ExpenseID:   e.ID,
			GroupID:     e.GroupID,
			Description: e.Description,
			Amount:      money.FromCents(e.Amount),
			YourShare:   money.FromCents(share),
			PayerID:     e.PayerID,
			PayerName:   e.PayerName,
			Category:    string(e.Category),
			ExpenseDate: e.ExpenseDate.Format(time.RFC3339),
		})
	}

	return items, nil
}

// userShare derives the user's share of one expense. ok is false when the
// user is not a participant (they only paid).
func (s *Service) userShare(e *expense.Expense, userID int64) (int64, bool, error) {
	splits, err := s.expenseService.ComputeSplits(e)
	if err != nil {
		return 0, false, err
	}
	for _, sp := range splits {
		if sp.UserID == userID {
			return sp.AmountOwed, true, nil
		}
	}
	return 0, false, nil
}
