package balance

import (
	"context"
	"errors"

	"github.com/equalpay/equalpay/internal/expense"
	"github.com/equalpay/equalpay/internal/group"
	"github.com/equalpay/equalpay/pkg/money"
)

// ErrGroupNotFound is returned when the requested group does not exist
var ErrGroupNotFound = errors.New("group not found")

// Service computes balance sheets on demand. Nothing here is cached or
// persisted: every request recomputes from the current expense list, so
// derived data can never go stale relative to its source expenses.
type Service struct {
	groupRepo   *group.Repository
	expenseRepo *expense.Repository
}

// NewService creates a new balance service
func NewService(groupRepo *group.Repository, expenseRepo *expense.Repository) *Service {
	return &Service{
		groupRepo:   groupRepo,
		expenseRepo: expenseRepo,
	}
}

// GroupBalance builds the full balance sheet for a group: per-member
// paid/owed/net plus the minimal settlement plan
func (s *Service) GroupBalance(ctx context.Context, groupID int64) (*GroupBalanceResponse, error) {
	g, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	groupMembers, err := s.groupRepo.GetMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	members := make([]Member, len(groupMembers))
	for i, m := range groupMembers {
		members[i] = Member{ID: m.UserID, Name: m.Name}
	}

	expenses, err := s.expenseRepo.ListAllByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	balances, err := ComputeGroupBalances(members, expenses)
	if err != nil {
		return nil, err
	}

	settlements, err := ComputeSettlements(balances)
	if err != nil {
		return nil, err
	}

	var totalExpenses int64
	for _, e := range expenses {
		totalExpenses += e.Amount
	}

	resp := &GroupBalanceResponse{
		GroupID:       g.ID,
		GroupName:     g.Name,
		TotalExpenses: money.FromCents(totalExpenses),
		UserBalances:  make([]*UserBalanceResponse, 0, len(balances)),
		Settlements:   make([]*SettlementResponse, 0, len(settlements)),
	}
	for _, b := range SortedBalances(balances) {
		resp.UserBalances = append(resp.UserBalances, toUserBalanceResponse(b))
	}
	for _, st := range settlements {
		resp.Settlements = append(resp.Settlements, toSettlementResponse(st))
	}

	return resp, nil
}

// UserBalances returns the user's net position in each of their groups
func (s *Service) UserBalances(ctx context.Context, userID int64) ([]*UserGroupBalanceResponse, error) {
	groups, err := s.groupRepo.AllByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*UserGroupBalanceResponse, 0, len(groups))
	for _, g := range groups {
		net, err := s.UserNetBalanceInGroup(ctx, userID, g.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, &UserGroupBalanceResponse{
			GroupID:    g.ID,
			GroupName:  g.Name,
			NetBalance: money.FromCents(net),
		})
	}

	return responses, nil
}

// UserNetBalanceInGroup computes a single member's net position, in cents
func (s *Service) UserNetBalanceInGroup(ctx context.Context, userID, groupID int64) (int64, error) {
	groupMembers, err := s.groupRepo.GetMembers(ctx, groupID)
	if err != nil {
		return 0, err
	}
	members := make([]Member, len(groupMembers))
	for i, m := range groupMembers {
		members[i] = Member{ID: m.UserID, Name: m.Name}
	}

	expenses, err := s.expenseRepo.ListAllByGroupID(ctx, groupID)
	if err != nil {
		return 0, err
	}

	balances, err := ComputeGroupBalances(members, expenses)
	if err != nil {
		return 0, err
	}

	if b, ok := balances[userID]; ok {
		return b.NetBalance, nil
	}
	return 0, nil
}
