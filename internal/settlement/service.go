package settlement

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/equalpay/equalpay/internal/group"
	"github.com/equalpay/equalpay/pkg/money"
)

// Common errors
var (
	ErrSettlementNotFound = errors.New("settlement not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrDebtorNotMember    = errors.New("debtor must be a member of the group")
	ErrCreditorNotMember  = errors.New("creditor must be a member of the group")
	ErrCannotSettleSelf   = errors.New("debtor and creditor must be different users")
)

// Service handles settlement business logic
type Service struct {
	repo      *Repository
	groupRepo *group.Repository
}

// NewService creates a new settlement service
func NewService(repo *Repository, groupRepo *group.Repository) *Service {
	return &Service{
		repo:      repo,
		groupRepo: groupRepo,
	}
}

// Record validates and stores a settlement. This is a record of intent:
// no balances change and no money moves.
func (s *Service) Record(ctx context.Context, req *RecordSettlementRequest) (*Settlement, error) {
	if req.DebtorID == req.CreditorID {
		return nil, ErrCannotSettleSelf
	}

	g, err := s.groupRepo.GetByID(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	members, err := s.groupRepo.MemberIDSet(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if !members[req.DebtorID] {
		return nil, ErrDebtorNotMember
	}
	if !members[req.CreditorID] {
		return nil, ErrCreditorNotMember
	}

	settlement := &Settlement{
		GroupID:    req.GroupID,
		DebtorID:   req.DebtorID,
		CreditorID: req.CreditorID,
		Amount:     money.ToCents(req.Amount),
		Notes:      req.Notes,
		SettledAt:  time.Now(),
	}
	if req.SettledAt != nil {
		settlement.SettledAt = *req.SettledAt
	}

	created, err := s.repo.Create(ctx, settlement)
	if err != nil {
		return nil, err
	}

	// Reload to pick up joined names
	return s.GetByID(ctx, created.ID)
}

// GetByID retrieves a settlement by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Settlement, error) {
	settlement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, ErrSettlementNotFound
	}
	return settlement, nil
}

// ListByGroupID retrieves all settlements recorded in a group
func (s *Service) ListByGroupID(ctx context.Context, groupID int64) ([]*Settlement, error) {
	g, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	return s.repo.ListByGroupID(ctx, groupID)
}

// ListByUserID retrieves all settlements the user took part in
func (s *Service) ListByUserID(ctx context.Context, userID int64) ([]*Settlement, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// Delete removes a settlement record
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSettlementNotFound
		}
		return err
	}
	return nil
}

// TotalSettledByGroup sums all settled amounts in a group, in cents
func (s *Service) TotalSettledByGroup(ctx context.Context, groupID int64) (int64, error) {
	return s.repo.TotalSettledByGroup(ctx, groupID)
}

// TotalsForUser returns what the user has paid out and received through
// settlements, in cents
func (s *Service) TotalsForUser(ctx context.Context, userID int64) (paid, received int64, err error) {
	paid, err = s.repo.TotalPaidByUser(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	received, err = s.repo.TotalReceivedByUser(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	return paid, received, nil
}
