package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/equalpay/equalpay/internal/expense/split"
	"github.com/equalpay/equalpay/internal/group"
	"github.com/equalpay/equalpay/pkg/money"
)

// Common errors
var (
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrGroupNotFound        = errors.New("group not found")
	ErrPayerNotMember       = errors.New("payer must be a member of the group")
	ErrParticipantNotMember = errors.New("all participants must be members of the group")
	ErrFutureExpenseDate    = errors.New("expense date cannot be in the future")
	ErrInvalidCategory      = errors.New("invalid expense category")
	ErrNotPayer             = errors.New("only the payer can modify this expense")
)

// Service handles expense business logic
type Service struct {
	repo         *Repository
	groupRepo    *group.Repository
	splitFactory *split.Factory
}

// NewService creates a new expense service with dependencies injected
func NewService(repo *Repository, groupRepo *group.Repository, splitFactory *split.Factory) *Service {
	return &Service{
		repo:         repo,
		groupRepo:    groupRepo,
		splitFactory: splitFactory,
	}
}

// Create validates and persists a new expense. Split inputs are run through
// the calculator before anything is written, so a malformed split never
// reaches the database.
func (s *Service) Create(ctx context.Context, payerID int64, req *CreateExpenseRequest) (*Expense, []split.SplitOutput, error) {
	e := &Expense{
		GroupID:     req.GroupID,
		PayerID:     payerID,
		Description: req.Description,
		Amount:      money.ToCents(req.Amount),
		SplitType:   split.SplitType(req.SplitType),
		Category:    CategoryOther,
		Notes:       req.Notes,
		ExpenseDate: time.Now(),
	}
	if req.Category != "" {
		e.Category = Category(req.Category)
	}
	if req.ExpenseDate != nil {
		e.ExpenseDate = *req.ExpenseDate
	}

	e.Participants = make([]*Participant, len(req.Participants))
	for i, p := range req.Participants {
		e.Participants[i] = p.ToParticipant()
	}

	if err := s.validate(ctx, e); err != nil {
		return nil, nil, err
	}

	splits, err := s.ComputeSplits(e)
	if err != nil {
		return nil, nil, err
	}

	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return nil, nil, err
	}

	return created, splits, nil
}

// Update applies the requested changes and revalidates the resulting
// expense as a whole; the ID and group affiliation never change.
func (s *Service) Update(ctx context.Context, id, userID int64, req *UpdateExpenseRequest) (*Expense, []split.SplitOutput, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if e == nil {
		return nil, nil, ErrExpenseNotFound
	}
	if e.PayerID != userID {
		return nil, nil, ErrNotPayer
	}

	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Amount != nil {
		e.Amount = money.ToCents(*req.Amount)
	}
	if req.SplitType != nil {
		e.SplitType = split.SplitType(*req.SplitType)
	}
	if req.Category != nil {
		e.Category = Category(*req.Category)
	}
	if req.Notes != nil {
		e.Notes = req.Notes
	}
	if req.ExpenseDate != nil {
		e.ExpenseDate = *req.ExpenseDate
	}
	if req.Participants != nil {
		e.Participants = make([]*Participant, len(req.Participants))
		for i, p := range req.Participants {
			e.Participants[i] = p.ToParticipant()
		}
	}

	if err := s.validate(ctx, e); err != nil {
		return nil, nil, err
	}

	splits, err := s.ComputeSplits(e)
	if err != nil {
		return nil, nil, err
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, nil, err
	}

	// Reload to pick up joined names for the new participant set
	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return updated, splits, nil
}

// validate enforces the cross-entity invariants: known category, no future
// date, and payer plus every participant a member of the group
func (s *Service) validate(ctx context.Context, e *Expense) error {
	if !e.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, e.Category)
	}
	if e.ExpenseDate.After(time.Now()) {
		return ErrFutureExpenseDate
	}

	g, err := s.groupRepo.GetByID(ctx, e.GroupID)
	if err != nil {
		return err
	}
	if g == nil {
		return ErrGroupNotFound
	}

	members, err := s.groupRepo.MemberIDSet(ctx, e.GroupID)
	if err != nil {
		return err
	}
	if !members[e.PayerID] {
		return ErrPayerNotMember
	}
	for _, p := range e.Participants {
		if !members[p.UserID] {
			return fmt.Errorf("%w: user %d", ErrParticipantNotMember, p.UserID)
		}
	}

	return nil
}

// ComputeSplits derives the per-participant owed amounts from the expense.
// Shares are never read from storage; this is the single source of truth.
func (s *Service) ComputeSplits(e *Expense) ([]split.SplitOutput, error) {
	strategy, err := s.splitFactory.Create(e.SplitType)
	if err != nil {
		return nil, err
	}
	return strategy.Calculate(e.Amount, e.SplitInputs())
}

// GetByID retrieves an expense with its derived splits
func (s *Service) GetByID(ctx context.Context, id int64) (*Expense, []split.SplitOutput, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if e == nil {
		return nil, nil, ErrExpenseNotFound
	}

	splits, err := s.ComputeSplits(e)
	if err != nil {
		return nil, nil, err
	}

	return e, splits, nil
}

// ListByGroupID retrieves expenses for a group
func (s *Service) ListByGroupID(ctx context.Context, groupID int64, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByGroupID(ctx, groupID, perPage, offset)
}

// ListByUserInvolved retrieves recent expenses where the user is the payer
// or a participant, across all their groups
func (s *Service) ListByUserInvolved(ctx context.Context, userID int64, limit int) ([]*Expense, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByUserInvolved(ctx, userID, limit)
}

// Delete removes an expense; only the payer may do so
func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return ErrExpenseNotFound
	}
	if e.PayerID != userID {
		return ErrNotPayer
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrExpenseNotFound
		}
		return err
	}
	return nil
}
