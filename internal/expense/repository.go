package expense

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Repository handles expense data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const expenseColumns = `e.id, e.group_id, e.payer_id, e.description, e.amount_cents, e.split_type, e.category, e.notes, e.expense_date, e.created_at, e.updated_at, u.name`

func scanExpense(row interface{ Scan(...interface{}) error }) (*Expense, error) {
	e := &Expense{}
	err := row.Scan(
		&e.ID,
		&e.GroupID,
		&e.PayerID,
		&e.Description,
		&e.Amount,
		&e.SplitType,
		&e.Category,
		&e.Notes,
		&e.ExpenseDate,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.PayerName,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts a new expense and its participants in one transaction
func (r *Repository) Create(ctx context.Context, e *Expense) (*Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO expenses (group_id, payer_id, description, amount_cents, split_type, category, notes, expense_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, query,
		e.GroupID,
		e.PayerID,
		e.Description,
		e.Amount,
		e.SplitType,
		e.Category,
		e.Notes,
		e.ExpenseDate,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	if err := insertParticipants(ctx, tx, e.ID, e.Participants); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}

	return e, nil
}

// Update rewrites an expense's mutable fields and replaces its participant
// set in one transaction
func (r *Repository) Update(ctx context.Context, e *Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE expenses
		SET description = $2, amount_cents = $3, split_type = $4, category = $5, notes = $6, expense_date = $7, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, query,
		e.ID,
		e.Description,
		e.Amount,
		e.SplitType,
		e.Category,
		e.Notes,
		e.ExpenseDate,
	); err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_participants WHERE expense_id = $1`, e.ID); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}

	if err := insertParticipants(ctx, tx, e.ID, e.Participants); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit expense update: %w", err)
	}

	return nil
}

func insertParticipants(ctx context.Context, tx *sql.Tx, expenseID int64, participants []*Participant) error {
	query := `
		INSERT INTO expense_participants (expense_id, user_id, percentage, amount_cents)
		VALUES ($1, $2, $3, $4)
	`
	for _, p := range participants {
		if _, err := tx.ExecContext(ctx, query, expenseID, p.UserID, p.Percentage, p.Amount); err != nil {
			return fmt.Errorf("failed to insert participant %d: %w", p.UserID, err)
		}
	}
	return nil
}

// GetByID retrieves an expense with its participants
func (r *Repository) GetByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.id = $1
	`

	expense, err := scanExpense(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := r.loadParticipants(ctx, []*Expense{expense}); err != nil {
		return nil, err
	}

	return expense, nil
}

// ListByGroupID retrieves a page of expenses for a group, newest first
func (r *Repository) ListByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT ` + expenseColumns + `
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.group_id = $1
		ORDER BY e.expense_date DESC, e.id DESC
		LIMIT $2 OFFSET $3
	`

	expenses, err := r.queryExpenses(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

// ListAllByGroupID retrieves every expense for a group with participants
// loaded. Balance computation needs the full, unpaginated history.
func (r *Repository) ListAllByGroupID(ctx context.Context, groupID int64) ([]*Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.group_id = $1
		ORDER BY e.id
	`
	return r.queryExpenses(ctx, query, groupID)
}

// ListByUserInvolved retrieves recent expenses where the user is the payer
// or a participant, newest first
func (r *Repository) ListByUserInvolved(ctx context.Context, userID int64, limit int) ([]*Expense, error) {
	query := `
		SELECT DISTINCT ` + expenseColumns + `
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		LEFT JOIN expense_participants ep ON ep.expense_id = e.id
		WHERE e.payer_id = $1 OR ep.user_id = $1
		ORDER BY e.expense_date DESC, e.id DESC
		LIMIT $2
	`
	return r.queryExpenses(ctx, query, userID, limit)
}

// ListAllByUserInvolved retrieves every expense where the user is the payer
// or a participant. Spending totals need the full history, so no limit.
func (r *Repository) ListAllByUserInvolved(ctx context.Context, userID int64) ([]*Expense, error) {
	query := `
		SELECT DISTINCT ` + expenseColumns + `
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		LEFT JOIN expense_participants ep ON ep.expense_id = e.id
		WHERE e.payer_id = $1 OR ep.user_id = $1
		ORDER BY e.expense_date DESC, e.id DESC
	`
	return r.queryExpenses(ctx, query, userID)
}

// Delete removes an expense; participants go with it via ON DELETE CASCADE
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *Repository) queryExpenses(ctx context.Context, query string, args ...interface{}) ([]*Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expenses: %w", err)
	}

	if err := r.loadParticipants(ctx, expenses); err != nil {
		return nil, err
	}

	return expenses, nil
}

// loadParticipants attaches participants to the given expenses in one query
func (r *Repository) loadParticipants(ctx context.Context, expenses []*Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	byID := make(map[int64]*Expense, len(expenses))
	ids := make([]int64, len(expenses))
	for i, e := range expenses {
		byID[e.ID] = e
		ids[i] = e.ID
	}

	query := `
		SELECT ep.expense_id, ep.user_id, ep.percentage, ep.amount_cents, u.name
		FROM expense_participants ep
		JOIN users u ON ep.user_id = u.id
		WHERE ep.expense_id = ANY($1)
		ORDER BY ep.user_id
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID int64
		p := &Participant{}
		if err := rows.Scan(&expenseID, &p.UserID, &p.Percentage, &p.Amount, &p.UserName); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		if e, ok := byID[expenseID]; ok {
			e.Participants = append(e.Participants, p)
		}
	}

	return rows.Err()
}
