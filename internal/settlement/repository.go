package settlement

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles settlement data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const settlementColumns = `s.id, s.group_id, s.debtor_id, s.creditor_id, s.amount_cents, s.notes, s.settled_at, s.created_at, d.name, c.name, g.name`

const settlementJoins = `
	FROM settlements s
	JOIN users d ON s.debtor_id = d.id
	JOIN users c ON s.creditor_id = c.id
	JOIN groups g ON s.group_id = g.id
`

func scanSettlement(row interface{ Scan(...interface{}) error }) (*Settlement, error) {
	s := &Settlement{}
	err := row.Scan(
		&s.ID,
		&s.GroupID,
		&s.DebtorID,
		&s.CreditorID,
		&s.Amount,
		&s.Notes,
		&s.SettledAt,
		&s.CreatedAt,
		&s.DebtorName,
		&s.CreditorName,
		&s.GroupName,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new settlement record
func (r *Repository) Create(ctx context.Context, s *Settlement) (*Settlement, error) {
	query := `
		INSERT INTO settlements (group_id, debtor_id, creditor_id, amount_cents, notes, settled_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		s.GroupID,
		s.DebtorID,
		s.CreditorID,
		s.Amount,
		s.Notes,
		s.SettledAt,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create settlement: %w", err)
	}

	return s, nil
}

// GetByID retrieves a settlement by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Settlement, error) {
	query := `SELECT ` + settlementColumns + settlementJoins + `WHERE s.id = $1`

	s, err := scanSettlement(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	return s, nil
}

// ListByGroupID retrieves all settlements for a group, newest first
func (r *Repository) ListByGroupID(ctx context.Context, groupID int64) ([]*Settlement, error) {
	query := `SELECT ` + settlementColumns + settlementJoins + `WHERE s.group_id = $1 ORDER BY s.settled_at DESC`
	return r.querySettlements(ctx, query, groupID)
}

// ListByUserID retrieves all settlements the user took part in, newest first
func (r *Repository) ListByUserID(ctx context.Context, userID int64) ([]*Settlement, error) {
	query := `SELECT ` + settlementColumns + settlementJoins + `WHERE s.debtor_id = $1 OR s.creditor_id = $1 ORDER BY s.settled_at DESC`
	return r.querySettlements(ctx, query, userID)
}

// Delete removes a settlement record
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM settlements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// TotalSettledByGroup sums all settled amounts in a group, in cents
func (r *Repository) TotalSettledByGroup(ctx context.Context, groupID int64) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(amount_cents), 0) FROM settlements WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, query, groupID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to total settlements: %w", err)
	}
	return total, nil
}

// TotalPaidByUser sums what the user has settled as a debtor, in cents
func (r *Repository) TotalPaidByUser(ctx context.Context, userID int64) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(amount_cents), 0) FROM settlements WHERE debtor_id = $1`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to total paid settlements: %w", err)
	}
	return total, nil
}

// TotalReceivedByUser sums what the user has received as a creditor, in cents
func (r *Repository) TotalReceivedByUser(ctx context.Context, userID int64) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(amount_cents), 0) FROM settlements WHERE creditor_id = $1`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to total received settlements: %w", err)
	}
	return total, nil
}

func (r *Repository) querySettlements(ctx context.Context, query string, args ...interface{}) ([]*Settlement, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*Settlement
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, s)
	}

	return settlements, rows.Err()
}
