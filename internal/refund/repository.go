package refund

import (
	"context"
	"database/sql"
	"fmt"

	"tripledger/internal/ledger"
)

// Repository handles refund persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new refund repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a refund together with its recipient rows
func (r *Repository) Create(ctx context.Context, rf *ledger.Refund) (*ledger.Refund, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO refunds (id, expense_id, amount_cents, reason, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	created := *rf
	err = tx.QueryRowContext(ctx, query,
		rf.ID, rf.ExpenseID, rf.Amount.Cents, rf.Reason, rf.CreatedBy,
	).Scan(&created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create refund: %w", err)
	}

	recipientQuery := `
		INSERT INTO refund_recipients (refund_id, member_id)
		VALUES ($1, $2)
	`
	for _, memberID := range rf.Recipients {
		if _, err := tx.ExecContext(ctx, recipientQuery, rf.ID, memberID); err != nil {
			return nil, fmt.Errorf("failed to create recipient row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit refund: %w", err)
	}

	return &created, nil
}

// GetByID retrieves a refund with its recipients
func (r *Repository) GetByID(ctx context.Context, id string) (*ledger.Refund, error) {
	query := `
		SELECT id, expense_id, amount_cents, reason, created_by, created_at
		FROM refunds
		WHERE id = $1
	`

	rf := &ledger.Refund{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rf.ID,
		&rf.ExpenseID,
		&rf.Amount.Cents,
		&rf.Reason,
		&rf.CreatedBy,
		&rf.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get refund: %w", err)
	}

	recipientQuery := `
		SELECT member_id
		FROM refund_recipients
		WHERE refund_id = $1
		ORDER BY member_id
	`
	rows, err := r.db.QueryContext(ctx, recipientQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var memberID string
		if err := rows.Scan(&memberID); err != nil {
			return nil, fmt.Errorf("failed to scan recipient: %w", err)
		}
		rf.Recipients = append(rf.Recipients, memberID)
	}

	return rf, rows.Err()
}

// Delete removes a refund; recipient rows cascade
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM refunds WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete refund: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRefundNotFound
	}

	return nil
}
