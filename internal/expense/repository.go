package expense

import (
	"context"
	"database/sql"
	"fmt"

	"tripledger/internal/ledger"
)

// Repository handles expense persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an expense together with its payer and split rows
func (r *Repository) Create(ctx context.Context, e *ledger.Expense) (*ledger.Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO expenses (id, trip_id, description, currency, total_cents, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	created := *e
	err = tx.QueryRowContext(ctx, query,
		e.ID, e.TripID, e.Description, e.Currency, e.Total.Cents, e.CreatedBy,
	).Scan(&created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	payerQuery := `
		INSERT INTO expense_payers (expense_id, member_id, amount_cents)
		VALUES ($1, $2, $3)
	`
	for _, p := range e.Payers {
		if _, err := tx.ExecContext(ctx, payerQuery, e.ID, p.MemberID, p.Amount.Cents); err != nil {
			return nil, fmt.Errorf("failed to create payer row: %w", err)
		}
	}

	splitQuery := `
		INSERT INTO expense_splits (expense_id, member_id, amount_cents)
		VALUES ($1, $2, $3)
	`
	for _, s := range e.Splits {
		if _, err := tx.ExecContext(ctx, splitQuery, e.ID, s.MemberID, s.Amount.Cents); err != nil {
			return nil, fmt.Errorf("failed to create split row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}

	return &created, nil
}

// GetByID retrieves an expense with its payer and split rows
func (r *Repository) GetByID(ctx context.Context, id string) (*ledger.Expense, error) {
	query := `
		SELECT id, trip_id, description, currency, total_cents, created_by, created_at
		FROM expenses
		WHERE id = $1
	`

	e := &ledger.Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID,
		&e.TripID,
		&e.Description,
		&e.Currency,
		&e.Total.Cents,
		&e.CreatedBy,
		&e.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	payerQuery := `
		SELECT member_id, amount_cents
		FROM expense_payers
		WHERE expense_id = $1
		ORDER BY member_id
	`
	payerRows, err := r.db.QueryContext(ctx, payerQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get payers: %w", err)
	}
	defer payerRows.Close()

	for payerRows.Next() {
		var p ledger.PayerShare
		if err := payerRows.Scan(&p.MemberID, &p.Amount.Cents); err != nil {
			return nil, fmt.Errorf("failed to scan payer: %w", err)
		}
		e.Payers = append(e.Payers, p)
	}
	if err := payerRows.Err(); err != nil {
		return nil, err
	}

	splitQuery := `
		SELECT member_id, amount_cents
		FROM expense_splits
		WHERE expense_id = $1
		ORDER BY member_id
	`
	splitRows, err := r.db.QueryContext(ctx, splitQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var s ledger.SplitShare
		if err := splitRows.Scan(&s.MemberID, &s.Amount.Cents); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		e.Splits = append(e.Splits, s)
	}

	return e, splitRows.Err()
}

// Delete removes an expense; payer, split and refund rows cascade
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrExpenseNotFound
	}

	return nil
}

// RefundsByExpenseID retrieves an expense's refunds with their recipients,
// ordered by creation time.
func (r *Repository) RefundsByExpenseID(ctx context.Context, expenseID string) ([]ledger.Refund, error) {
	query := `
		SELECT id, expense_id, amount_cents, reason, created_by, created_at
		FROM refunds
		WHERE expense_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get refunds: %w", err)
	}
	defer rows.Close()

	var refunds []ledger.Refund
	index := make(map[string]int)
	for rows.Next() {
		var rf ledger.Refund
		if err := rows.Scan(&rf.ID, &rf.ExpenseID, &rf.Amount.Cents, &rf.Reason, &rf.CreatedBy, &rf.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan refund: %w", err)
		}
		index[rf.ID] = len(refunds)
		refunds = append(refunds, rf)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recipientQuery := `
		SELECT rr.refund_id, rr.member_id
		FROM refund_recipients rr
		JOIN refunds rf ON rf.id = rr.refund_id
		WHERE rf.expense_id = $1
		ORDER BY rr.refund_id, rr.member_id
	`
	recipientRows, err := r.db.QueryContext(ctx, recipientQuery, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get refund recipients: %w", err)
	}
	defer recipientRows.Close()

	for recipientRows.Next() {
		var refundID, memberID string
		if err := recipientRows.Scan(&refundID, &memberID); err != nil {
			return nil, fmt.Errorf("failed to scan refund recipient: %w", err)
		}
		if i, ok := index[refundID]; ok {
			refunds[i].Recipients = append(refunds[i].Recipients, memberID)
		}
	}

	return refunds, recipientRows.Err()
}
