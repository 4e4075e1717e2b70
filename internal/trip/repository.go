package trip

import (
	"context"
	"database/sql"
	"fmt"

	"tripledger/internal/ledger"
)

// Repository handles trip and membership persistence. It also loads a trip's
// full ledger view (expenses with payers and splits, refunds with
// recipients) so the service can hand a complete record set to the engine.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new trip repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new trip together with its first member
func (r *Repository) Create(ctx context.Context, trip *Trip, creator *Member) (*Trip, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO trips (id, name, description, currency, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, description, currency, created_by, created_at
	`
	created := &Trip{}
	err = tx.QueryRowContext(ctx, query,
		trip.ID, trip.Name, trip.Description, trip.Currency, trip.CreatedBy,
	).Scan(
		&created.ID,
		&created.Name,
		&created.Description,
		&created.Currency,
		&created.CreatedBy,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	memberQuery := `
		INSERT INTO trip_members (trip_id, member_id, name, position)
		VALUES ($1, $2, $3, 0)
	`
	if _, err := tx.ExecContext(ctx, memberQuery, created.ID, creator.MemberID, creator.Name); err != nil {
		return nil, fmt.Errorf("failed to add creator: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit trip: %w", err)
	}

	return created, nil
}

// GetByID retrieves a trip by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Trip, error) {
	query := `
		SELECT id, name, description, currency, created_by, created_at
		FROM trips
		WHERE id = $1
	`

	trip := &Trip{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&trip.ID,
		&trip.Name,
		&trip.Description,
		&trip.Currency,
		&trip.CreatedBy,
		&trip.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return trip, nil
}

// ListByMemberID retrieves all trips the given member belongs to
func (r *Repository) ListByMemberID(ctx context.Context, memberID string) ([]*Trip, error) {
	query := `
		SELECT t.id, t.name, t.description, t.currency, t.created_by, t.created_at
		FROM trips t
		JOIN trip_members tm ON t.id = tm.trip_id
		WHERE tm.member_id = $1
		ORDER BY t.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*Trip
	for rows.Next() {
		trip := &Trip{}
		if err := rows.Scan(
			&trip.ID,
			&trip.Name,
			&trip.Description,
			&trip.Currency,
			&trip.CreatedBy,
			&trip.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// Delete removes a trip; expenses, refunds and memberships cascade
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrTripNotFound
	}

	return nil
}

// AddMember appends a member at the end of the trip's member list
func (r *Repository) AddMember(ctx context.Context, tripID string, member *Member) (*Member, error) {
	query := `
		INSERT INTO trip_members (trip_id, member_id, name, position)
		VALUES ($1, $2, $3, (SELECT COALESCE(MAX(position), 0) + 1 FROM trip_members WHERE trip_id = $1))
		RETURNING trip_id, member_id, name, position
	`

	added := &Member{}
	err := r.db.QueryRowContext(ctx, query, tripID, member.MemberID, member.Name).Scan(
		&added.TripID,
		&added.MemberID,
		&added.Name,
		&added.Position,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return added, nil
}

// GetMembers retrieves all members of a trip in join order
func (r *Repository) GetMembers(ctx context.Context, tripID string) ([]*Member, error) {
	query := `
		SELECT trip_id, member_id, name, position
		FROM trip_members
		WHERE trip_id = $1
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		member := &Member{}
		if err := rows.Scan(&member.TripID, &member.MemberID, &member.Name, &member.Position); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	return members, rows.Err()
}

// GetMember retrieves one member of a trip
func (r *Repository) GetMember(ctx context.Context, tripID, memberID string) (*Member, error) {
	query := `
		SELECT trip_id, member_id, name, position
		FROM trip_members
		WHERE trip_id = $1 AND member_id = $2
	`

	member := &Member{}
	err := r.db.QueryRowContext(ctx, query, tripID, memberID).Scan(
		&member.TripID,
		&member.MemberID,
		&member.Name,
		&member.Position,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return member, nil
}

// RemoveMember removes a member from a trip
func (r *Repository) RemoveMember(ctx context.Context, tripID, memberID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM trip_members WHERE trip_id = $1 AND member_id = $2`, tripID, memberID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrMemberNotFound
	}

	return nil
}

// MemberHasRecords reports whether the member is referenced by any payer
// row, split row, or refund recipient row within the trip.
func (r *Repository) MemberHasRecords(ctx context.Context, tripID, memberID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM expense_payers ep
			JOIN expenses e ON e.id = ep.expense_id
			WHERE e.trip_id = $1 AND ep.member_id = $2
		) OR EXISTS (
			SELECT 1 FROM expense_splits es
			JOIN expenses e ON e.id = es.expense_id
			WHERE e.trip_id = $1 AND es.member_id = $2
		) OR EXISTS (
			SELECT 1 FROM refund_recipients rr
			JOIN refunds rf ON rf.id = rr.refund_id
			JOIN expenses e ON e.id = rf.expense_id
			WHERE e.trip_id = $1 AND rr.member_id = $2
		)
	`

	var has bool
	if err := r.db.QueryRowContext(ctx, query, tripID, memberID).Scan(&has); err != nil {
		return false, fmt.Errorf("failed to check member records: %w", err)
	}
	return has, nil
}

// LedgerExpenses loads the trip's expenses as engine records, payers and
// splits included, ordered by creation time.
func (r *Repository) LedgerExpenses(ctx context.Context, tripID string) ([]ledger.Expense, error) {
	query := `
		SELECT id, trip_id, description, currency, total_cents, created_by, created_at
		FROM expenses
		WHERE trip_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	defer rows.Close()

	var expenses []ledger.Expense
	index := make(map[string]int)
	for rows.Next() {
		var e ledger.Expense
		if err := rows.Scan(&e.ID, &e.TripID, &e.Description, &e.Currency, &e.Total.Cents, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		index[e.ID] = len(expenses)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	payerQuery := `
		SELECT ep.expense_id, ep.member_id, ep.amount_cents
		FROM expense_payers ep
		JOIN expenses e ON e.id = ep.expense_id
		WHERE e.trip_id = $1
		ORDER BY ep.expense_id, ep.member_id
	`
	payerRows, err := r.db.QueryContext(ctx, payerQuery, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payers: %w", err)
	}
	defer payerRows.Close()

	for payerRows.Next() {
		var expenseID string
		var p ledger.PayerShare
		if err := payerRows.Scan(&expenseID, &p.MemberID, &p.Amount.Cents); err != nil {
			return nil, fmt.Errorf("failed to scan payer: %w", err)
		}
		if i, ok := index[expenseID]; ok {
			expenses[i].Payers = append(expenses[i].Payers, p)
		}
	}
	if err := payerRows.Err(); err != nil {
		return nil, err
	}

	splitQuery := `
		SELECT es.expense_id, es.member_id, es.amount_cents
		FROM expense_splits es
		JOIN expenses e ON e.id = es.expense_id
		WHERE e.trip_id = $1
		ORDER BY es.expense_id, es.member_id
	`
	splitRows, err := r.db.QueryContext(ctx, splitQuery, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to load splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var expenseID string
		var s ledger.SplitShare
		if err := splitRows.Scan(&expenseID, &s.MemberID, &s.Amount.Cents); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if i, ok := index[expenseID]; ok {
			expenses[i].Splits = append(expenses[i].Splits, s)
		}
	}

	return expenses, splitRows.Err()
}

// LedgerRefunds loads the trip's refunds as engine records, recipients
// included, ordered by creation time.
func (r *Repository) LedgerRefunds(ctx context.Context, tripID string) ([]ledger.Refund, error) {
	query := `
		SELECT rf.id, rf.expense_id, rf.amount_cents, rf.reason, rf.created_by, rf.created_at
		FROM refunds rf
		JOIN expenses e ON e.id = rf.expense_id
		WHERE e.trip_id = $1
		ORDER BY rf.created_at, rf.id
	`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to load refunds: %w", err)
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
		JOIN expenses e ON e.id = rf.expense_id
		WHERE e.trip_id = $1
		ORDER BY rr.refund_id, rr.member_id
	`
	recipientRows, err := r.db.QueryContext(ctx, recipientQuery, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to load refund recipients: %w", err)
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
