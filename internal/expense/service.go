package expense

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"tripledger/internal/ledger"
	"tripledger/internal/trip"
)

// Common errors
var (
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrTripNotFound     = errors.New("trip not found")
	ErrNotCreator       = errors.New("only the expense creator can do this")
	ErrCurrencyMismatch = errors.New("expense currency does not match trip currency")
)

// Service handles expense business logic. It leans on the trip repository
// for membership checks: every expense operation is scoped to callers who
// belong to the trip, and outsiders see not-found rather than forbidden.
type Service struct {
	repo  *Repository
	trips *trip.Repository
}

// NewService creates a new expense service
func NewService(repo *Repository, trips *trip.Repository) *Service {
	return &Service{repo: repo, trips: trips}
}

// Create records a new expense on a trip. The record is validated before it
// touches the database: payers and splits must reference trip members and
// sum to the total.
func (s *Service) Create(ctx context.Context, callerID string, req *CreateExpenseRequest) (*WithRefunds, error) {
	t, members, err := s.requireMember(ctx, req.TripID, callerID)
	if err != nil {
		return nil, err
	}

	if strings.ToUpper(req.Currency) != t.Currency {
		return nil, ErrCurrencyMismatch
	}

	ledgerMembers := make([]ledger.Member, len(members))
	for i, m := range members {
		ledgerMembers[i] = ledger.Member{ID: m.MemberID, Name: m.Name}
	}

	record, err := req.ToRecord(ledgerMembers, newID("exp_"), callerID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	record.Currency = t.Currency

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return &WithRefunds{Expense: created}, nil
}

// Get retrieves an expense with its refunds; only trip members can see it
func (s *Service) Get(ctx context.Context, expenseID, callerID string) (*WithRefunds, error) {
	e, err := s.visibleExpense(ctx, expenseID, callerID)
	if err != nil {
		return nil, err
	}

	refunds, err := s.repo.RefundsByExpenseID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	return &WithRefunds{Expense: e, Refunds: refunds}, nil
}

// ListByTrip retrieves all expenses of a trip with their refunds attached
func (s *Service) ListByTrip(ctx context.Context, tripID, callerID string) ([]*WithRefunds, error) {
	if _, _, err := s.requireMember(ctx, tripID, callerID); err != nil {
		return nil, err
	}

	expenses, err := s.trips.LedgerExpenses(ctx, tripID)
	if err != nil {
		return nil, err
	}
	refunds, err := s.trips.LedgerRefunds(ctx, tripID)
	if err != nil {
		return nil, err
	}

	byExpense := make(map[string][]ledger.Refund)
	for _, rf := range refunds {
		byExpense[rf.ExpenseID] = append(byExpense[rf.ExpenseID], rf)
	}

	result := make([]*WithRefunds, len(expenses))
	for i := range expenses {
		result[i] = &WithRefunds{Expense: &expenses[i], Refunds: byExpense[expenses[i].ID]}
	}
	return result, nil
}

// Delete removes an expense and its refunds; expense creator only
func (s *Service) Delete(ctx context.Context, expenseID, callerID string) error {
	e, err := s.visibleExpense(ctx, expenseID, callerID)
	if err != nil {
		return err
	}
	if e.CreatedBy != callerID {
		return ErrNotCreator
	}

	return s.repo.Delete(ctx, expenseID)
}

// visibleExpense loads an expense and hides it from non-members of its trip
func (s *Service) visibleExpense(ctx context.Context, expenseID, callerID string) (*ledger.Expense, error) {
	e, err := s.repo.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}

	member, err := s.trips.GetMember(ctx, e.TripID, callerID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrExpenseNotFound
	}
	return e, nil
}

func (s *Service) requireMember(ctx context.Context, tripID, callerID string) (*trip.Trip, []*trip.Member, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	if t == nil {
		return nil, nil, ErrTripNotFound
	}

	member, err := s.trips.GetMember(ctx, tripID, callerID)
	if err != nil {
		return nil, nil, err
	}
	if member == nil {
		return nil, nil, ErrTripNotFound
	}

	members, err := s.trips.GetMembers(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	return t, members, nil
}

func newID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
