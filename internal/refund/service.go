package refund

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"tripledger/internal/expense"
	"tripledger/internal/ledger"
	"tripledger/internal/trip"
)

// Common errors
var (
	ErrRefundNotFound  = errors.New("refund not found")
	ErrExpenseNotFound = errors.New("expense not found")
	ErrNotCreator      = errors.New("only the refund creator can do this")
)

// Service handles refund business logic. A refund is validated against its
// expense and everything already refunded on it, so the refunded total can
// never exceed what was paid.
type Service struct {
	repo     *Repository
	expenses *expense.Repository
	trips    *trip.Repository
}

// NewService creates a new refund service
func NewService(repo *Repository, expenses *expense.Repository, trips *trip.Repository) *Service {
	return &Service{repo: repo, expenses: expenses, trips: trips}
}

// Create records a refund against an expense
func (s *Service) Create(ctx context.Context, callerID string, req *CreateRefundRequest) (*ledger.Refund, error) {
	e, err := s.visibleExpense(ctx, req.ExpenseID, callerID)
	if err != nil {
		return nil, err
	}

	existing, err := s.expenses.RefundsByExpenseID(ctx, e.ID)
	if err != nil {
		return nil, err
	}

	amount, err := ledger.ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	record, err := ledger.NewRefund(e, existing, newID("ref_"), amount, req.Reason, req.Recipients, callerID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, record)
}

// ListByExpense retrieves all refunds of an expense in creation order
func (s *Service) ListByExpense(ctx context.Context, expenseID, callerID string) ([]ledger.Refund, error) {
	if _, err := s.visibleExpense(ctx, expenseID, callerID); err != nil {
		return nil, err
	}
	return s.expenses.RefundsByExpenseID(ctx, expenseID)
}

// Delete removes a refund; refund creator only
func (s *Service) Delete(ctx context.Context, refundID, callerID string) error {
	rf, err := s.repo.GetByID(ctx, refundID)
	if err != nil {
		return err
	}
	if rf == nil {
		return ErrRefundNotFound
	}

	// Membership gates visibility before the creator check.
	if _, err := s.visibleExpense(ctx, rf.ExpenseID, callerID); err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			return ErrRefundNotFound
		}
		return err
	}
	if rf.CreatedBy != callerID {
		return ErrNotCreator
	}

	return s.repo.Delete(ctx, refundID)
}

// visibleExpense loads an expense and hides it from non-members of its trip
func (s *Service) visibleExpense(ctx context.Context, expenseID, callerID string) (*ledger.Expense, error) {
	e, err := s.expenses.GetByID(ctx, expenseID)
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

func newID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
