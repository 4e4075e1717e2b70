package trip

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"tripledger/internal/ledger"
)

// Common errors
var (
	ErrTripNotFound        = errors.New("trip not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("member is already in this trip")
	ErrNotCreator          = errors.New("only the trip creator can do this")
	ErrCannotRemoveSelf    = errors.New("cannot remove yourself from the trip")
	ErrMemberHasRecords    = errors.New("member is referenced by expenses or refunds")
)

// Service handles trip business logic and is the call site of the ledger
// engine: it assembles a trip's members, expenses, and refunds and asks the
// engine for balances and settlements.
type Service struct {
	repo *Repository
}

// NewService creates a new trip service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Overview is one entry of a member's trip list
type Overview struct {
	Trip          *Trip
	Members       []*Member
	TotalExpenses ledger.Money
	YourBalance   ledger.Money
}

// Create creates a new trip with the caller as its first member
func (s *Service) Create(ctx context.Context, creatorID string, req *CreateTripRequest) (*Trip, []*Member, error) {
	trip := &Trip{
		ID:          newID("trip_"),
		Name:        req.Name,
		Description: req.Description,
		Currency:    strings.ToUpper(req.Currency),
		CreatedBy:   creatorID,
	}
	creator := &Member{MemberID: creatorID, Name: req.CreatorName}

	created, err := s.repo.Create(ctx, trip, creator)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.GetMembers(ctx, created.ID)
	if err != nil {
		return nil, nil, err
	}
	return created, members, nil
}

// Get retrieves a trip with its members; non-members get a not-found
func (s *Service) Get(ctx context.Context, tripID, callerID string) (*Trip, []*Member, error) {
	trip, err := s.requireMember(ctx, tripID, callerID)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.GetMembers(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	return trip, members, nil
}

// List retrieves the caller's trips with gross total and caller balance
func (s *Service) List(ctx context.Context, callerID string) ([]*Overview, error) {
	trips, err := s.repo.ListByMemberID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	overviews := make([]*Overview, 0, len(trips))
	for _, t := range trips {
		members, summary, err := s.summarize(ctx, t)
		if err != nil {
			return nil, err
		}

		var yours ledger.Money
		for _, b := range summary.Balances {
			if b.MemberID == callerID {
				yours = b.Amount
				break
			}
		}

		overviews = append(overviews, &Overview{
			Trip:          t,
			Members:       members,
			TotalExpenses: summary.TotalExpenses,
			YourBalance:   yours,
		})
	}
	return overviews, nil
}

// Delete removes a trip and everything attached to it; creator only
func (s *Service) Delete(ctx context.Context, tripID, callerID string) error {
	trip, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return err
	}
	if trip == nil {
		return ErrTripNotFound
	}
	if trip.CreatedBy != callerID {
		return ErrNotCreator
	}

	return s.repo.Delete(ctx, tripID)
}

// AddMember adds a member to a trip. Without an explicit id the member gets
// a generated guest id, mirroring invites of people without an account.
func (s *Service) AddMember(ctx context.Context, tripID, callerID string, req *AddMemberRequest) (*Member, error) {
	if _, err := s.requireMember(ctx, tripID, callerID); err != nil {
		return nil, err
	}

	memberID := req.MemberID
	if memberID == "" {
		memberID = newID("guest_")
	} else {
		existing, err := s.repo.GetMember(ctx, tripID, memberID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrMemberAlreadyExists
		}
	}

	return s.repo.AddMember(ctx, tripID, &Member{MemberID: memberID, Name: req.Name})
}

// RemoveMember removes a member from a trip; creator only. Members still
// referenced by expenses or refunds cannot be removed, otherwise the ledger
// would stop balancing.
func (s *Service) RemoveMember(ctx context.Context, tripID, callerID, memberID string) error {
	trip, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return err
	}
	if trip == nil {
		return ErrTripNotFound
	}
	if trip.CreatedBy != callerID {
		return ErrNotCreator
	}
	if memberID == callerID {
		return ErrCannotRemoveSelf
	}

	member, err := s.repo.GetMember(ctx, tripID, memberID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrMemberNotFound
	}

	has, err := s.repo.MemberHasRecords(ctx, tripID, memberID)
	if err != nil {
		return err
	}
	if has {
		return ErrMemberHasRecords
	}

	return s.repo.RemoveMember(ctx, tripID, memberID)
}

// Summary computes the trip's full ledger answer: balances, settlement
// plan, and totals.
func (s *Service) Summary(ctx context.Context, tripID, callerID string) (*ledger.TripSummary, []*Member, error) {
	trip, err := s.requireMember(ctx, tripID, callerID)
	if err != nil {
		return nil, nil, err
	}

	members, summary, err := s.summarize(ctx, trip)
	if err != nil {
		return nil, nil, err
	}
	return summary, members, nil
}

func (s *Service) summarize(ctx context.Context, trip *Trip) ([]*Member, *ledger.TripSummary, error) {
	members, err := s.repo.GetMembers(ctx, trip.ID)
	if err != nil {
		return nil, nil, err
	}
	expenses, err := s.repo.LedgerExpenses(ctx, trip.ID)
	if err != nil {
		return nil, nil, err
	}
	refunds, err := s.repo.LedgerRefunds(ctx, trip.ID)
	if err != nil {
		return nil, nil, err
	}

	ledgerMembers := make([]ledger.Member, len(members))
	for i, m := range members {
		ledgerMembers[i] = ledger.Member{ID: m.MemberID, Name: m.Name}
	}

	summary, err := ledger.ComputeTripSummary(trip.Currency, ledgerMembers, expenses, refunds)
	if err != nil {
		return nil, nil, err
	}
	return members, summary, nil
}

func (s *Service) requireMember(ctx context.Context, tripID, callerID string) (*Trip, error) {
	trip, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, ErrTripNotFound
	}

	member, err := s.repo.GetMember(ctx, tripID, callerID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		// Trips are invisible to non-members.
		return nil, ErrTripNotFound
	}
	return trip, nil
}

func newID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
