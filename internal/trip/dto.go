package trip

import (
	"time"

	"tripledger/internal/ledger"
)

// CreateTripRequest represents the request to create a new trip
type CreateTripRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description,omitempty"`
	Currency    string `json:"currency" validate:"required,len=3"`
	CreatorName string `json:"creator_name" validate:"required,min=1,max=100"`
}

// AddMemberRequest represents the request to add a member to a trip.
// MemberID is optional; guests get a generated id.
type AddMemberRequest struct {
	MemberID string `json:"member_id,omitempty"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
}

// CurrencyResponse represents one supported currency
type CurrencyResponse struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// MemberResponse represents a member in a trip response
type MemberResponse struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
}

// TripResponse represents the response for a trip
type TripResponse struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Currency      string            `json:"currency"`
	CreatedBy     string            `json:"created_by"`
	CreatedAt     string            `json:"created_at"`
	Members       []*MemberResponse `json:"members,omitempty"`
	TotalExpenses string            `json:"total_expenses,omitempty"`
	YourBalance   string            `json:"your_balance,omitempty"`
}

// BalanceResponse represents one member's signed net position
type BalanceResponse struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
	Balance  string `json:"balance"` // positive = owed money, negative = owes money
}

// SettlementResponse represents one suggested payment
type SettlementResponse struct {
	FromMemberID string `json:"from_member_id"`
	FromName     string `json:"from_name"`
	ToMemberID   string `json:"to_member_id"`
	ToName       string `json:"to_name"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
}

// SummaryResponse represents the trip's full ledger answer
type SummaryResponse struct {
	Currency      string                `json:"currency"`
	Balances      []*BalanceResponse    `json:"balances"`
	Settlements   []*SettlementResponse `json:"settlements"`
	TotalExpenses string                `json:"total_expenses"`
	TotalRefunded string                `json:"total_refunded"`
	NetExpenses   string                `json:"net_expenses"`
}

// ToResponse converts a Trip model to a TripResponse DTO
func (t *Trip) ToResponse(members []*Member) *TripResponse {
	resp := &TripResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Currency:    t.Currency,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
	}
	for _, m := range members {
		resp.Members = append(resp.Members, &MemberResponse{MemberID: m.MemberID, Name: m.Name})
	}
	return resp
}

// ToResponse converts a trip Overview to a TripResponse DTO
func (o *Overview) ToResponse() *TripResponse {
	resp := o.Trip.ToResponse(o.Members)
	resp.TotalExpenses = o.TotalExpenses.String()
	resp.YourBalance = o.YourBalance.String()
	return resp
}

// SummaryToResponse converts an engine TripSummary into DTO form, resolving
// member ids to display names.
func SummaryToResponse(summary *ledger.TripSummary, members []*Member) *SummaryResponse {
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.MemberID] = m.Name
	}

	resp := &SummaryResponse{
		Currency:      summary.Currency,
		Balances:      make([]*BalanceResponse, len(summary.Balances)),
		Settlements:   make([]*SettlementResponse, len(summary.Settlements)),
		TotalExpenses: summary.TotalExpenses.String(),
		TotalRefunded: summary.TotalRefunded.String(),
		NetExpenses:   summary.NetExpenses.String(),
	}
	for i, b := range summary.Balances {
		resp.Balances[i] = &BalanceResponse{
			MemberID: b.MemberID,
			Name:     names[b.MemberID],
			Balance:  b.Amount.String(),
		}
	}
	for i, s := range summary.Settlements {
		resp.Settlements[i] = &SettlementResponse{
			FromMemberID: s.FromMemberID,
			FromName:     names[s.FromMemberID],
			ToMemberID:   s.ToMemberID,
			ToName:       names[s.ToMemberID],
			Amount:       s.Amount.String(),
			Currency:     summary.Currency,
		}
	}
	return resp
}
