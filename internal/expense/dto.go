package expense

import (
	"time"

	"tripledger/internal/ledger"
)

// ShareInput is one (member, amount) pair in an expense request. Amounts are
// decimal strings ("12.34") and are parsed to cents at this boundary.
type ShareInput struct {
	MemberID string `json:"member_id" validate:"required"`
	Amount   string `json:"amount" validate:"required"`
}

// CreateExpenseRequest represents the request to create an expense
type CreateExpenseRequest struct {
	TripID      string       `json:"trip_id" validate:"required"`
	Description string       `json:"description" validate:"required,min=1,max=255"`
	Currency    string       `json:"currency" validate:"required,len=3"`
	TotalAmount string       `json:"total_amount" validate:"required"`
	Payers      []ShareInput `json:"payers" validate:"required,min=1"`
	Splits      []ShareInput `json:"splits" validate:"required,min=1"`
}

// ToRecord parses the request amounts and builds a validated ledger record.
// Every failure comes back as a *ledger.ValidationError.
func (r *CreateExpenseRequest) ToRecord(members []ledger.Member, id, createdBy string, createdAt time.Time) (*ledger.Expense, error) {
	total, err := ledger.ParseAmount(r.TotalAmount)
	if err != nil {
		return nil, err
	}

	payers := make([]ledger.PayerShare, len(r.Payers))
	for i, p := range r.Payers {
		amount, err := ledger.ParseAmount(p.Amount)
		if err != nil {
			return nil, err
		}
		payers[i] = ledger.PayerShare{MemberID: p.MemberID, Amount: amount}
	}

	splits := make([]ledger.SplitShare, len(r.Splits))
	for i, s := range r.Splits {
		amount, err := ledger.ParseAmount(s.Amount)
		if err != nil {
			return nil, err
		}
		splits[i] = ledger.SplitShare{MemberID: s.MemberID, Amount: amount}
	}

	return ledger.NewExpense(members, id, r.TripID, r.Description, r.Currency, total, payers, splits, createdBy, createdAt)
}

// ShareResponse is one (member, amount) pair in an expense response
type ShareResponse struct {
	MemberID string `json:"member_id"`
	Amount   string `json:"amount"`
}

// RefundSummary is the short refund form embedded in expense responses
type RefundSummary struct {
	ID         string   `json:"id"`
	Amount     string   `json:"amount"`
	Reason     string   `json:"reason,omitempty"`
	Recipients []string `json:"recipients"`
	CreatedBy  string   `json:"created_by"`
	CreatedAt  string   `json:"created_at"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID          string           `json:"id"`
	TripID      string           `json:"trip_id"`
	Description string           `json:"description"`
	Currency    string           `json:"currency"`
	TotalAmount string           `json:"total_amount"`
	Payers      []*ShareResponse `json:"payers"`
	Splits      []*ShareResponse `json:"splits"`
	Refunds     []*RefundSummary `json:"refunds"`
	NetAmount   string           `json:"net_amount"`
	CreatedBy   string           `json:"created_by"`
	CreatedAt   string           `json:"created_at"`
}

// ToResponse converts an expense with its refunds to an ExpenseResponse DTO
func (w *WithRefunds) ToResponse() *ExpenseResponse {
	e := w.Expense
	resp := &ExpenseResponse{
		ID:          e.ID,
		TripID:      e.TripID,
		Description: e.Description,
		Currency:    e.Currency,
		TotalAmount: e.Total.String(),
		Payers:      make([]*ShareResponse, len(e.Payers)),
		Splits:      make([]*ShareResponse, len(e.Splits)),
		Refunds:     make([]*RefundSummary, len(w.Refunds)),
		NetAmount:   w.NetAmount().String(),
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
	}
	for i, p := range e.Payers {
		resp.Payers[i] = &ShareResponse{MemberID: p.MemberID, Amount: p.Amount.String()}
	}
	for i, s := range e.Splits {
		resp.Splits[i] = &ShareResponse{MemberID: s.MemberID, Amount: s.Amount.String()}
	}
	for i, r := range w.Refunds {
		resp.Refunds[i] = &RefundSummary{
			ID:         r.ID,
			Amount:     r.Amount.String(),
			Reason:     r.Reason,
			Recipients: r.Recipients,
			CreatedBy:  r.CreatedBy,
			CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return resp
}
