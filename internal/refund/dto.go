package refund

import (
	"time"

	"tripledger/internal/ledger"
)

// CreateRefundRequest represents the request to record a refund
type CreateRefundRequest struct {
	ExpenseID  string   `json:"expense_id" validate:"required"`
	Amount     string   `json:"amount" validate:"required"`
	Reason     string   `json:"reason,omitempty"`
	Recipients []string `json:"recipients" validate:"required,min=1"`
}

// RefundResponse represents the response for a refund
type RefundResponse struct {
	ID         string   `json:"id"`
	ExpenseID  string   `json:"expense_id"`
	Amount     string   `json:"amount"`
	Reason     string   `json:"reason,omitempty"`
	Recipients []string `json:"recipients"`
	CreatedBy  string   `json:"created_by"`
	CreatedAt  string   `json:"created_at"`
}

// ToResponse converts a refund record to a RefundResponse DTO
func ToResponse(r *ledger.Refund) *RefundResponse {
	return &RefundResponse{
		ID:         r.ID,
		ExpenseID:  r.ExpenseID,
		Amount:     r.Amount.String(),
		Reason:     r.Reason,
		Recipients: r.Recipients,
		CreatedBy:  r.CreatedBy,
		CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
	}
}
