package expense

import "tripledger/internal/ledger"

// The expense domain model is the ledger's own value object: validation at
// construction is the whole point of the record, so there is nothing for a
// second struct to add. The repository persists and rehydrates
// ledger.Expense directly.

// WithRefunds pairs an expense with the refunds attached to it.
type WithRefunds struct {
	Expense *ledger.Expense
	Refunds []ledger.Refund
}

// NetAmount is the expense total minus everything refunded so far.
func (w *WithRefunds) NetAmount() ledger.Money {
	return w.Expense.Total.Sub(ledger.RefundedTotal(w.Refunds))
}
