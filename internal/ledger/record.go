package ledger

import "time"

// Member is a trip participant, referenced everywhere else by its opaque id.
type Member struct {
	ID   string
	Name string
}

// PayerShare records how much one member put in for an expense.
type PayerShare struct {
	MemberID string
	Amount   Money
}

// SplitShare records one member's original, pre-refund share of an expense.
type SplitShare struct {
	MemberID string
	Amount   Money
}

// Expense is an immutable snapshot of one shared cost. Payer amounts and
// split shares each sum to the total; editing is modeled upstream as delete
// plus recreate.
type Expense struct {
	ID          string
	TripID      string
	Description string
	Currency    string
	Total       Money
	Payers      []PayerShare
	Splits      []SplitShare
	CreatedBy   string
	CreatedAt   time.Time
}

// Refund is an immutable adjustment attached to one expense. Recipients are
// drawn from the expense's split members and share the amount equally.
type Refund struct {
	ID         string
	ExpenseID  string
	Amount     Money
	Reason     string
	Recipients []string
	CreatedBy  string
	CreatedAt  time.Time
}

// NewExpense validates and builds an expense record against the trip's
// current membership.
func NewExpense(members []Member, id, tripID, description, currency string, total Money, payers []PayerShare, splits []SplitShare, createdBy string, createdAt time.Time) (*Expense, error) {
	if !total.IsPositive() {
		return nil, validationf("expense total must be positive, got %s", total)
	}
	known := memberSet(members)

	if len(payers) == 0 {
		return nil, validationf("expense needs at least one payer")
	}
	var paid Money
	seen := make(map[string]bool, len(payers))
	for _, p := range payers {
		if !p.Amount.IsPositive() {
			return nil, validationf("payer %s amount must be positive, got %s", p.MemberID, p.Amount)
		}
		if !known[p.MemberID] {
			return nil, validationf("payer %s is not a trip member", p.MemberID)
		}
		if seen[p.MemberID] {
			return nil, validationf("payer %s listed twice", p.MemberID)
		}
		seen[p.MemberID] = true
		paid = paid.Add(p.Amount)
	}
	if paid != total {
		return nil, validationf("payer amounts sum to %s, want total %s", paid, total)
	}

	if len(splits) == 0 {
		return nil, validationf("expense needs at least one split")
	}
	var shared Money
	seen = make(map[string]bool, len(splits))
	for _, s := range splits {
		if !s.Amount.IsPositive() {
			return nil, validationf("split share for %s must be positive, got %s", s.MemberID, s.Amount)
		}
		if !known[s.MemberID] {
			return nil, validationf("split member %s is not a trip member", s.MemberID)
		}
		if seen[s.MemberID] {
			return nil, validationf("split member %s listed twice", s.MemberID)
		}
		seen[s.MemberID] = true
		shared = shared.Add(s.Amount)
	}
	if shared != total {
		return nil, validationf("split shares sum to %s, want total %s", shared, total)
	}

	return &Expense{
		ID:          id,
		TripID:      tripID,
		Description: description,
		Currency:    currency,
		Total:       total,
		Payers:      payers,
		Splits:      splits,
		CreatedBy:   createdBy,
		CreatedAt:   createdAt,
	}, nil
}

// NewRefund validates and builds a refund against its expense and the
// refunds already attached to it. A refund may never push the refunded total
// past the amount originally paid.
func NewRefund(expense *Expense, existing []Refund, id string, amount Money, reason string, recipients []string, createdBy string, createdAt time.Time) (*Refund, error) {
	if !amount.IsPositive() {
		return nil, validationf("refund amount must be positive, got %s", amount)
	}

	remaining := expense.Total
	for _, r := range existing {
		remaining = remaining.Sub(r.Amount)
	}
	if amount.Cents > remaining.Cents {
		return nil, validationf("refund %s exceeds remaining unrefunded amount %s", amount, remaining)
	}

	if len(recipients) == 0 {
		return nil, validationf("refund needs at least one recipient")
	}
	splitMembers := make(map[string]bool, len(expense.Splits))
	for _, s := range expense.Splits {
		splitMembers[s.MemberID] = true
	}
	seen := make(map[string]bool, len(recipients))
	for _, id := range recipients {
		if !splitMembers[id] {
			return nil, validationf("recipient %s is not in the expense split", id)
		}
		if seen[id] {
			return nil, validationf("recipient %s listed twice", id)
		}
		seen[id] = true
	}

	return &Refund{
		ID:         id,
		ExpenseID:  expense.ID,
		Amount:     amount,
		Reason:     reason,
		Recipients: recipients,
		CreatedBy:  createdBy,
		CreatedAt:  createdAt,
	}, nil
}

// RefundedTotal sums the amounts of the given refunds.
func RefundedTotal(refunds []Refund) Money {
	var total Money
	for _, r := range refunds {
		total = total.Add(r.Amount)
	}
	return total
}

func memberSet(members []Member) map[string]bool {
	known := make(map[string]bool, len(members))
	for _, m := range members {
		known[m.ID] = true
	}
	return known
}
