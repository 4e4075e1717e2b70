// Package ledger converts a trip's expense and refund records into
// per-member balances and a minimal settlement plan. It is pure computation
// over values supplied by the caller: no storage, no I/O, and identical
// inputs always yield identical output, ordering included.
package ledger

import "sort"

// Balance is one member's signed net position within a trip. Positive means
// the member is owed money, negative means the member owes money.
type Balance struct {
	MemberID string
	Amount   Money
}

// Settlement is a directed payment instruction from a debtor to a creditor.
type Settlement struct {
	FromMemberID string
	ToMemberID   string
	Amount       Money
}

// TripSummary is the engine's full answer for one trip. Balances are ordered
// by ascending member id, settlements by plan order.
type TripSummary struct {
	Currency      string
	Balances      []Balance
	Settlements   []Settlement
	TotalExpenses Money
	TotalRefunded Money
	NetExpenses   Money
}

// ComputeTripSummary derives balances, a settlement plan, and trip totals
// from a trip's members, expenses, and refunds. The assembled input set is
// re-validated even when record construction already checked each piece.
// Balances summing to anything but zero yields an *InvariantError and no
// partial result.
func ComputeTripSummary(currency string, members []Member, expenses []Expense, refunds []Refund) (*TripSummary, error) {
	known := make(map[string]bool, len(members))
	for _, m := range members {
		if m.ID == "" {
			return nil, validationf("member with empty id")
		}
		if known[m.ID] {
			return nil, validationf("duplicate member id %s", m.ID)
		}
		known[m.ID] = true
	}

	expenseIDs := make(map[string]bool, len(expenses))
	var gross Money
	for _, e := range expenses {
		if e.Currency != currency {
			return nil, validationf("expense %s has currency %s, trip uses %s", e.ID, e.Currency, currency)
		}
		for _, p := range e.Payers {
			if !known[p.MemberID] {
				return nil, validationf("expense %s references unknown payer %s", e.ID, p.MemberID)
			}
		}
		for _, s := range e.Splits {
			if !known[s.MemberID] {
				return nil, validationf("expense %s references unknown split member %s", e.ID, s.MemberID)
			}
		}
		expenseIDs[e.ID] = true
		gross = gross.Add(e.Total)
	}

	refundsByExpense := make(map[string][]Refund, len(expenses))
	var refunded Money
	for _, r := range refunds {
		if !expenseIDs[r.ExpenseID] {
			return nil, validationf("refund %s references unknown expense %s", r.ID, r.ExpenseID)
		}
		for _, id := range r.Recipients {
			if !known[id] {
				return nil, validationf("refund %s references unknown recipient %s", r.ID, id)
			}
		}
		refundsByExpense[r.ExpenseID] = append(refundsByExpense[r.ExpenseID], r)
		refunded = refunded.Add(r.Amount)
	}

	cents := computeBalances(members, expenses, refundsByExpense)

	var sum int64
	for _, b := range cents {
		sum += b
	}
	if sum != 0 {
		return nil, invariantf("trip balances sum to %d cents, want 0", sum)
	}

	ids := make([]string, 0, len(cents))
	for id := range cents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	balances := make([]Balance, len(ids))
	for i, id := range ids {
		balances[i] = Balance{MemberID: id, Amount: Money{Cents: cents[id]}}
	}

	return &TripSummary{
		Currency:      currency,
		Balances:      balances,
		Settlements:   PlanSettlements(cents),
		TotalExpenses: gross,
		TotalRefunded: refunded,
		NetExpenses:   gross.Sub(refunded),
	}, nil
}
