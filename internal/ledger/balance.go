package ledger

// computeBalances produces signed per-member cents for one trip. Every trip
// member gets an entry, zero included; refundsByExpense is keyed by expense
// id.
func computeBalances(members []Member, expenses []Expense, refundsByExpense map[string][]Refund) map[string]int64 {
	balances := make(map[string]int64, len(members))
	for _, m := range members {
		balances[m.ID] = 0
	}
	for i := range expenses {
		applyExpense(balances, &expenses[i], refundsByExpense[expenses[i].ID])
	}
	return balances
}

// applyExpense folds one expense and its refunds into the running balances:
// payers are credited what they put in, split members are debited their net
// share against the refund-reduced pool, and refund recipients are debited
// what came back to them.
func applyExpense(balances map[string]int64, e *Expense, refunds []Refund) {
	net := e.Total.Cents - RefundedTotal(refunds).Cents

	for _, p := range e.Payers {
		balances[p.MemberID] += p.Amount.Cents
	}

	// Net shares keep the original split ratio: share * net / total, with
	// leftover cents allocated by ascending member id so the parts sum to
	// net exactly.
	shares := make([]share, len(e.Splits))
	for i, s := range e.Splits {
		shares[i] = share{memberID: s.MemberID, weight: s.Amount.Cents}
	}
	for id, part := range allocate(net, e.Total.Cents, shares) {
		balances[id] -= part
	}

	applyRefundDebits(balances, refunds)
}

// applyRefundDebits charges each refund recipient their slice of the cash
// that came back. Shrinking the split base alone accounts for the smaller
// pool of money spent but not for who received the refund; without this
// debit the expense's credits and debits no longer cancel.
func applyRefundDebits(balances map[string]int64, refunds []Refund) {
	for _, r := range refunds {
		for id, part := range splitEvenly(r.Amount.Cents, r.Recipients) {
			balances[id] -= part
		}
	}
}
