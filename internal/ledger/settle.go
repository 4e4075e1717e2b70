package ledger

import "sort"

// party is one side of an outstanding balance while planning transfers.
type party struct {
	memberID string
	amount   int64 // remaining cents, always positive
}

// PlanSettlements produces the transfer list that zeroes the given balances.
// Creditors and debtors are each ordered amount-descending with ascending
// member id on ties, then matched greedily largest against largest. The plan
// never exceeds len(balances)-1 transfers and contains no self or zero
// transfers.
func PlanSettlements(balances map[string]int64) []Settlement {
	var creditors, debtors []party
	for id, b := range balances {
		switch {
		case b > 0:
			creditors = append(creditors, party{memberID: id, amount: b})
		case b < 0:
			debtors = append(debtors, party{memberID: id, amount: -b})
		}
	}
	sortParties(creditors)
	sortParties(debtors)

	settlements := []Settlement{}
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		amount := min(creditors[i].amount, debtors[j].amount)
		settlements = append(settlements, Settlement{
			FromMemberID: debtors[j].memberID,
			ToMemberID:   creditors[i].memberID,
			Amount:       Money{Cents: amount},
		})
		creditors[i].amount -= amount
		debtors[j].amount -= amount
		if creditors[i].amount == 0 {
			i++
		}
		if debtors[j].amount == 0 {
			j++
		}
	}
	return settlements
}

func sortParties(ps []party) {
	sort.Slice(ps, func(a, b int) bool {
		if ps[a].amount != ps[b].amount {
			return ps[a].amount > ps[b].amount
		}
		return ps[a].memberID < ps[b].memberID
	})
}
