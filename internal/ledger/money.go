package ledger

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in the smallest currency unit (cents). All ledger
// arithmetic stays on int64 cents; decimals exist only at the parse and
// format boundary.
type Money struct {
	Cents int64
}

var centsPerUnit = decimal.NewFromInt(100)

// ParseAmount converts a decimal string such as "12.34" into Money, rounding
// half-up on anything past the second decimal place.
func ParseAmount(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, validationf("invalid amount %q", s)
	}
	return Money{Cents: d.Mul(centsPerUnit).Round(0).IntPart()}, nil
}

// String renders the amount with exactly two decimal places.
func (m Money) String() string {
	return decimal.New(m.Cents, -2).StringFixed(2)
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

func (m Money) IsPositive() bool { return m.Cents > 0 }

func (m Money) IsZero() bool { return m.Cents == 0 }

// share is one member's weight in a proportional allocation.
type share struct {
	memberID string
	weight   int64
}

// allocate splits amount across shares in proportion to weight so the parts
// sum to amount exactly. Each part is floored first; the leftover cents go
// one each to members in ascending id order. total is the weight sum and
// must be positive.
func allocate(amount, total int64, shares []share) map[string]int64 {
	parts := make(map[string]int64, len(shares))
	var assigned int64
	for _, s := range shares {
		p := amount * s.weight / total
		parts[s.memberID] = p
		assigned += p
	}
	ids := make([]string, 0, len(shares))
	for _, s := range shares {
		ids = append(ids, s.memberID)
	}
	sort.Strings(ids)
	for i := int64(0); i < amount-assigned; i++ {
		parts[ids[i%int64(len(ids))]]++
	}
	return parts
}

// splitEvenly divides amount equally among memberIDs, handing leftover cents
// to members in ascending id order.
func splitEvenly(amount int64, memberIDs []string) map[string]int64 {
	ids := append([]string(nil), memberIDs...)
	sort.Strings(ids)

	n := int64(len(ids))
	base, rem := amount/n, amount%n

	parts := make(map[string]int64, len(ids))
	for i, id := range ids {
		p := base
		if int64(i) < rem {
			p++
		}
		parts[id] = p
	}
	return parts
}
