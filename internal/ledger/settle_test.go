package ledger

import (
	"reflect"
	"testing"
)

// applySettlements replays a plan against the balances: debtors gain what
// they pay out, creditors lose what they receive.
func applySettlements(balances map[string]int64, plan []Settlement) map[string]int64 {
	out := make(map[string]int64, len(balances))
	for id, b := range balances {
		out[id] = b
	}
	for _, s := range plan {
		out[s.FromMemberID] += s.Amount.Cents
		out[s.ToMemberID] -= s.Amount.Cents
	}
	return out
}

func TestPlanSettlements(t *testing.T) {
	cases := []struct {
		name     string
		balances map[string]int64
		want     []Settlement
	}{
		{
			name:     "two parties",
			balances: map[string]int64{"u_alice": 1000, "u_bob": -1000},
			want: []Settlement{
				{FromMemberID: "u_bob", ToMemberID: "u_alice", Amount: cents(1000)},
			},
		},
		{
			name:     "zero balances are skipped",
			balances: map[string]int64{"u_alice": 100, "u_bob": 0, "u_cara": -100},
			want: []Settlement{
				{FromMemberID: "u_cara", ToMemberID: "u_alice", Amount: cents(100)},
			},
		},
		{
			name:     "largest debtor pays largest creditor first",
			balances: map[string]int64{"u_alice": 667, "u_bob": -333, "u_cara": -334},
			want: []Settlement{
				{FromMemberID: "u_cara", ToMemberID: "u_alice", Amount: cents(334)},
				{FromMemberID: "u_bob", ToMemberID: "u_alice", Amount: cents(333)},
			},
		},
		{
			name:     "equal amounts tie-break by ascending id",
			balances: map[string]int64{"u_bob": 50, "u_alice": 50, "u_cara": -100},
			want: []Settlement{
				{FromMemberID: "u_cara", ToMemberID: "u_alice", Amount: cents(50)},
				{FromMemberID: "u_cara", ToMemberID: "u_bob", Amount: cents(50)},
			},
		},
		{
			name:     "all settled",
			balances: map[string]int64{"u_alice": 0, "u_bob": 0},
			want:     []Settlement{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PlanSettlements(tc.balances)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("PlanSettlements(%v) = %v, want %v", tc.balances, got, tc.want)
			}
			after := applySettlements(tc.balances, got)
			for id, b := range after {
				if b != 0 {
					t.Errorf("after applying plan, %s has balance %d, want 0", id, b)
				}
			}
		})
	}
}

func TestPlanSettlementsBounds(t *testing.T) {
	balances := map[string]int64{
		"u_a": 500,
		"u_b": 250,
		"u_c": -300,
		"u_d": -200,
		"u_e": -250,
	}
	plan := PlanSettlements(balances)

	if max := len(balances) - 1; len(plan) > max {
		t.Errorf("plan has %d transfers, want at most %d", len(plan), max)
	}
	for _, s := range plan {
		if s.FromMemberID == s.ToMemberID {
			t.Errorf("self transfer produced: %+v", s)
		}
		if !s.Amount.IsPositive() {
			t.Errorf("non-positive transfer produced: %+v", s)
		}
	}
	after := applySettlements(balances, plan)
	for id, b := range after {
		if b != 0 {
			t.Errorf("after applying plan, %s has balance %d, want 0", id, b)
		}
	}
}

func TestPlanSettlementsDeterministic(t *testing.T) {
	balances := map[string]int64{
		"u_a": 1200, "u_b": -400, "u_c": -400, "u_d": -400,
	}
	first := PlanSettlements(balances)
	for i := 0; i < 10; i++ {
		if got := PlanSettlements(balances); !reflect.DeepEqual(got, first) {
			t.Fatalf("plan changed between runs: %v vs %v", got, first)
		}
	}
}

func TestPlanSettlementsTotalsPerParty(t *testing.T) {
	balances := map[string]int64{
		"u_a": 900, "u_b": 100, "u_c": -700, "u_d": -300,
	}
	plan := PlanSettlements(balances)

	paid := make(map[string]int64)
	received := make(map[string]int64)
	for _, s := range plan {
		paid[s.FromMemberID] += s.Amount.Cents
		received[s.ToMemberID] += s.Amount.Cents
	}
	for id, b := range balances {
		if b < 0 && paid[id] != -b {
			t.Errorf("debtor %s pays %d, want %d", id, paid[id], -b)
		}
		if b > 0 && received[id] != b {
			t.Errorf("creditor %s receives %d, want %d", id, received[id], b)
		}
	}
}
