package ledger

import (
	"errors"
	"reflect"
	"testing"
)

func tripFixture(t *testing.T) ([]Member, []Expense, []Refund) {
	t.Helper()

	dinner, err := NewExpense(testMembers, "exp_dinner", "trip_1", "dinner", "EUR",
		cents(3000),
		[]PayerShare{{"u_alice", cents(3000)}},
		[]SplitShare{{"u_alice", cents(1500)}, {"u_bob", cents(1500)}},
		"u_alice", testTime)
	if err != nil {
		t.Fatalf("dinner: %v", err)
	}

	taxi, err := NewExpense(testMembers, "exp_taxi", "trip_1", "taxi", "EUR",
		cents(900),
		[]PayerShare{{"u_bob", cents(900)}},
		[]SplitShare{{"u_alice", cents(300)}, {"u_bob", cents(300)}, {"u_cara", cents(300)}},
		"u_bob", testTime)
	if err != nil {
		t.Fatalf("taxi: %v", err)
	}

	refund, err := NewRefund(dinner, nil, "ref_1", cents(1500), "overcharged", []string{"u_bob"}, "u_alice", testTime)
	if err != nil {
		t.Fatalf("refund: %v", err)
	}

	return testMembers, []Expense{*dinner, *taxi}, []Refund{*refund}
}

func TestComputeTripSummary(t *testing.T) {
	members, expenses, refunds := tripFixture(t)

	summary, err := ComputeTripSummary("EUR", members, expenses, refunds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Currency != "EUR" {
		t.Errorf("currency = %s, want EUR", summary.Currency)
	}
	if summary.TotalExpenses != cents(3900) {
		t.Errorf("total expenses = %s, want 39.00", summary.TotalExpenses)
	}
	if summary.TotalRefunded != cents(1500) {
		t.Errorf("total refunded = %s, want 15.00", summary.TotalRefunded)
	}
	if summary.NetExpenses != cents(2400) {
		t.Errorf("net expenses = %s, want 24.00", summary.NetExpenses)
	}

	// dinner with refund: alice +3000-750 = +2250, bob -750-1500 = -2250
	// taxi: bob +600, alice -300, cara -300
	wantBalances := []Balance{
		{MemberID: "u_alice", Amount: cents(1950)},
		{MemberID: "u_bob", Amount: cents(-1650)},
		{MemberID: "u_cara", Amount: cents(-300)},
	}
	if !reflect.DeepEqual(summary.Balances, wantBalances) {
		t.Errorf("balances = %v, want %v", summary.Balances, wantBalances)
	}

	wantSettlements := []Settlement{
		{FromMemberID: "u_bob", ToMemberID: "u_alice", Amount: cents(1650)},
		{FromMemberID: "u_cara", ToMemberID: "u_alice", Amount: cents(300)},
	}
	if !reflect.DeepEqual(summary.Settlements, wantSettlements) {
		t.Errorf("settlements = %v, want %v", summary.Settlements, wantSettlements)
	}

	var sum int64
	for _, b := range summary.Balances {
		sum += b.Amount.Cents
	}
	if sum != 0 {
		t.Errorf("balances sum to %d cents, want 0", sum)
	}
}

func TestComputeTripSummaryIdempotent(t *testing.T) {
	members, expenses, refunds := tripFixture(t)

	first, err := ComputeTripSummary("EUR", members, expenses, refunds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := ComputeTripSummary("EUR", members, expenses, refunds)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("summary changed between identical calls:\n%+v\n%+v", first, again)
		}
	}
}

func TestComputeTripSummaryEmptyTrip(t *testing.T) {
	summary, err := ComputeTripSummary("EUR", testMembers, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Settlements) != 0 {
		t.Errorf("expected no settlements, got %v", summary.Settlements)
	}
	for _, b := range summary.Balances {
		if !b.Amount.IsZero() {
			t.Errorf("member %s has balance %s, want 0.00", b.MemberID, b.Amount)
		}
	}
}

func TestComputeTripSummaryValidation(t *testing.T) {
	members, expenses, refunds := tripFixture(t)

	cases := []struct {
		name     string
		currency string
		members  []Member
		expenses []Expense
		refunds  []Refund
	}{
		{
			name:     "expense references member missing from trip",
			currency: "EUR",
			members:  members[:1], // u_bob and u_cara gone
			expenses: expenses,
			refunds:  refunds,
		},
		{
			name:     "refund references unknown expense",
			currency: "EUR",
			members:  members,
			expenses: expenses[:1],
			refunds: []Refund{{
				ID: "ref_x", ExpenseID: "exp_missing", Amount: cents(100), Recipients: []string{"u_bob"},
			}},
		},
		{
			name:     "currency mismatch",
			currency: "USD",
			members:  members,
			expenses: expenses,
			refunds:  refunds,
		},
		{
			name:     "duplicate member id",
			currency: "EUR",
			members:  append([]Member{{ID: "u_alice", Name: "Alice Again"}}, members...),
			expenses: expenses,
			refunds:  refunds,
		},
		{
			name:     "empty member id",
			currency: "EUR",
			members:  []Member{{ID: "", Name: "Nobody"}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			summary, err := ComputeTripSummary(tc.currency, tc.members, tc.expenses, tc.refunds)
			if err == nil {
				t.Fatalf("expected validation error, got summary %+v", summary)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected *ValidationError, got %T: %v", err, err)
			}
		})
	}
}
