package trip

import (
	"testing"

	"tripledger/internal/ledger"
)

func TestSummaryToResponse(t *testing.T) {
	members := []*Member{
		{TripID: "trip_abc", MemberID: "u_alice", Name: "Alice", Position: 0},
		{TripID: "trip_abc", MemberID: "u_bob", Name: "Bob", Position: 1},
	}
	summary := &ledger.TripSummary{
		Currency: "EUR",
		Balances: []ledger.Balance{
			{MemberID: "u_alice", Amount: ledger.Money{Cents: 1500}},
			{MemberID: "u_bob", Amount: ledger.Money{Cents: -1500}},
		},
		Settlements: []ledger.Settlement{
			{FromMemberID: "u_bob", ToMemberID: "u_alice", Amount: ledger.Money{Cents: 1500}},
		},
		TotalExpenses: ledger.Money{Cents: 3000},
		TotalRefunded: ledger.Money{Cents: 0},
		NetExpenses:   ledger.Money{Cents: 3000},
	}

	resp := SummaryToResponse(summary, members)

	if resp.Currency != "EUR" {
		t.Errorf("currency = %q", resp.Currency)
	}
	if len(resp.Balances) != 2 {
		t.Fatalf("balances = %d, want 2", len(resp.Balances))
	}
	if resp.Balances[0].Name != "Alice" || resp.Balances[0].Balance != "15.00" {
		t.Errorf("alice balance = %+v", resp.Balances[0])
	}
	if resp.Balances[1].Balance != "-15.00" {
		t.Errorf("bob balance = %q", resp.Balances[1].Balance)
	}
	if len(resp.Settlements) != 1 {
		t.Fatalf("settlements = %d, want 1", len(resp.Settlements))
	}
	s := resp.Settlements[0]
	if s.FromName != "Bob" || s.ToName != "Alice" || s.Amount != "15.00" || s.Currency != "EUR" {
		t.Errorf("settlement = %+v", s)
	}
	if resp.TotalExpenses != "30.00" || resp.NetExpenses != "30.00" {
		t.Errorf("totals = %q / %q", resp.TotalExpenses, resp.NetExpenses)
	}
}
