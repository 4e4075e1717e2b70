package ledger

import (
	"errors"
	"testing"
	"time"
)

var testMembers = []Member{
	{ID: "u_alice", Name: "Alice"},
	{ID: "u_bob", Name: "Bob"},
	{ID: "u_cara", Name: "Cara"},
}

var testTime = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func cents(c int64) Money { return Money{Cents: c} }

func TestNewExpenseValidation(t *testing.T) {
	cases := []struct {
		name   string
		total  Money
		payers []PayerShare
		splits []SplitShare
		ok     bool
	}{
		{
			name:   "valid single payer even split",
			total:  cents(3000),
			payers: []PayerShare{{"u_alice", cents(3000)}},
			splits: []SplitShare{{"u_alice", cents(1500)}, {"u_bob", cents(1500)}},
			ok:     true,
		},
		{
			name:   "valid multi payer",
			total:  cents(300),
			payers: []PayerShare{{"u_alice", cents(200)}, {"u_bob", cents(100)}},
			splits: []SplitShare{{"u_alice", cents(100)}, {"u_bob", cents(100)}, {"u_cara", cents(100)}},
			ok:     true,
		},
		{
			name:   "zero total",
			total:  cents(0),
			payers: []PayerShare{{"u_alice", cents(0)}},
			splits: []SplitShare{{"u_alice", cents(0)}},
		},
		{
			name:   "negative total",
			total:  cents(-100),
			payers: []PayerShare{{"u_alice", cents(-100)}},
			splits: []SplitShare{{"u_alice", cents(-100)}},
		},
		{
			name:   "no payers",
			total:  cents(100),
			payers: nil,
			splits: []SplitShare{{"u_alice", cents(100)}},
		},
		{
			name:   "negative payer amount",
			total:  cents(100),
			payers: []PayerShare{{"u_alice", cents(200)}, {"u_bob", cents(-100)}},
			splits: []SplitShare{{"u_alice", cents(100)}},
		},
		{
			name:   "zero payer amount",
			total:  cents(100),
			payers: []PayerShare{{"u_alice", cents(100)}, {"u_bob", cents(0)}},
			splits: []SplitShare{{"u_alice", cents(100)}},
		},
		{
			name:   "payer sum below total",
			total:  cents(3000),
			payers: []PayerShare{{"u_alice", cents(2000)}},
			splits: []SplitShare{{"u_alice", cents(1500)}, {"u_bob", cents(1500)}},
		},
		{
			name:   "duplicate payer",
			total:  cents(3000),
			payers: []PayerShare{{"u_alice", cents(1500)}, {"u_alice", cents(1500)}},
			splits: []SplitShare{{"u_alice", cents(1500)}, {"u_bob", cents(1500)}},
		},
		{
			name:   "unknown payer",
			total:  cents(100),
			payers: []PayerShare{{"u_ghost", cents(100)}},
			splits: []SplitShare{{"u_alice", cents(100)}},
		},
		{
			name:   "no splits",
			total:  cents(100),
			payers: []PayerShare{{"u_alice", cents(100)}},
			splits: nil,
		},
		{
			name:   "split sum above total",
			total:  cents(100),
			payers: []PayerShare{{"u_alice", cents(100)}},
			splits: []SplitShare{{"u_alice", cents(60)}, {"u_bob", cents(60)}},
		},
		{
			name:   "duplicate split member",
			total:  cents(100),
			payers: []PayerShare{{"u_alice", cents(100)}},
			splits: []SplitShare{{"u_bob", cents(50)}, {"u_bob", cents(50)}},
		},
		{
			name:   "unknown split member",
			total:  cents(100),
			payers: []PayerShare{{"u_alice", cents(100)}},
			splits: []SplitShare{{"u_ghost", cents(100)}},
		},
		{
			name:   "negative split shares cancelling inside a matching sum",
			total:  cents(200),
			payers: []PayerShare{{"u_alice", cents(200)}},
			splits: []SplitShare{{"u_alice", cents(-50)}, {"u_bob", cents(-50)}, {"u_cara", cents(300)}},
		},
		{
			name:   "zero split share",
			total:  cents(100),
			payers: []PayerShare{{"u_alice", cents(100)}},
			splits: []SplitShare{{"u_alice", cents(0)}, {"u_bob", cents(100)}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := NewExpense(testMembers, "exp_1", "trip_1", "dinner", "EUR", tc.total, tc.payers, tc.splits, "u_alice", testTime)
			if tc.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if e.Total != tc.total || len(e.Payers) != len(tc.payers) {
					t.Errorf("expense not built from inputs: %+v", e)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected *ValidationError, got %T", err)
			}
		})
	}
}

func TestNewRefundValidation(t *testing.T) {
	expense, err := NewExpense(testMembers, "exp_1", "trip_1", "hotel", "EUR",
		cents(3000),
		[]PayerShare{{"u_alice", cents(3000)}},
		[]SplitShare{{"u_alice", cents(1500)}, {"u_bob", cents(1500)}},
		"u_alice", testTime)
	if err != nil {
		t.Fatalf("building expense: %v", err)
	}

	prior := []Refund{{ID: "ref_0", ExpenseID: "exp_1", Amount: cents(1000), Recipients: []string{"u_bob"}}}

	cases := []struct {
		name       string
		existing   []Refund
		amount     Money
		recipients []string
		ok         bool
	}{
		{name: "valid refund", amount: cents(500), recipients: []string{"u_bob"}, ok: true},
		{name: "valid refund up to remaining", existing: prior, amount: cents(2000), recipients: []string{"u_alice", "u_bob"}, ok: true},
		{name: "zero amount", amount: cents(0), recipients: []string{"u_bob"}},
		{name: "negative amount", amount: cents(-100), recipients: []string{"u_bob"}},
		{name: "exceeds total", amount: cents(3001), recipients: []string{"u_bob"}},
		{name: "exceeds remaining after prior refunds", existing: prior, amount: cents(2001), recipients: []string{"u_bob"}},
		{name: "no recipients", amount: cents(100), recipients: nil},
		{name: "recipient outside split", amount: cents(100), recipients: []string{"u_cara"}},
		{name: "duplicate recipient", amount: cents(100), recipients: []string{"u_bob", "u_bob"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := NewRefund(expense, tc.existing, "ref_1", tc.amount, "overcharge", tc.recipients, "u_alice", testTime)
			if tc.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if r.ExpenseID != expense.ID {
					t.Errorf("refund bound to %s, want %s", r.ExpenseID, expense.ID)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected *ValidationError, got %T", err)
			}
		})
	}
}
