package expense

import (
	"errors"
	"testing"
	"time"

	"tripledger/internal/ledger"
)

var testMembers = []ledger.Member{
	{ID: "u_alice", Name: "Alice"},
	{ID: "u_bob", Name: "Bob"},
}

var testTime = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestCreateExpenseRequestToRecord(t *testing.T) {
	valid := CreateExpenseRequest{
		TripID:      "trip_abc",
		Description: "Dinner",
		Currency:    "EUR",
		TotalAmount: "30.00",
		Payers:      []ShareInput{{MemberID: "u_alice", Amount: "30.00"}},
		Splits: []ShareInput{
			{MemberID: "u_alice", Amount: "15.00"},
			{MemberID: "u_bob", Amount: "15.00"},
		},
	}

	record, err := valid.ToRecord(testMembers, "exp_1", "u_alice", testTime)
	if err != nil {
		t.Fatalf("ToRecord: %v", err)
	}
	if record.Total.Cents != 3000 {
		t.Errorf("total = %d cents, want 3000", record.Total.Cents)
	}
	if len(record.Payers) != 1 || record.Payers[0].Amount.Cents != 3000 {
		t.Errorf("payers = %+v", record.Payers)
	}
	if len(record.Splits) != 2 || record.Splits[1].Amount.Cents != 1500 {
		t.Errorf("splits = %+v", record.Splits)
	}

	tests := []struct {
		name   string
		mutate func(r *CreateExpenseRequest)
	}{
		{
			name:   "malformed total",
			mutate: func(r *CreateExpenseRequest) { r.TotalAmount = "thirty" },
		},
		{
			name:   "malformed payer amount",
			mutate: func(r *CreateExpenseRequest) { r.Payers[0].Amount = "30,00" },
		},
		{
			name:   "malformed split amount",
			mutate: func(r *CreateExpenseRequest) { r.Splits[0].Amount = "" },
		},
		{
			name:   "payers do not cover total",
			mutate: func(r *CreateExpenseRequest) { r.Payers[0].Amount = "20.00" },
		},
		{
			name:   "unknown split member",
			mutate: func(r *CreateExpenseRequest) { r.Splits[1].MemberID = "u_ghost" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			req.Payers = append([]ShareInput(nil), valid.Payers...)
			req.Splits = append([]ShareInput(nil), valid.Splits...)
			tt.mutate(&req)

			_, err := req.ToRecord(testMembers, "exp_1", "u_alice", testTime)
			var verr *ledger.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestWithRefundsToResponse(t *testing.T) {
	record, err := ledger.NewExpense(
		testMembers, "exp_1", "trip_abc", "Dinner", "EUR",
		ledger.Money{Cents: 3000},
		[]ledger.PayerShare{{MemberID: "u_alice", Amount: ledger.Money{Cents: 3000}}},
		[]ledger.SplitShare{
			{MemberID: "u_alice", Amount: ledger.Money{Cents: 1500}},
			{MemberID: "u_bob", Amount: ledger.Money{Cents: 1500}},
		},
		"u_alice", testTime,
	)
	if err != nil {
		t.Fatalf("NewExpense: %v", err)
	}

	refund, err := ledger.NewRefund(
		record, nil, "ref_1",
		ledger.Money{Cents: 500}, "overcharge", []string{"u_bob"},
		"u_alice", testTime,
	)
	if err != nil {
		t.Fatalf("NewRefund: %v", err)
	}

	resp := (&WithRefunds{Expense: record, Refunds: []ledger.Refund{*refund}}).ToResponse()

	if resp.TotalAmount != "30.00" {
		t.Errorf("total_amount = %q, want 30.00", resp.TotalAmount)
	}
	if resp.NetAmount != "25.00" {
		t.Errorf("net_amount = %q, want 25.00", resp.NetAmount)
	}
	if resp.CreatedAt != "2026-03-14T12:00:00Z" {
		t.Errorf("created_at = %q", resp.CreatedAt)
	}
	if len(resp.Refunds) != 1 || resp.Refunds[0].Amount != "5.00" {
		t.Errorf("refunds = %+v", resp.Refunds)
	}
	if len(resp.Splits) != 2 || resp.Splits[0].Amount != "15.00" {
		t.Errorf("splits = %+v", resp.Splits)
	}
}

func TestWithRefundsNetAmount(t *testing.T) {
	record, err := ledger.NewExpense(
		testMembers, "exp_1", "trip_abc", "Taxi", "EUR",
		ledger.Money{Cents: 900},
		[]ledger.PayerShare{{MemberID: "u_bob", Amount: ledger.Money{Cents: 900}}},
		[]ledger.SplitShare{
			{MemberID: "u_alice", Amount: ledger.Money{Cents: 450}},
			{MemberID: "u_bob", Amount: ledger.Money{Cents: 450}},
		},
		"u_bob", testTime,
	)
	if err != nil {
		t.Fatalf("NewExpense: %v", err)
	}

	w := &WithRefunds{Expense: record}
	if got := w.NetAmount().Cents; got != 900 {
		t.Errorf("net with no refunds = %d, want 900", got)
	}

	w.Refunds = []ledger.Refund{
		{ID: "ref_1", ExpenseID: "exp_1", Amount: ledger.Money{Cents: 300}, Recipients: []string{"u_alice"}},
		{ID: "ref_2", ExpenseID: "exp_1", Amount: ledger.Money{Cents: 200}, Recipients: []string{"u_bob"}},
	}
	if got := w.NetAmount().Cents; got != 400 {
		t.Errorf("net with refunds = %d, want 400", got)
	}
}
