package refund

import (
	"testing"
	"time"

	"tripledger/internal/ledger"
)

func TestToResponse(t *testing.T) {
	record := &ledger.Refund{
		ID:         "ref_1",
		ExpenseID:  "exp_1",
		Amount:     ledger.Money{Cents: 1250},
		Reason:     "partial refund from venue",
		Recipients: []string{"u_alice", "u_bob"},
		CreatedBy:  "u_alice",
		CreatedAt:  time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}

	resp := ToResponse(record)

	if resp.Amount != "12.50" {
		t.Errorf("amount = %q, want 12.50", resp.Amount)
	}
	if resp.CreatedAt != "2026-03-14T12:00:00Z" {
		t.Errorf("created_at = %q", resp.CreatedAt)
	}
	if len(resp.Recipients) != 2 || resp.Recipients[0] != "u_alice" {
		t.Errorf("recipients = %v", resp.Recipients)
	}
}

func TestToResponseNormalizesZonedTimestamps(t *testing.T) {
	// Timestamps scanned from the database may carry a session-local zone.
	zone := time.FixedZone("CET", 60*60)
	record := &ledger.Refund{
		ID:         "ref_1",
		ExpenseID:  "exp_1",
		Amount:     ledger.Money{Cents: 100},
		Recipients: []string{"u_alice"},
		CreatedBy:  "u_alice",
		CreatedAt:  time.Date(2026, 3, 14, 13, 0, 0, 0, zone),
	}

	resp := ToResponse(record)
	if resp.CreatedAt != "2026-03-14T12:00:00Z" {
		t.Errorf("created_at = %q, want 2026-03-14T12:00:00Z", resp.CreatedAt)
	}
}
