package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"manoah/internal/core"
	"manoah/internal/ledger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRecordCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	rec := core.LedgerRecord{ID: "a", Counterparty: "Ezra", Amount: dec("100"), Currency: "ILS", Status: core.StatusUnpaid}
	if err := s.PutRecord(ctx, ledger.Receivables, rec); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := s.GetRecord(ctx, ledger.Receivables, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Counterparty != "Ezra" {
		t.Fatalf("got %+v", got)
	}

	// Collections never merge.
	if _, err := s.GetRecord(ctx, ledger.Liabilities, "a"); err != ledger.ErrNotFound {
		t.Fatalf("record leaked across collections: %v", err)
	}

	rec.Amount = dec("50")
	if err := s.PutRecord(ctx, ledger.Receivables, rec); err != nil {
		t.Fatalf("replace: %v", err)
	}
	recs, _ := s.ListRecords(ctx, ledger.Receivables)
	if len(recs) != 1 || !recs[0].Amount.Equal(dec("50")) {
		t.Fatalf("replace did not update in place: %+v", recs)
	}

	if err := s.DeleteRecord(ctx, ledger.Receivables, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetRecord(ctx, ledger.Receivables, "a"); err != ledger.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.PutRecord(ctx, ledger.Liabilities, core.LedgerRecord{ID: "x", Counterparty: "a"})

	if err := s.DeleteRecord(ctx, ledger.Liabilities, "missing"); err != nil {
		t.Fatalf("delete of unknown id must be a no-op, got %v", err)
	}
	recs, _ := s.ListRecords(ctx, ledger.Liabilities)
	if len(recs) != 1 {
		t.Fatalf("collection changed by a no-op delete: %d records", len(recs))
	}

	if err := s.DeleteCharge(ctx, "missing"); err != nil {
		t.Fatalf("charge delete of unknown id must be a no-op, got %v", err)
	}
}

func TestListIsolation(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.PutRecord(ctx, ledger.Receivables, core.LedgerRecord{
		ID: "a", Counterparty: "x",
		Payments: []core.Payment{{ID: "p", Amount: dec("10")}},
	})

	recs, _ := s.ListRecords(ctx, ledger.Receivables)
	recs[0].Payments[0].Amount = dec("999")
	recs[0].Counterparty = "mutated"

	again, _ := s.ListRecords(ctx, ledger.Receivables)
	if again[0].Counterparty != "x" || !again[0].Payments[0].Amount.Equal(dec("10")) {
		t.Fatalf("store state leaked to callers: %+v", again[0])
	}
}

func TestChargeLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	entry := core.ChargeReviewEntry{ID: "c1", Merchant: "Adobe.com", Amount: dec("70"), Currency: "ILS", Status: core.ChargeToReview}
	if err := s.PutCharge(ctx, entry); err != nil {
		t.Fatalf("put charge: %v", err)
	}

	entry.Status = core.ChargeApproved
	if err := s.PutCharge(ctx, entry); err != nil {
		t.Fatalf("update charge: %v", err)
	}
	got, err := s.GetCharge(ctx, "c1")
	if err != nil || got.Status != core.ChargeApproved {
		t.Fatalf("charge not updated: %+v err=%v", got, err)
	}

	if err := s.DeleteCharge(ctx, "c1"); err != nil {
		t.Fatalf("delete charge: %v", err)
	}
	charges, _ := s.ListCharges(ctx)
	if len(charges) != 0 {
		t.Fatalf("charge not deleted: %d left", len(charges))
	}
}

func TestSeededStore(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()

	recs, _ := s.ListRecords(ctx, ledger.Receivables)
	if len(recs) == 0 {
		t.Fatalf("seed produced no receivables")
	}
	liabs, _ := s.ListRecords(ctx, ledger.Liabilities)
	if len(liabs) == 0 {
		t.Fatalf("seed produced no liabilities")
	}

	// Seed ids must be unique within each collection.
	seen := map[string]bool{}
	for _, r := range liabs {
		if seen[r.ID] {
			t.Fatalf("duplicate seed id %s", r.ID)
		}
		seen[r.ID] = true
	}
}
