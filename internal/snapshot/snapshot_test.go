package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"manoah/internal/core"
	"manoah/internal/ledger"
	"manoah/internal/ledger/memory"
)

func TestExportRoundtrip(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	store.PutRecord(ctx, ledger.Receivables, core.LedgerRecord{
		ID:           "r1",
		Counterparty: "Dana",
		Amount:       decimal.RequireFromString("1500.50"),
		Currency:     "ILS",
		Status:       core.StatusUnpaid,
	})
	store.PutRecord(ctx, ledger.Liabilities, core.LedgerRecord{
		ID:           "l1",
		Counterparty: "Bank Hapoalim",
		Amount:       decimal.RequireFromString("54000"),
		Currency:     "ILS",
		Status:       core.StatusPartiallyPaid,
	})
	store.PutCharge(ctx, core.ChargeReviewEntry{
		ID:       "c1",
		Merchant: "Online Store",
		Amount:   decimal.RequireFromString("89.90"),
		Status:   core.ChargeToReview,
	})

	path := filepath.Join(t.TempDir(), "ledger_snapshot.json")
	exporter := NewExporter(store, path)

	if err := exporter.Export(ctx); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	snap, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if snap.ExportedAt.IsZero() {
		t.Error("ExportedAt should be set")
	}
	if len(snap.Receivables) != 1 || snap.Receivables[0].Counterparty != "Dana" {
		t.Errorf("Receivables = %+v, want one record for Dana", snap.Receivables)
	}
	if !snap.Receivables[0].Amount.Equal(decimal.RequireFromString("1500.50")) {
		t.Errorf("Amount = %s, want 1500.50 exactly", snap.Receivables[0].Amount)
	}
	if len(snap.Liabilities) != 1 || len(snap.Charges) != 1 {
		t.Errorf("have %d liabilities, %d charges; want 1 and 1", len(snap.Liabilities), len(snap.Charges))
	}
}

func TestExportReplacesExisting(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snap.json")

	exporter := NewExporter(store, path)
	if err := exporter.Export(ctx); err != nil {
		t.Fatalf("first Export() error = %v", err)
	}

	store.PutRecord(ctx, ledger.Receivables, core.LedgerRecord{
		ID:           "r1",
		Counterparty: "Ron",
		Amount:       decimal.RequireFromString("10"),
	})
	if err := exporter.Export(ctx); err != nil {
		t.Fatalf("second Export() error = %v", err)
	}

	snap, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(snap.Receivables) != 1 {
		t.Errorf("snapshot should reflect latest state, have %d receivables", len(snap.Receivables))
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should not be left behind")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}
