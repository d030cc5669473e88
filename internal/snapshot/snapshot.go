package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"manoah/internal/core"
	"manoah/internal/ledger"
)

// Snapshot is the full ledger state as exported to disk.
type Snapshot struct {
	ExportedAt  time.Time                `json:"exported_at"`
	Receivables []core.LedgerRecord      `json:"receivables"`
	Liabilities []core.LedgerRecord      `json:"liabilities"`
	Charges     []core.ChargeReviewEntry `json:"charges"`
}

// Exporter writes full-ledger JSON snapshots. Writes go through a temp file
// and a rename so a crash mid-write never leaves a truncated snapshot.
type Exporter struct {
	store ledger.Store
	path  string
}

func NewExporter(store ledger.Store, path string) *Exporter {
	return &Exporter{store: store, path: path}
}

// Export reads the whole ledger and replaces the snapshot file.
func (e *Exporter) Export(ctx context.Context) error {
	receivables, err := e.store.ListRecords(ctx, ledger.Receivables)
	if err != nil {
		return fmt.Errorf("read receivables: %w", err)
	}
	liabilities, err := e.store.ListRecords(ctx, ledger.Liabilities)
	if err != nil {
		return fmt.Errorf("read liabilities: %w", err)
	}
	charges, err := e.store.ListCharges(ctx)
	if err != nil {
		return fmt.Errorf("read charges: %w", err)
	}

	snap := Snapshot{
		ExportedAt:  time.Now().UTC(),
		Receivables: receivables,
		Liabilities: liabilities,
		Charges:     charges,
	}

	if err := e.write(snap); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Exported ledger snapshot",
		"path", e.path,
		"receivables", len(receivables),
		"liabilities", len(liabilities),
		"charges", len(charges))
	return nil
}

func (e *Exporter) write(snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(e.path), 0755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp := e.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write snapshot temp file: %w", err)
	}
	if err := os.Rename(tmp, e.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace snapshot file: %w", err)
	}
	return nil
}

// Load reads a snapshot back from disk.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	return snap, nil
}
