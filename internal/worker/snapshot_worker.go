package worker

import (
	"context"
	"log/slog"
	"time"

	"manoah/internal/amqp"
	"manoah/internal/snapshot"
)

// SnapshotWorker mirrors ledger mutations into the JSON snapshot export.
// Every sync message triggers a full re-export; the ledger is small and a
// full write is simpler to reason about than per-record patching, and it
// also makes duplicate or stale deliveries harmless.
type SnapshotWorker struct {
	exporter *snapshot.Exporter
}

func NewSnapshotWorker(exporter *snapshot.Exporter) *SnapshotWorker {
	return &SnapshotWorker{exporter: exporter}
}

// HandleSyncMessage processes a single ledger sync message from AMQP.
func (w *SnapshotWorker) HandleSyncMessage(ctx context.Context, msg *amqp.LedgerSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"collection", msg.Collection,
		"record_id", msg.RecordID,
		"op", msg.Op)

	return w.exporter.Export(ctx)
}

// RunPeriodic re-exports the snapshot on a fixed interval. This is a backup
// mechanism in case AMQP messages are lost or the worker was down.
func (w *SnapshotWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	// Export once on startup to recover from downtime.
	if err := w.exporter.Export(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup snapshot export failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping periodic snapshot export", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.exporter.Export(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic snapshot export failed", "error", err)
			}
		}
	}
}
