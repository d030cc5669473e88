package ledger

import (
	"context"
	"errors"

	"manoah/internal/core"
)

// Collection names the two record collections. They are managed identically
// but never merged.
type Collection string

const (
	Receivables Collection = "receivables"
	Liabilities Collection = "liabilities"
)

func (c Collection) Valid() bool {
	return c == Receivables || c == Liabilities
}

// ErrNotFound is returned when an operation references a record, payment,
// transaction or charge id that does not exist and the operation is not
// defined as idempotent.
var ErrNotFound = errors.New("not found")

// Ports for ledger persistence.
type (
	// RecordStore holds the receivable and liability collections.
	// PutRecord replaces the whole record (payments and transactions
	// included) in a single atomic step; DeleteRecord is a no-op for
	// unknown ids.
	RecordStore interface {
		ListRecords(ctx context.Context, col Collection) ([]core.LedgerRecord, error)
		GetRecord(ctx context.Context, col Collection, id string) (core.LedgerRecord, error)
		PutRecord(ctx context.Context, col Collection, rec core.LedgerRecord) error
		DeleteRecord(ctx context.Context, col Collection, id string) error
	}

	// ChargeStore holds the charge-review queue. DeleteCharge is a no-op
	// for unknown ids.
	ChargeStore interface {
		ListCharges(ctx context.Context) ([]core.ChargeReviewEntry, error)
		GetCharge(ctx context.Context, id string) (core.ChargeReviewEntry, error)
		PutCharge(ctx context.Context, entry core.ChargeReviewEntry) error
		DeleteCharge(ctx context.Context, id string) error
	}

	// Store is the full persistence surface the service needs.
	Store interface {
		RecordStore
		ChargeStore
		Close() error
	}
)
