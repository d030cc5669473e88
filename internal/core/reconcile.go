package core

import "github.com/shopspring/decimal"

// ReconcileResult is the derived balance and status after a payment change.
// The caller must persist both fields together with the updated payment
// sequence; a stale balance next to fresh payments must never be observable.
type ReconcileResult struct {
	Amount decimal.Decimal
	Status Status
}

// TotalPaid sums the payment amounts by raw magnitude. Payments keep their
// own currency and are not converted before summing; see DESIGN.md for why
// this source behavior is preserved.
func TotalPaid(payments []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// Recalculate derives the outstanding balance and status of a record from a
// payment sequence. The principal is OriginalAmount, falling back to the
// current Amount when the principal was never set.
func Recalculate(rec LedgerRecord, payments []Payment) ReconcileResult {
	totalPaid := TotalPaid(payments)

	principal := rec.OriginalAmount
	if principal.IsZero() {
		principal = rec.Amount
	}
	balance := principal.Sub(totalPaid)

	status := StatusUnpaid
	switch {
	case balance.Sign() <= 0:
		status = StatusPaid
	case totalPaid.Sign() > 0:
		status = StatusPartiallyPaid
	}

	return ReconcileResult{Amount: balance, Status: status}
}

// PercentPaid returns how much of the principal has been repaid, capped at
// 100. A zero principal reads as 0% rather than dividing by zero.
func PercentPaid(rec LedgerRecord) int {
	if rec.OriginalAmount.IsZero() {
		return 0
	}
	pct := TotalPaid(rec.Payments).
		Div(rec.OriginalAmount).
		Mul(decimal.NewFromInt(100)).
		Round(0).IntPart()
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return int(pct)
}

// CardTotal sums a card's transactions by raw magnitude. Transactions add to
// the balance (new spending), unlike payments which reduce it. Entries keep
// their own currency and are not converted.
func CardTotal(transactions []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		total = total.Add(tx.Amount)
	}
	return total
}
