package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"manoah/internal/core"
	"manoah/internal/ledger"
)

// SQLiteRepository is the durable ledger store. Decimal amounts are stored
// as their exact string form, never as floats. Every PutRecord replaces the
// record row and its payment/transaction rows inside one transaction -- that
// is the atomicity boundary for reconciliation.
type SQLiteRepository struct {
	db *sql.DB
}

var _ ledger.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const recordColumns = `id, counterparty, amount, original_amount, currency, status,
	record_date, note, liability_type, charge_day, bank_name, loan_number,
	interest_type, interest_rate, loan_margin, monthly_payment,
	installments_total, installments_paid, card_digits, start_date`

func (r *SQLiteRepository) ListRecords(ctx context.Context, col ledger.Collection) ([]core.LedgerRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE collection = ? ORDER BY seq`, string(col))
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []core.LedgerRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	for i := range out {
		if err := r.loadChildren(ctx, col, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *SQLiteRepository) GetRecord(ctx context.Context, col ledger.Collection, id string) (core.LedgerRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE collection = ? AND id = ?`, string(col), id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.LedgerRecord{}, ledger.ErrNotFound
	}
	if err != nil {
		return core.LedgerRecord{}, err
	}
	if err := r.loadChildren(ctx, col, &rec); err != nil {
		return core.LedgerRecord{}, err
	}
	return rec, nil
}

func (r *SQLiteRepository) PutRecord(ctx context.Context, col ledger.Collection, rec core.LedgerRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put record: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO records (collection, `+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET
			counterparty = excluded.counterparty,
			amount = excluded.amount,
			original_amount = excluded.original_amount,
			currency = excluded.currency,
			status = excluded.status,
			record_date = excluded.record_date,
			note = excluded.note,
			liability_type = excluded.liability_type,
			charge_day = excluded.charge_day,
			bank_name = excluded.bank_name,
			loan_number = excluded.loan_number,
			interest_type = excluded.interest_type,
			interest_rate = excluded.interest_rate,
			loan_margin = excluded.loan_margin,
			monthly_payment = excluded.monthly_payment,
			installments_total = excluded.installments_total,
			installments_paid = excluded.installments_paid,
			card_digits = excluded.card_digits,
			start_date = excluded.start_date`,
		string(col), rec.ID, rec.Counterparty, rec.Amount.String(), rec.OriginalAmount.String(),
		rec.Currency, string(rec.Status), rec.Date, rec.Note, string(rec.LiabilityType),
		rec.ChargeDay, rec.BankName, rec.LoanNumber, rec.InterestType,
		rec.InterestRate.String(), rec.LoanMargin.String(), rec.MonthlyPayment.String(),
		rec.InstallmentsTotal, rec.InstallmentsPaid, rec.CardDigits, rec.StartDate)
	if err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM payments WHERE collection = ? AND record_id = ?`, string(col), rec.ID); err != nil {
		return fmt.Errorf("clear payments: %w", err)
	}
	for i, p := range rec.Payments {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO payments (collection, record_id, position, id, pay_date, amount, currency, pay_type, note)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			string(col), rec.ID, i, p.ID, p.Date, p.Amount.String(), p.Currency, p.Type, p.Note); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM card_transactions WHERE collection = ? AND record_id = ?`, string(col), rec.ID); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	for i, cardTx := range rec.Transactions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO card_transactions (collection, record_id, position, id, tx_date, merchant, amount, currency, note)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			string(col), rec.ID, i, cardTx.ID, cardTx.Date, cardTx.Merchant,
			cardTx.Amount.String(), cardTx.Currency, cardTx.Note); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put record: %w", err)
	}

	slog.DebugContext(ctx, "Record saved",
		"collection", string(col),
		"id", rec.ID,
		"payments", len(rec.Payments),
		"transactions", len(rec.Transactions))
	return nil
}

func (r *SQLiteRepository) DeleteRecord(ctx context.Context, col ledger.Collection, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete record: %w", err)
	}
	defer tx.Rollback()

	// Idempotent: deleting an absent id touches nothing.
	for _, q := range []string{
		`DELETE FROM payments WHERE collection = ? AND record_id = ?`,
		`DELETE FROM card_transactions WHERE collection = ? AND record_id = ?`,
		`DELETE FROM records WHERE collection = ? AND id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, string(col), id); err != nil {
			return fmt.Errorf("delete record: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete record: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListCharges(ctx context.Context) ([]core.ChargeReviewEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, merchant, amount, currency, charge_date, card_label, status, note
		FROM charges_to_review ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list charges: %w", err)
	}
	defer rows.Close()

	var out []core.ChargeReviewEntry
	for rows.Next() {
		var c core.ChargeReviewEntry
		var amount, status string
		if err := rows.Scan(&c.ID, &c.Merchant, &amount, &c.Currency, &c.Date, &c.CardLabel, &status, &c.Note); err != nil {
			return nil, fmt.Errorf("scan charge: %w", err)
		}
		if c.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse charge amount %q: %w", amount, err)
		}
		c.Status = core.ChargeStatus(status)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetCharge(ctx context.Context, id string) (core.ChargeReviewEntry, error) {
	var c core.ChargeReviewEntry
	var amount, status string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, merchant, amount, currency, charge_date, card_label, status, note
		FROM charges_to_review WHERE id = ?`, id).
		Scan(&c.ID, &c.Merchant, &amount, &c.Currency, &c.Date, &c.CardLabel, &status, &c.Note)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ChargeReviewEntry{}, ledger.ErrNotFound
	}
	if err != nil {
		return core.ChargeReviewEntry{}, fmt.Errorf("get charge: %w", err)
	}
	if c.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.ChargeReviewEntry{}, fmt.Errorf("parse charge amount %q: %w", amount, err)
	}
	c.Status = core.ChargeStatus(status)
	return c, nil
}

func (r *SQLiteRepository) PutCharge(ctx context.Context, entry core.ChargeReviewEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO charges_to_review (id, merchant, amount, currency, charge_date, card_label, status, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			merchant = excluded.merchant,
			amount = excluded.amount,
			currency = excluded.currency,
			charge_date = excluded.charge_date,
			card_label = excluded.card_label,
			status = excluded.status,
			note = excluded.note`,
		entry.ID, entry.Merchant, entry.Amount.String(), entry.Currency,
		entry.Date, entry.CardLabel, string(entry.Status), entry.Note)
	if err != nil {
		return fmt.Errorf("upsert charge: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteCharge(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM charges_to_review WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete charge: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (core.LedgerRecord, error) {
	var rec core.LedgerRecord
	var amount, original, status, liabilityType, interestRate, loanMargin, monthlyPayment string
	err := row.Scan(&rec.ID, &rec.Counterparty, &amount, &original, &rec.Currency, &status,
		&rec.Date, &rec.Note, &liabilityType, &rec.ChargeDay, &rec.BankName, &rec.LoanNumber,
		&rec.InterestType, &interestRate, &loanMargin, &monthlyPayment,
		&rec.InstallmentsTotal, &rec.InstallmentsPaid, &rec.CardDigits, &rec.StartDate)
	if err != nil {
		return rec, err
	}

	rec.Status = core.Status(status)
	rec.LiabilityType = core.LiabilityType(liabilityType)

	for _, f := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&rec.Amount, amount},
		{&rec.OriginalAmount, original},
		{&rec.InterestRate, interestRate},
		{&rec.LoanMargin, loanMargin},
		{&rec.MonthlyPayment, monthlyPayment},
	} {
		if *f.dst, err = decimal.NewFromString(f.src); err != nil {
			return rec, fmt.Errorf("parse stored amount %q: %w", f.src, err)
		}
	}
	return rec, nil
}

func (r *SQLiteRepository) loadChildren(ctx context.Context, col ledger.Collection, rec *core.LedgerRecord) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pay_date, amount, currency, pay_type, note
		FROM payments WHERE collection = ? AND record_id = ? ORDER BY position`,
		string(col), rec.ID)
	if err != nil {
		return fmt.Errorf("load payments: %w", err)
	}
	defer rows.Close()

	rec.Payments = []core.Payment{}
	for rows.Next() {
		var p core.Payment
		var amount string
		if err := rows.Scan(&p.ID, &p.Date, &amount, &p.Currency, &p.Type, &p.Note); err != nil {
			return fmt.Errorf("scan payment: %w", err)
		}
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return fmt.Errorf("parse payment amount %q: %w", amount, err)
		}
		rec.Payments = append(rec.Payments, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load payments: %w", err)
	}

	txRows, err := r.db.QueryContext(ctx, `
		SELECT id, tx_date, merchant, amount, currency, note
		FROM card_transactions WHERE collection = ? AND record_id = ? ORDER BY position`,
		string(col), rec.ID)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	defer txRows.Close()

	for txRows.Next() {
		var t core.Transaction
		var amount string
		if err := txRows.Scan(&t.ID, &t.Date, &t.Merchant, &amount, &t.Currency, &t.Note); err != nil {
			return fmt.Errorf("scan transaction: %w", err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return fmt.Errorf("parse transaction amount %q: %w", amount, err)
		}
		rec.Transactions = append(rec.Transactions, t)
	}
	return txRows.Err()
}
