package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"manoah/internal/ai"
	"manoah/internal/core"
	"manoah/internal/ledger"
)

// SyncPublisher sends change notifications after a mutation commits locally.
type SyncPublisher interface {
	PublishLedgerSync(ctx context.Context, collection, recordID, op string) error
}

// TextGenerator is the external model behind smart add and chat.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LedgerService orchestrates ledger operations across the store and AMQP.
// The store call is the atomicity boundary: a record, its payments and its
// transactions are always written together. Publishing is best-effort and
// never fails the request.
type LedgerService struct {
	store     ledger.Store
	publisher SyncPublisher
	generator TextGenerator
}

func NewLedgerService(store ledger.Store, publisher SyncPublisher, generator TextGenerator) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
		generator: generator,
	}
}

func (s *LedgerService) ListRecords(ctx context.Context, col ledger.Collection) ([]core.LedgerRecord, error) {
	return s.store.ListRecords(ctx, col)
}

func (s *LedgerService) GetRecord(ctx context.Context, col ledger.Collection, id string) (core.LedgerRecord, error) {
	return s.store.GetRecord(ctx, col, id)
}

// CreateRecord assigns an id, fills defaults and saves the record.
func (s *LedgerService) CreateRecord(ctx context.Context, col ledger.Collection, rec core.LedgerRecord) (core.LedgerRecord, error) {
	rec.ID = uuid.NewString()
	if rec.Status == "" {
		rec.Status = core.StatusUnpaid
	}
	if rec.OriginalAmount.IsZero() {
		rec.OriginalAmount = rec.Amount
	}
	if rec.Amount.IsZero() {
		rec.Amount = rec.OriginalAmount
	}
	if rec.Payments == nil {
		rec.Payments = []core.Payment{}
	}

	if err := rec.Validate(); err != nil {
		return core.LedgerRecord{}, err
	}
	if err := s.store.PutRecord(ctx, col, rec); err != nil {
		return core.LedgerRecord{}, fmt.Errorf("save record: %w", err)
	}

	s.publishSync(ctx, col, rec.ID, "upsert")
	return rec, nil
}

// UpdateRecord replaces an existing record wholesale, keeping its id and
// payment history when the caller sends none.
func (s *LedgerService) UpdateRecord(ctx context.Context, col ledger.Collection, id string, rec core.LedgerRecord) (core.LedgerRecord, error) {
	current, err := s.store.GetRecord(ctx, col, id)
	if err != nil {
		return core.LedgerRecord{}, err
	}

	rec.ID = current.ID
	if rec.Payments == nil {
		rec.Payments = current.Payments
	}
	if rec.Transactions == nil {
		rec.Transactions = current.Transactions
	}

	if err := rec.Validate(); err != nil {
		return core.LedgerRecord{}, err
	}
	if err := s.store.PutRecord(ctx, col, rec); err != nil {
		return core.LedgerRecord{}, fmt.Errorf("save record: %w", err)
	}

	s.publishSync(ctx, col, rec.ID, "upsert")
	return rec, nil
}

// DeleteRecord removes a record. Unknown ids are a no-op.
func (s *LedgerService) DeleteRecord(ctx context.Context, col ledger.Collection, id string) error {
	if err := s.store.DeleteRecord(ctx, col, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	s.publishSync(ctx, col, id, "delete")
	return nil
}

// AddPayment appends a payment and reconciles the record's balance and
// status in the same store write.
func (s *LedgerService) AddPayment(ctx context.Context, col ledger.Collection, recordID string, p core.Payment) (core.LedgerRecord, error) {
	rec, err := s.store.GetRecord(ctx, col, recordID)
	if err != nil {
		return core.LedgerRecord{}, err
	}

	p.ID = uuid.NewString()
	if p.Currency == "" {
		p.Currency = rec.Currency
	}
	rec.Payments = append(rec.Payments, p)

	return s.reconcileAndSave(ctx, col, rec)
}

// EditPayment replaces a payment in place. A missing payment id is an error,
// not an insert.
func (s *LedgerService) EditPayment(ctx context.Context, col ledger.Collection, recordID, paymentID string, p core.Payment) (core.LedgerRecord, error) {
	rec, err := s.store.GetRecord(ctx, col, recordID)
	if err != nil {
		return core.LedgerRecord{}, err
	}

	found := false
	for i := range rec.Payments {
		if rec.Payments[i].ID == paymentID {
			p.ID = paymentID
			if p.Currency == "" {
				p.Currency = rec.Payments[i].Currency
			}
			rec.Payments[i] = p
			found = true
			break
		}
	}
	if !found {
		return core.LedgerRecord{}, ledger.ErrNotFound
	}

	return s.reconcileAndSave(ctx, col, rec)
}

// DeletePayment removes a payment and restores its amount to the balance.
// Unknown payment ids are a no-op; the record is reconciled either way.
func (s *LedgerService) DeletePayment(ctx context.Context, col ledger.Collection, recordID, paymentID string) (core.LedgerRecord, error) {
	rec, err := s.store.GetRecord(ctx, col, recordID)
	if err != nil {
		return core.LedgerRecord{}, err
	}

	kept := rec.Payments[:0]
	for _, p := range rec.Payments {
		if p.ID != paymentID {
			kept = append(kept, p)
		}
	}
	rec.Payments = kept

	return s.reconcileAndSave(ctx, col, rec)
}

func (s *LedgerService) reconcileAndSave(ctx context.Context, col ledger.Collection, rec core.LedgerRecord) (core.LedgerRecord, error) {
	res := core.Recalculate(rec, rec.Payments)
	rec.Amount = res.Amount
	rec.Status = res.Status

	if err := s.store.PutRecord(ctx, col, rec); err != nil {
		return core.LedgerRecord{}, fmt.Errorf("save record: %w", err)
	}

	s.publishSync(ctx, col, rec.ID, "upsert")
	return rec, nil
}

// AddTransaction appends a card transaction and sets the record amount to
// the sum of its transactions.
func (s *LedgerService) AddTransaction(ctx context.Context, col ledger.Collection, recordID string, t core.Transaction) (core.LedgerRecord, error) {
	rec, err := s.store.GetRecord(ctx, col, recordID)
	if err != nil {
		return core.LedgerRecord{}, err
	}
	if strings.TrimSpace(t.Merchant) == "" {
		return core.LedgerRecord{}, core.ErrEmptyMerchant
	}

	t.ID = uuid.NewString()
	if t.Currency == "" {
		t.Currency = rec.Currency
	}
	rec.Transactions = append(rec.Transactions, t)

	return s.saveWithCardTotal(ctx, col, rec)
}

// DeleteTransaction removes a card transaction and recomputes the total.
// Unknown transaction ids are a no-op.
func (s *LedgerService) DeleteTransaction(ctx context.Context, col ledger.Collection, recordID, txID string) (core.LedgerRecord, error) {
	rec, err := s.store.GetRecord(ctx, col, recordID)
	if err != nil {
		return core.LedgerRecord{}, err
	}

	kept := rec.Transactions[:0]
	for _, t := range rec.Transactions {
		if t.ID != txID {
			kept = append(kept, t)
		}
	}
	rec.Transactions = kept

	return s.saveWithCardTotal(ctx, col, rec)
}

func (s *LedgerService) saveWithCardTotal(ctx context.Context, col ledger.Collection, rec core.LedgerRecord) (core.LedgerRecord, error) {
	rec.Amount = core.CardTotal(rec.Transactions)

	if err := s.store.PutRecord(ctx, col, rec); err != nil {
		return core.LedgerRecord{}, fmt.Errorf("save record: %w", err)
	}

	s.publishSync(ctx, col, rec.ID, "upsert")
	return rec, nil
}

// Groups returns counterparty groups, optionally narrowed first by a
// liability class and then by the substring filter.
func (s *LedgerService) Groups(ctx context.Context, col ledger.Collection, filter, class string) ([]core.Group, error) {
	records, err := s.store.ListRecords(ctx, col)
	if err != nil {
		return nil, err
	}

	if class != "" {
		if col != ledger.Liabilities {
			return nil, fmt.Errorf("class filter applies to liabilities only")
		}
		records = filterByClass(records, class)
	}

	return core.GroupByCounterparty(records, filter), nil
}

func filterByClass(records []core.LedgerRecord, class string) []core.LedgerRecord {
	var out []core.LedgerRecord
	for _, r := range records {
		switch class {
		case "institutional":
			if r.LiabilityType.IsInstitutional() {
				out = append(out, r)
			}
		case "private":
			if !r.LiabilityType.IsInstitutional() {
				out = append(out, r)
			}
		case "loans":
			if r.LiabilityType.IsLoan() {
				out = append(out, r)
			}
		}
	}
	return out
}

// BillingCycle buckets liabilities by charge day. Days come from the data;
// when no record carries a charge day the default cycle is shown empty.
func (s *LedgerService) BillingCycle(ctx context.Context) ([]core.DayBucket, error) {
	records, err := s.store.ListRecords(ctx, ledger.Liabilities)
	if err != nil {
		return nil, err
	}

	days := core.ChargeDays(records)
	if len(days) == 0 {
		days = core.DefaultChargeDays
	}
	return core.BucketByChargeDay(records, days), nil
}

// Summary is the cockpit headline: converted totals and their difference.
type Summary struct {
	TotalReceivables decimal.Decimal `json:"total_receivables"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	NetPosition      decimal.Decimal `json:"net_position"`
	OpenCharges      int             `json:"open_charges"`
}

func (s *LedgerService) Summary(ctx context.Context) (Summary, error) {
	receivables, err := s.store.ListRecords(ctx, ledger.Receivables)
	if err != nil {
		return Summary{}, err
	}
	liabilities, err := s.store.ListRecords(ctx, ledger.Liabilities)
	if err != nil {
		return Summary{}, err
	}
	charges, err := s.store.ListCharges(ctx)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		TotalReceivables: convertedTotal(receivables),
		TotalLiabilities: convertedTotal(liabilities),
	}
	sum.NetPosition = sum.TotalReceivables.Sub(sum.TotalLiabilities)
	for _, c := range charges {
		if c.Status == core.ChargeToReview {
			sum.OpenCharges++
		}
	}
	return sum, nil
}

func convertedTotal(records []core.LedgerRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(core.ToCanonical(r.Amount, r.Currency))
	}
	return total
}

func (s *LedgerService) ListCharges(ctx context.Context) ([]core.ChargeReviewEntry, error) {
	return s.store.ListCharges(ctx)
}

// CreateCharge queues a charge for review.
func (s *LedgerService) CreateCharge(ctx context.Context, entry core.ChargeReviewEntry) (core.ChargeReviewEntry, error) {
	entry.ID = uuid.NewString()
	entry.Status = core.ChargeToReview

	if err := entry.Validate(); err != nil {
		return core.ChargeReviewEntry{}, err
	}
	if err := s.store.PutCharge(ctx, entry); err != nil {
		return core.ChargeReviewEntry{}, fmt.Errorf("save charge: %w", err)
	}

	s.publishSync(ctx, "charges", entry.ID, "upsert")
	return entry, nil
}

// ApproveCharge marks a charge as reviewed. The entry stays in the queue
// history with its new status.
func (s *LedgerService) ApproveCharge(ctx context.Context, id string) (core.ChargeReviewEntry, error) {
	entry, err := s.store.GetCharge(ctx, id)
	if err != nil {
		return core.ChargeReviewEntry{}, err
	}

	entry.Status = core.ChargeApproved
	if err := s.store.PutCharge(ctx, entry); err != nil {
		return core.ChargeReviewEntry{}, fmt.Errorf("save charge: %w", err)
	}

	s.publishSync(ctx, "charges", id, "upsert")
	return entry, nil
}

// RejectCharge drops a charge from the queue. Unknown ids are a no-op.
func (s *LedgerService) RejectCharge(ctx context.Context, id string) error {
	if err := s.store.DeleteCharge(ctx, id); err != nil {
		return fmt.Errorf("delete charge: %w", err)
	}
	s.publishSync(ctx, "charges", id, "delete")
	return nil
}

// SmartAdd turns a free-text description into a saved record via the model.
func (s *LedgerService) SmartAdd(ctx context.Context, text string) (ledger.Collection, core.LedgerRecord, error) {
	if s.generator == nil {
		return "", core.LedgerRecord{}, ai.ErrNoCredential
	}

	reply, err := s.generator.Generate(ctx, ai.ExtractionPrompt(text))
	if err != nil {
		return "", core.LedgerRecord{}, err
	}

	proposal, err := ai.ParseProposal(reply)
	if err != nil {
		return "", core.LedgerRecord{}, err
	}

	rec, err := s.CreateRecord(ctx, proposal.Collection, proposal.Record)
	if err != nil {
		return "", core.LedgerRecord{}, err
	}

	slog.InfoContext(ctx, "Smart add created record",
		"collection", string(proposal.Collection),
		"id", rec.ID,
		"counterparty", rec.Counterparty)
	return proposal.Collection, rec, nil
}

// Chat answers a free-form question over the current ledger state.
func (s *LedgerService) Chat(ctx context.Context, message string) (string, error) {
	if s.generator == nil {
		return "", ai.ErrNoCredential
	}

	receivables, err := s.store.ListRecords(ctx, ledger.Receivables)
	if err != nil {
		return "", err
	}
	liabilities, err := s.store.ListRecords(ctx, ledger.Liabilities)
	if err != nil {
		return "", err
	}

	contextJSON, err := json.Marshal(map[string]any{
		"receivables": receivables,
		"liabilities": liabilities,
	})
	if err != nil {
		return "", fmt.Errorf("marshal ledger context: %w", err)
	}

	return s.generator.Generate(ctx, ai.BuildChatPrompt(string(contextJSON), message))
}

// Insight is one card on the insights board.
type Insight struct {
	Text string `json:"text"`
}

// insightDelay imitates the analysis latency of the original dashboard so
// the refresh endpoint behaves like a real recompute.
const insightDelay = 1500 * time.Millisecond

// RefreshInsights recomputes the canned insight cards from ledger totals.
func (s *LedgerService) RefreshInsights(ctx context.Context) ([]Insight, error) {
	select {
	case <-time.After(insightDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	sum, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}

	insights := []Insight{
		{Text: fmt.Sprintf("Outstanding receivables total %s against %s in liabilities.",
			core.FormatMoney(sum.TotalReceivables, core.CanonicalCurrency),
			core.FormatMoney(sum.TotalLiabilities, core.CanonicalCurrency))},
	}
	if sum.NetPosition.Sign() < 0 {
		insights = append(insights, Insight{Text: fmt.Sprintf(
			"Net position is negative at %s. Prioritize the largest liability group.",
			core.FormatMoney(sum.NetPosition, core.CanonicalCurrency))})
	} else {
		insights = append(insights, Insight{Text: fmt.Sprintf(
			"Net position is positive at %s.",
			core.FormatMoney(sum.NetPosition, core.CanonicalCurrency))})
	}
	if sum.OpenCharges > 0 {
		insights = append(insights, Insight{Text: fmt.Sprintf(
			"%d card charges are waiting for review.", sum.OpenCharges)})
	}
	return insights, nil
}

func (s *LedgerService) publishSync(ctx context.Context, col ledger.Collection, id, op string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerSync(ctx, string(col), id, op); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"collection", string(col),
			"id", id,
			"op", op,
			"error", err)
		// Mutation already committed locally; the periodic snapshot
		// export covers the gap.
	}
}

// Close releases the store.
func (s *LedgerService) Close() error {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			return fmt.Errorf("close store: %w", err)
		}
	}
	return nil
}
