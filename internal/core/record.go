package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	StatusUnpaid        Status = "unpaid"
	StatusPartiallyPaid Status = "partially_paid"
	StatusPaid          Status = "paid"
	StatusPending       Status = "pending"
	StatusDisputed      Status = "disputed"
)

const (
	LiabilityPrivateLoan LiabilityType = "private_loan"
	LiabilityFamily      LiabilityType = "family"
	LiabilityFriends     LiabilityType = "friends"
	LiabilityBank        LiabilityType = "bank"
	LiabilityCreditCard  LiabilityType = "credit_card"
	LiabilityMortgage    LiabilityType = "mortgage"
	LiabilityOther       LiabilityType = "other"
)

const (
	ChargeToReview ChargeStatus = "to_review"
	ChargeApproved ChargeStatus = "approved"
)

type (
	// Status is the payment state of a ledger record. paid/partially_paid/
	// unpaid are derived from the payment history; pending and disputed are
	// set only by manual edit and survive until a payment is recorded.
	Status string

	// LiabilityType determines which optional fields of a liability record
	// are meaningful (bank/loan fields, card fields).
	LiabilityType string

	ChargeStatus string

	// Payment is one entry in a record's payment history. Owned exclusively
	// by its parent record. Dates are kept as entered (YYYY-MM-DD).
	Payment struct {
		ID       string          `json:"id"`
		Date     string          `json:"date"`
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
		Type     string          `json:"type"`
		Note     string          `json:"note,omitempty"`
	}

	// Transaction is a single credit-card charge. Dates arrive in whatever
	// format the card statement uses, so they are stored verbatim.
	Transaction struct {
		ID       string          `json:"id"`
		Date     string          `json:"date"`
		Merchant string          `json:"merchant"`
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
		Note     string          `json:"note,omitempty"`
	}

	// LedgerRecord is a receivable or a liability. Amount is the current
	// outstanding balance in Currency; OriginalAmount is the principal at
	// creation. The loan/card fields are meaningful only for the matching
	// LiabilityType.
	LedgerRecord struct {
		ID             string          `json:"id"`
		Counterparty   string          `json:"counterparty"`
		Amount         decimal.Decimal `json:"amount"`
		OriginalAmount decimal.Decimal `json:"original_amount"`
		Currency       string          `json:"currency"`
		Status         Status          `json:"status"`
		Date           string          `json:"date,omitempty"`
		Note           string          `json:"note,omitempty"`

		LiabilityType LiabilityType `json:"liability_type,omitempty"`
		ChargeDay     int           `json:"charge_day,omitempty"`

		BankName          string          `json:"bank_name,omitempty"`
		LoanNumber        string          `json:"loan_number,omitempty"`
		InterestType      string          `json:"interest_type,omitempty"`
		InterestRate      decimal.Decimal `json:"interest_rate,omitempty"`
		LoanMargin        decimal.Decimal `json:"loan_margin,omitempty"`
		MonthlyPayment    decimal.Decimal `json:"monthly_payment,omitempty"`
		InstallmentsTotal int             `json:"installments_total,omitempty"`
		InstallmentsPaid  int             `json:"installments_paid,omitempty"`
		StartDate         string          `json:"start_date,omitempty"`

		CardDigits   string        `json:"card_digits,omitempty"`
		Transactions []Transaction `json:"transactions,omitempty"`

		Payments []Payment `json:"payments"`
	}

	// ChargeReviewEntry is an ambiguous charge awaiting a manual decision.
	// Independent of the ledger records; CardLabel is free text.
	ChargeReviewEntry struct {
		ID        string          `json:"id"`
		Merchant  string          `json:"merchant"`
		Amount    decimal.Decimal `json:"amount"`
		Currency  string          `json:"currency"`
		Date      string          `json:"date"`
		CardLabel string          `json:"card"`
		Status    ChargeStatus    `json:"status"`
		Note      string          `json:"note,omitempty"`
	}
)

var (
	ErrEmptyCounterparty = errors.New("empty counterparty name")
	ErrEmptyMerchant     = errors.New("empty merchant name")
	ErrNoteTooLong       = errors.New("note too long (max 500 characters)")
	ErrInvalidChargeDay  = errors.New("invalid charge day")
	ErrInvalidStatus     = errors.New("invalid status")
)

// IsInstitutional reports whether the liability belongs to the
// bank/card/mortgage family rather than a private arrangement.
func (t LiabilityType) IsInstitutional() bool {
	switch t {
	case LiabilityBank, LiabilityCreditCard, LiabilityMortgage:
		return true
	}
	return false
}

// IsLoan reports whether the liability shows up in the loan portfolio view.
func (t LiabilityType) IsLoan() bool {
	return t == LiabilityPrivateLoan || t == LiabilityMortgage
}

func (s Status) Valid() bool {
	switch s {
	case StatusUnpaid, StatusPartiallyPaid, StatusPaid, StatusPending, StatusDisputed:
		return true
	}
	return false
}

// Validate checks the fields a record cannot do without. Amount signs and
// currency codes are deliberately not validated; conversion falls back to a
// rate of 1 for unknown codes.
func (r LedgerRecord) Validate() error {
	if strings.TrimSpace(r.Counterparty) == "" {
		return ErrEmptyCounterparty
	}
	if len(r.Note) > 500 {
		return ErrNoteTooLong
	}
	if r.Status != "" && !r.Status.Valid() {
		return ErrInvalidStatus
	}
	if r.ChargeDay < 0 || r.ChargeDay > 31 {
		return ErrInvalidChargeDay
	}
	return nil
}

func (c ChargeReviewEntry) Validate() error {
	if strings.TrimSpace(c.Merchant) == "" {
		return ErrEmptyMerchant
	}
	if len(c.Note) > 500 {
		return ErrNoteTooLong
	}
	return nil
}

// Clone returns a deep copy; the payment and transaction slices are owned by
// the record and must not leak between callers.
func (r LedgerRecord) Clone() LedgerRecord {
	out := r
	if r.Payments != nil {
		out.Payments = append([]Payment(nil), r.Payments...)
	}
	if r.Transactions != nil {
		out.Transactions = append([]Transaction(nil), r.Transactions...)
	}
	return out
}
