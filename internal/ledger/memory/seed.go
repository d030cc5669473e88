package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"manoah/internal/core"
	"manoah/internal/ledger"
)

// NewSeeded returns a store preloaded with a small demo dataset so a dev run
// of the server has something to show.
func NewSeeded() *Store {
	s := New()
	ctx := context.Background()

	d := func(v string) decimal.Decimal { return decimal.RequireFromString(v) }

	receivables := []core.LedgerRecord{
		{ID: "r-1", Counterparty: "Neta Weiss", Amount: d("4000"), OriginalAmount: d("4000"), Currency: "ILS",
			Status: core.StatusUnpaid, Date: "2025-11-01", Note: "Emergency loan, bank transfer", Payments: []core.Payment{}},
		{ID: "r-2", Counterparty: "Ahmad", Amount: d("37500"), OriginalAmount: d("10000"), Currency: "ILS",
			Status: core.StatusUnpaid, Date: "2025-10-15", Note: "Dollar deal (10,000$)", Payments: []core.Payment{}},
		{ID: "r-3", Counterparty: "Ezra Kifno", Amount: d("10000"), OriginalAmount: d("10000"), Currency: "ILS",
			Status: core.StatusUnpaid, Date: "2025-10-20", Payments: []core.Payment{}},
		{ID: "r-4", Counterparty: "Landa", Amount: d("240"), OriginalAmount: d("240"), Currency: "USD",
			Status: core.StatusPending, Date: "2025-10-11", Note: "Train help (originally 240$)", Payments: []core.Payment{}},
		{ID: "r-5", Counterparty: "Pinchas Fried", Amount: d("200"), OriginalAmount: d("200"), Currency: "ILS",
			Status: core.StatusDisputed, Note: "Delivery dispute", Payments: []core.Payment{}},
	}
	for _, rec := range receivables {
		_ = s.PutRecord(ctx, ledger.Receivables, rec)
	}

	liabilities := []core.LedgerRecord{
		{ID: "l-1", Counterparty: "Azriel Bloy", Amount: d("1610"), OriginalAmount: d("1610"), Currency: "ILS",
			LiabilityType: core.LiabilityPrivateLoan, Date: "2025-11-15", ChargeDay: 15,
			Status: core.StatusUnpaid, Payments: []core.Payment{}},
		{ID: "l-2", Counterparty: "Dad", Amount: d("2000"), OriginalAmount: d("6000"), Currency: "ILS",
			LiabilityType: core.LiabilityFamily, Date: "2025-02-11", ChargeDay: 11,
			Status: core.StatusPartiallyPaid, Payments: []core.Payment{
				{ID: "p-101", Date: "2025-10-01", Amount: d("2000"), Currency: "ILS", Type: "transfer", Note: "payment 1"},
			}},
		{ID: "l-3", Counterparty: "Bank Hapoalim (loan)", BankName: "Hapoalim", LoanNumber: "Bank Loan",
			Amount: d("54000"), OriginalAmount: d("60000"), Currency: "ILS",
			LiabilityType: core.LiabilityBank, ChargeDay: 15, Status: core.StatusUnpaid,
			InstallmentsTotal: 60, InstallmentsPaid: 12, MonthlyPayment: d("2027"),
			InterestType: "prime", Payments: []core.Payment{}},
		{ID: "l-4", Counterparty: "AMEX Fly Card", BankName: "Hapoalim", CardDigits: "8530",
			Amount: d("41423"), OriginalAmount: d("41423"), Currency: "ILS",
			LiabilityType: core.LiabilityCreditCard, Date: "2025-10-15", ChargeDay: 15,
			Status: core.StatusUnpaid, MonthlyPayment: d("41423"), Payments: []core.Payment{},
			Transactions: []core.Transaction{
				{ID: "t-1", Date: "05.10.25", Merchant: "Nechama Bakery Beit Shemesh", Amount: d("14"), Currency: "ILS"},
				{ID: "t-2", Date: "05.10.25", Merchant: "HERTZ UK", Amount: d("132"), Currency: "GBP", Note: "charged 596.49 ILS"},
				{ID: "t-3", Date: "04.11.25", Merchant: "Dental Health Lev HaRama", Amount: d("3760"), Currency: "ILS"},
			}},
		{ID: "l-5", Counterparty: "Diners Platinum", BankName: "Hapoalim", CardDigits: "1111",
			Amount: d("10996"), OriginalAmount: d("10996"), Currency: "ILS",
			LiabilityType: core.LiabilityCreditCard, Date: "2025-10-02", ChargeDay: 2,
			Status: core.StatusUnpaid, MonthlyPayment: d("10996"), Payments: []core.Payment{},
			Transactions: []core.Transaction{
				{ID: "t-4", Date: "30/09/25", Merchant: "LIME*2 RIDES", Amount: d("2028"), Currency: "HUF", Note: "charged 20.57 ILS"},
				{ID: "t-5", Date: "19/09/25", Merchant: "Google YouTube", Amount: d("23.90"), Currency: "ILS"},
			}},
	}
	for _, rec := range liabilities {
		_ = s.PutRecord(ctx, ledger.Liabilities, rec)
	}

	charges := []core.ChargeReviewEntry{
		{ID: "c-1", Merchant: "Google GSuite", Amount: d("18.29"), Currency: "USD", Date: "2025-10-02",
			CardLabel: "Diners 1111", Status: core.ChargeToReview, Note: "Google mail service for the business"},
		{ID: "c-2", Merchant: "AMAZON PRIME", Amount: d("16.25"), Currency: "USD", Date: "2025-08-10",
			CardLabel: "Diners", Status: core.ChargeToReview, Note: "check the renewal date"},
		{ID: "c-3", Merchant: "SQSP* WORKSP", Amount: d("123.02"), Currency: "ILS", Date: "2025-06-10",
			CardLabel: "", Status: core.ChargeToReview, Note: "verify the site was charged only once"},
	}
	for _, c := range charges {
		_ = s.PutCharge(ctx, c)
	}

	return s
}
