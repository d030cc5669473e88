package core

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRecalculate(t *testing.T) {
	cases := []struct {
		name       string
		original   string
		current    string
		payments   []string
		wantAmount string
		wantStatus Status
	}{
		{"no payments", "6000", "6000", nil, "6000", StatusUnpaid},
		{"partial", "6000", "6000", []string{"2000"}, "4000", StatusPartiallyPaid},
		{"exact payoff", "6000", "6000", []string{"2000", "4000"}, "0", StatusPaid},
		{"overpayment", "6000", "6000", []string{"7000"}, "-1000", StatusPaid},
		{"zero payment", "100", "100", []string{"0"}, "100", StatusUnpaid},
		{"principal fallback to amount", "0", "500", []string{"200"}, "300", StatusPartiallyPaid},
		{"fractional", "10.50", "10.50", []string{"0.25", "0.25"}, "10", StatusPartiallyPaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := LedgerRecord{OriginalAmount: dec(tc.original), Amount: dec(tc.current)}
			var payments []Payment
			for _, a := range tc.payments {
				payments = append(payments, Payment{Amount: dec(a)})
			}
			got := Recalculate(rec, payments)
			if !got.Amount.Equal(dec(tc.wantAmount)) {
				t.Fatalf("amount = %s, want %s", got.Amount, tc.wantAmount)
			}
			if got.Status != tc.wantStatus {
				t.Fatalf("status = %s, want %s", got.Status, tc.wantStatus)
			}
		})
	}
}

// Random add/edit/delete sequences: after every operation the balance must
// equal the principal minus the exact payment sum, and the status must
// follow from the totals.
func TestRecalculateConsistencyRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for run := 0; run < 50; run++ {
		principal := decimal.NewFromInt(rng.Int63n(100_000) + 1)
		rec := LedgerRecord{OriginalAmount: principal, Amount: principal}
		var payments []Payment

		for op := 0; op < 40; op++ {
			switch action := rng.Intn(3); {
			case action == 0 || len(payments) == 0:
				payments = append(payments, Payment{
					ID:     strconv.Itoa(op),
					Amount: decimal.New(rng.Int63n(500_000), -2), // up to 5000.00
				})
			case action == 1:
				payments[rng.Intn(len(payments))].Amount = decimal.New(rng.Int63n(500_000), -2)
			default:
				i := rng.Intn(len(payments))
				payments = append(payments[:i], payments[i+1:]...)
			}

			got := Recalculate(rec, payments)

			total := decimal.Zero
			for _, p := range payments {
				total = total.Add(p.Amount)
			}
			if !got.Amount.Equal(principal.Sub(total)) {
				t.Fatalf("run %d op %d: amount = %s, want %s", run, op, got.Amount, principal.Sub(total))
			}
			switch {
			case got.Amount.Sign() <= 0:
				if got.Status != StatusPaid {
					t.Fatalf("run %d op %d: balance %s but status %s", run, op, got.Amount, got.Status)
				}
			case total.Sign() > 0:
				if got.Status != StatusPartiallyPaid {
					t.Fatalf("run %d op %d: paid %s but status %s", run, op, total, got.Status)
				}
			default:
				if got.Status != StatusUnpaid {
					t.Fatalf("run %d op %d: nothing paid but status %s", run, op, got.Status)
				}
			}
		}
	}
}

// The end-to-end scenario from the payment manager: pay 2000, pay 4000, then
// delete the second payment. The balance must restore exactly because it is
// derived, never incrementally drifted.
func TestRecalculateRestoresAfterDelete(t *testing.T) {
	rec := LedgerRecord{OriginalAmount: dec("6000"), Amount: dec("6000"), Currency: "ILS"}

	payments := []Payment{{ID: "p1", Amount: dec("2000")}}
	res := Recalculate(rec, payments)
	if !res.Amount.Equal(dec("4000")) || res.Status != StatusPartiallyPaid {
		t.Fatalf("after first payment: %s/%s", res.Amount, res.Status)
	}

	payments = append(payments, Payment{ID: "p2", Amount: dec("4000")})
	res = Recalculate(rec, payments)
	if !res.Amount.Equal(dec("0")) || res.Status != StatusPaid {
		t.Fatalf("after second payment: %s/%s", res.Amount, res.Status)
	}

	payments = payments[:1]
	res = Recalculate(rec, payments)
	if !res.Amount.Equal(dec("4000")) || res.Status != StatusPartiallyPaid {
		t.Fatalf("after deleting second payment: %s/%s", res.Amount, res.Status)
	}
}

func TestPercentPaid(t *testing.T) {
	cases := []struct {
		name     string
		original string
		payments []string
		want     int
	}{
		{"nothing paid", "1000", nil, 0},
		{"half", "1000", []string{"500"}, 50},
		{"rounding", "3000", []string{"1000"}, 33},
		{"full", "1000", []string{"1000"}, 100},
		{"overpaid capped", "1000", []string{"1500"}, 100},
		{"zero principal", "0", []string{"100"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := LedgerRecord{OriginalAmount: dec(tc.original)}
			for _, a := range tc.payments {
				rec.Payments = append(rec.Payments, Payment{Amount: dec(a)})
			}
			if got := PercentPaid(rec); got != tc.want {
				t.Fatalf("PercentPaid = %d, want %d", got, tc.want)
			}
		})
	}
}

// Card scenario: transactions of 14 and 132 sum to 146; removing the first
// leaves 132.
func TestCardTotal(t *testing.T) {
	txs := []Transaction{
		{ID: "t1", Amount: dec("14"), Currency: "ILS"},
		{ID: "t2", Amount: dec("132"), Currency: "ILS"},
	}
	if got := CardTotal(txs); !got.Equal(dec("146")) {
		t.Fatalf("total = %s, want 146", got)
	}
	if got := CardTotal(txs[1:]); !got.Equal(dec("132")) {
		t.Fatalf("total after delete = %s, want 132", got)
	}
	if got := CardTotal(nil); !got.Equal(dec("0")) {
		t.Fatalf("empty total = %s, want 0", got)
	}
}
