package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestGroupByCounterparty(t *testing.T) {
	records := []LedgerRecord{
		{Counterparty: "Dani Weiss", Amount: dec("4000"), Currency: "ILS", Status: StatusUnpaid},
		{Counterparty: "Ahmad", Amount: dec("100"), Currency: "USD", Status: StatusPaid},
		{Counterparty: "Dani Weiss", Amount: dec("600"), Currency: "ILS", Status: StatusPaid},
		{Counterparty: "", Amount: dec("50"), Currency: "ILS", Status: StatusUnpaid},
	}

	groups := GroupByCounterparty(records, "")
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	// Dani Weiss: 4600 ILS, Ahmad: 100 USD * 3.75 = 375, Unknown: 50.
	if groups[0].Name != "Dani Weiss" || !groups[0].TotalConverted.Equal(dec("4600")) {
		t.Fatalf("first group = %s/%s", groups[0].Name, groups[0].TotalConverted)
	}
	if !groups[0].HasUnpaid {
		t.Fatalf("Dani Weiss group should flag unpaid")
	}
	if groups[1].Name != "Ahmad" || !groups[1].TotalConverted.Equal(dec("375")) {
		t.Fatalf("second group = %s/%s", groups[1].Name, groups[1].TotalConverted)
	}
	if groups[1].HasUnpaid {
		t.Fatalf("Ahmad group should not flag unpaid")
	}
	if groups[2].Name != "Unknown" {
		t.Fatalf("empty counterparty should group under Unknown, got %s", groups[2].Name)
	}
}

func TestGroupByCounterpartyFilter(t *testing.T) {
	records := []LedgerRecord{
		{Counterparty: "Bank Hapoalim", Amount: dec("100"), Currency: "ILS"},
		{Counterparty: "Bank Mizrahi", Amount: dec("200"), Currency: "ILS"},
		{Counterparty: "Ezra", Amount: dec("300"), Currency: "ILS"},
	}

	groups := GroupByCounterparty(records, "Bank")
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups for filter, got %d", len(groups))
	}

	// Case-sensitive substring match: "bank" matches nothing.
	if got := GroupByCounterparty(records, "bank"); len(got) != 0 {
		t.Fatalf("lowercase filter matched %d groups", len(got))
	}
}

// Grouping must neither lose nor double-count balance: the sum over groups
// equals the converted sum over matching records.
func TestGroupTotalsConservation(t *testing.T) {
	records := []LedgerRecord{
		{Counterparty: "A", Amount: dec("123.45"), Currency: "USD"},
		{Counterparty: "B", Amount: dec("7207"), Currency: "HUF"},
		{Counterparty: "A", Amount: dec("-50"), Currency: "ILS"},
		{Counterparty: "C", Amount: dec("0.5"), Currency: "BTC"},
	}

	want := decimal.Zero
	for _, rec := range records {
		want = want.Add(ToCanonical(rec.Amount, rec.Currency))
	}

	got := decimal.Zero
	for _, g := range GroupByCounterparty(records, "") {
		got = got.Add(g.TotalConverted)
	}
	if !got.Equal(want) {
		t.Fatalf("group totals = %s, record totals = %s", got, want)
	}
}

func TestGroupSortStableOnTies(t *testing.T) {
	records := []LedgerRecord{
		{Counterparty: "First", Amount: dec("100"), Currency: "ILS"},
		{Counterparty: "Second", Amount: dec("100"), Currency: "ILS"},
		{Counterparty: "Bigger", Amount: dec("500"), Currency: "ILS"},
	}
	groups := GroupByCounterparty(records, "")
	if groups[0].Name != "Bigger" {
		t.Fatalf("largest total should sort first, got %s", groups[0].Name)
	}
	if groups[1].Name != "First" || groups[2].Name != "Second" {
		t.Fatalf("ties must keep insertion order, got %s then %s", groups[1].Name, groups[2].Name)
	}
}
