package core

import (
	"reflect"
	"testing"
)

func TestChargeDays(t *testing.T) {
	liabilities := []LedgerRecord{
		{Counterparty: "a", ChargeDay: 15},
		{Counterparty: "b", ChargeDay: 2},
		{Counterparty: "c", ChargeDay: 15},
		{Counterparty: "d"}, // no charge day
		{Counterparty: "e", ChargeDay: 20},
	}
	got := ChargeDays(liabilities)
	if !reflect.DeepEqual(got, []int{2, 15, 20}) {
		t.Fatalf("ChargeDays = %v", got)
	}
	if got := ChargeDays(nil); len(got) != 0 {
		t.Fatalf("empty input should yield no days, got %v", got)
	}
}

func TestBucketByChargeDay(t *testing.T) {
	liabilities := []LedgerRecord{
		{Counterparty: "Bank Hapoalim", ChargeDay: 15, MonthlyPayment: dec("2027"), Amount: dec("54000"), Currency: "ILS"},
		{Counterparty: "Pepper Bank", ChargeDay: 15, Amount: dec("8000"), Currency: "ILS"},
		{Counterparty: "Friend", ChargeDay: 2, Amount: dec("100"), Currency: "USD"},
		{Counterparty: "No cycle", Amount: dec("999"), Currency: "ILS"},
	}

	buckets := BucketByChargeDay(liabilities, ChargeDays(liabilities))
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}

	// Day 2: converted amount (no monthly payment set).
	if buckets[0].Day != 2 || !buckets[0].Total.Equal(dec("375")) {
		t.Fatalf("day 2 bucket = %d/%s", buckets[0].Day, buckets[0].Total)
	}
	// Day 15: monthly payment wins over the balance when present.
	if buckets[1].Day != 15 || !buckets[1].Total.Equal(dec("10027")) {
		t.Fatalf("day 15 bucket = %d/%s", buckets[1].Day, buckets[1].Total)
	}
	if len(buckets[1].Records) != 2 {
		t.Fatalf("day 15 should hold 2 records, got %d", len(buckets[1].Records))
	}
}

// A record whose charge day is outside the requested set lands in no bucket;
// deriving days from the data avoids losing it.
func TestBucketByChargeDayVisibility(t *testing.T) {
	liabilities := []LedgerRecord{
		{Counterparty: "edge", ChargeDay: 20, Amount: dec("100"), Currency: "ILS"},
	}

	fixed := BucketByChargeDay(liabilities, []int{2, 10, 15})
	for _, b := range fixed {
		if len(b.Records) != 0 {
			t.Fatalf("day %d unexpectedly caught a record", b.Day)
		}
	}

	derived := BucketByChargeDay(liabilities, ChargeDays(liabilities))
	if len(derived) != 1 || len(derived[0].Records) != 1 {
		t.Fatalf("derived days should include day 20: %+v", derived)
	}
}
