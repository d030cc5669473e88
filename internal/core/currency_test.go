package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestToCanonical(t *testing.T) {
	cases := []struct {
		amount string
		code   string
		want   string
	}{
		{"100", "ILS", "100"},
		{"100", "USD", "375"},
		{"100", "EUR", "410"},
		{"100", "GBP", "480"},
		{"1000", "JPY", "25"},
		{"2028", "HUF", "20.28"},
		{"100", "UNKNOWN", "100"}, // silent fallback rate 1
		{"100", "", "100"},
		{"1", "BTC", "1"}, // no rate defined on purpose
		{"0", "USD", "0"},
	}
	for _, tc := range cases {
		got := ToCanonical(decimal.RequireFromString(tc.amount), tc.code)
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("ToCanonical(%s, %s) = %s, want %s", tc.amount, tc.code, got, tc.want)
		}
	}
}

func TestToCanonicalDeterministic(t *testing.T) {
	amount := decimal.RequireFromString("123.45")
	first := ToCanonical(amount, "USD")
	second := ToCanonical(amount, "USD")
	if !first.Equal(second) {
		t.Fatalf("identical inputs produced %s and %s", first, second)
	}
}

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		amount string
		code   string
		want   string
	}{
		{"100", "ILS", "₪100"},
		{"41.5", "USD", "$41.5"},
		{"7", "GBP", "£7"},
		{"5", "NOPE", "₪5"}, // unknown code falls back to the first entry
	}
	for _, tc := range cases {
		got := FormatMoney(decimal.RequireFromString(tc.amount), tc.code)
		if got != tc.want {
			t.Fatalf("FormatMoney(%s, %s) = %q, want %q", tc.amount, tc.code, got, tc.want)
		}
	}
}
