// Package core holds the ledger domain: records, payments, currency
// conversion, reconciliation and the derived views.
//
// This file defines the currency catalog and the static conversion table.
// Rates are a fixed snapshot, not live quotes; aggregation applies them for
// display-level totals only.
package core

import "github.com/shopspring/decimal"

// CanonicalCurrency is the currency all converted totals are expressed in.
const CanonicalCurrency = "ILS"

// Currency describes one entry of the selectable currency catalog.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Currencies is the fixed catalog. BTC and ETH carry no conversion rate on
// purpose: their quotes are too volatile for a static table, so they convert
// at the fallback rate of 1.
var Currencies = []Currency{
	{Code: "ILS", Symbol: "₪", Name: "Israeli New Shekel"},
	{Code: "USD", Symbol: "$", Name: "US Dollar"},
	{Code: "EUR", Symbol: "€", Name: "Euro"},
	{Code: "GBP", Symbol: "£", Name: "Pound Sterling"},
	{Code: "CHF", Symbol: "Fr", Name: "Swiss Franc"},
	{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar"},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
	{Code: "HUF", Symbol: "Ft", Name: "Hungarian Forint"},
	{Code: "UAH", Symbol: "₴", Name: "Ukrainian Hryvnia"},
	{Code: "BTC", Symbol: "₿", Name: "Bitcoin"},
	{Code: "ETH", Symbol: "Ξ", Name: "Ether"},
}

// rates maps a currency code to its ILS value. Snapshot table; codes missing
// here (UAH, BTC, ETH, typos) silently convert at 1.
var rates = map[string]decimal.Decimal{
	"ILS": decimal.NewFromInt(1),
	"USD": decimal.RequireFromString("3.75"),
	"EUR": decimal.RequireFromString("4.10"),
	"GBP": decimal.RequireFromString("4.80"),
	"CHF": decimal.RequireFromString("4.20"),
	"CAD": decimal.RequireFromString("2.70"),
	"AUD": decimal.RequireFromString("2.45"),
	"JPY": decimal.RequireFromString("0.025"),
	"HUF": decimal.RequireFromString("0.01"),
}

// ToCanonical converts an amount in the given currency to ILS using the
// static rate table. Unknown or empty codes fall back to a rate of 1 without
// error. Pure; no rounding is applied here.
func ToCanonical(amount decimal.Decimal, code string) decimal.Decimal {
	rate, ok := rates[code]
	if !ok {
		return amount
	}
	return amount.Mul(rate)
}

// FormatMoney renders an amount with its currency symbol. Unknown codes use
// the first catalog entry, mirroring how the forms default to ILS.
func FormatMoney(amount decimal.Decimal, code string) string {
	cur := Currencies[0]
	for _, c := range Currencies {
		if c.Code == code {
			cur = c
			break
		}
	}
	return cur.Symbol + amount.String()
}
