package ai

import (
	"context"
	"errors"
	"testing"

	"manoah/internal/core"
	"manoah/internal/ledger"
)

func TestParseProposal(t *testing.T) {
	tests := []struct {
		name             string
		reply            string
		wantCollection   ledger.Collection
		wantCounterparty string
		wantAmount       string
		wantCurrency     string
		wantErr          error
	}{
		{
			name:             "bare receivable",
			reply:            `{"type":"receivable","name":"Dana","amount":1500,"currency":"ILS","date":"2025-03-01","note":"lunch loan"}`,
			wantCollection:   ledger.Receivables,
			wantCounterparty: "Dana",
			wantAmount:       "1500",
			wantCurrency:     "ILS",
		},
		{
			name:             "liability with creditor field",
			reply:            `{"type":"liability","creditor":"Bank Leumi","amount":54000.50,"currency":"ILS"}`,
			wantCollection:   ledger.Liabilities,
			wantCounterparty: "Bank Leumi",
			wantAmount:       "54000.5",
			wantCurrency:     "ILS",
		},
		{
			name:             "json wrapped in code fence",
			reply:            "Here you go:\n```json\n{\"type\":\"receivable\",\"name\":\"Omer\",\"amount\":200}\n```",
			wantCollection:   ledger.Receivables,
			wantCounterparty: "Omer",
			wantAmount:       "200",
			wantCurrency:     "ILS",
		},
		{
			name:             "braces inside string values",
			reply:            `{"type":"receivable","name":"Gil","amount":10,"note":"owes {about} half"}`,
			wantCollection:   ledger.Receivables,
			wantCounterparty: "Gil",
			wantAmount:       "10",
			wantCurrency:     "ILS",
		},
		{
			name:    "model reports parse error",
			reply:   `{"error": "cannot parse"}`,
			wantErr: ErrParseFailure,
		},
		{
			name:    "no json at all",
			reply:   "I could not understand that request.",
			wantErr: ErrParseFailure,
		},
		{
			name:    "unknown type",
			reply:   `{"type":"expense","name":"X","amount":5}`,
			wantErr: ErrParseFailure,
		},
		{
			name:    "missing counterparty",
			reply:   `{"type":"receivable","amount":5}`,
			wantErr: ErrParseFailure,
		},
		{
			name:    "non numeric amount",
			reply:   `{"type":"receivable","name":"Y","amount":"lots"}`,
			wantErr: ErrParseFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProposal(tt.reply)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseProposal() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseProposal() error = %v", err)
			}
			if got.Collection != tt.wantCollection {
				t.Errorf("Collection = %v, want %v", got.Collection, tt.wantCollection)
			}
			if got.Record.Counterparty != tt.wantCounterparty {
				t.Errorf("Counterparty = %q, want %q", got.Record.Counterparty, tt.wantCounterparty)
			}
			if got.Record.Amount.String() != tt.wantAmount {
				t.Errorf("Amount = %s, want %s", got.Record.Amount, tt.wantAmount)
			}
			if got.Record.Currency != tt.wantCurrency {
				t.Errorf("Currency = %q, want %q", got.Record.Currency, tt.wantCurrency)
			}
			if got.Record.Status != core.StatusUnpaid {
				t.Errorf("Status = %v, want %v", got.Record.Status, core.StatusUnpaid)
			}
			if got.Record.Payments == nil {
				t.Error("Payments should be initialized, not nil")
			}
			if !got.Record.OriginalAmount.Equal(got.Record.Amount) {
				t.Error("OriginalAmount should mirror Amount on a fresh draft")
			}
		})
	}
}

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		found bool
	}{
		{"plain object", `{"a":1}`, `{"a":1}`, true},
		{"leading prose", `sure: {"a":1} done`, `{"a":1}`, true},
		{"nested object", `{"a":{"b":2}}`, `{"a":{"b":2}}`, true},
		{"brace in string", `{"a":"}"}`, `{"a":"}"}`, true},
		{"escaped quote in string", `{"a":"\"}"}`, `{"a":"\"}"}`, true},
		{"unterminated", `{"a":1`, "", false},
		{"no object", `nothing here`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := firstJSONObject(tt.in)
			if found != tt.found || got != tt.want {
				t.Errorf("firstJSONObject(%q) = %q, %v; want %q, %v", tt.in, got, found, tt.want, tt.found)
			}
		})
	}
}

func TestClientInFlightGuard(t *testing.T) {
	c := NewClient("http://localhost:1", "test-model", "key", 0)

	if !c.inFlight.CompareAndSwap(false, true) {
		t.Fatal("expected in-flight flag to start cleared")
	}
	defer c.inFlight.Store(false)

	if _, err := c.Generate(context.Background(), "hello"); !errors.Is(err, ErrBusy) {
		t.Errorf("Generate() while busy = %v, want ErrBusy", err)
	}
}

func TestClientNoCredential(t *testing.T) {
	c := NewClient("http://localhost:1", "", "", 0)
	if c.Available() {
		t.Error("Available() should be false without an API key")
	}
	if _, err := c.Generate(context.Background(), "hello"); !errors.Is(err, ErrNoCredential) {
		t.Errorf("Generate() without key = %v, want ErrNoCredential", err)
	}
}
