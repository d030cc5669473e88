package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"manoah/internal/core"
	"manoah/internal/ledger"
)

// ExtractionPrompt wraps a free-text description of a debt, loan or payment
// in the parser instructions. The model must answer with a single JSON
// object in one of two shapes (liability or receivable).
func ExtractionPrompt(text string) string {
	const systemPrompt = `You are a financial data parser.
The user will provide a sentence describing a debt, loan, or payment.
You must extract the data and return ONLY a valid JSON object.

Target format (Liability/Loan):
{
  "type": "liability",
  "creditor": "Name",
  "amount": 1000,
  "currency": "ILS",
  "date": "YYYY-MM-DD",
  "note": "Description"
}

Target format (Receivable):
{
  "type": "receivable",
  "name": "Name",
  "amount": 1000,
  "currency": "ILS",
  "date": "YYYY-MM-DD",
  "note": "Description"
}

If you cannot parse it, return {"error": "cannot parse"}.
Return ONLY JSON.`

	return fmt.Sprintf("%s\n\nUser Input: %q", systemPrompt, text)
}

// Proposal is a structured record draft extracted from model output.
type Proposal struct {
	Collection ledger.Collection
	Record     core.LedgerRecord
}

type rawProposal struct {
	Type     string      `json:"type"`
	Error    string      `json:"error"`
	Name     string      `json:"name"`
	Creditor string      `json:"creditor"`
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
	Date     string      `json:"date"`
	Note     string      `json:"note"`
}

// ParseProposal scans model output for the first balanced JSON object and
// converts it into a record draft. Models wrap their JSON in prose or code
// fences often enough that a straight Unmarshal of the whole reply is
// useless.
func ParseProposal(reply string) (Proposal, error) {
	blob, ok := firstJSONObject(reply)
	if !ok {
		return Proposal{}, fmt.Errorf("%w: no JSON object in reply", ErrParseFailure)
	}

	var raw rawProposal
	dec := json.NewDecoder(strings.NewReader(blob))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return Proposal{}, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}

	if raw.Error != "" {
		return Proposal{}, fmt.Errorf("%w: model reported %q", ErrParseFailure, raw.Error)
	}

	var col ledger.Collection
	var counterparty string
	switch raw.Type {
	case "receivable":
		col = ledger.Receivables
		counterparty = raw.Name
	case "liability":
		col = ledger.Liabilities
		counterparty = raw.Creditor
		if counterparty == "" {
			counterparty = raw.Name
		}
	default:
		return Proposal{}, fmt.Errorf("%w: unknown type %q", ErrParseFailure, raw.Type)
	}

	if strings.TrimSpace(counterparty) == "" {
		return Proposal{}, fmt.Errorf("%w: missing counterparty name", ErrParseFailure)
	}

	amount := decimal.Zero
	if raw.Amount != "" {
		var err error
		amount, err = decimal.NewFromString(raw.Amount.String())
		if err != nil {
			return Proposal{}, fmt.Errorf("%w: bad amount %q", ErrParseFailure, raw.Amount)
		}
	}

	currency := raw.Currency
	if currency == "" {
		currency = "ILS"
	}

	return Proposal{
		Collection: col,
		Record: core.LedgerRecord{
			Counterparty:   counterparty,
			Amount:         amount,
			OriginalAmount: amount,
			Currency:       currency,
			Status:         core.StatusUnpaid,
			Date:           raw.Date,
			Note:           raw.Note,
			Payments:       []core.Payment{},
		},
	}, nil
}

// firstJSONObject returns the first balanced {...} span in s. Braces inside
// JSON strings do not count toward the depth.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
