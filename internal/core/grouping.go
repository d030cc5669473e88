package core

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Group is a set of records sharing the exact same counterparty name, with
// the converted total of their outstanding balances.
type Group struct {
	Name           string          `json:"name"`
	TotalConverted decimal.Decimal `json:"total_converted"`
	Records        []LedgerRecord  `json:"records"`
	HasUnpaid      bool            `json:"has_unpaid"`
}

// GroupByCounterparty partitions records by exact counterparty name after a
// case-sensitive substring filter, and sorts the groups by converted total,
// largest first. Ties keep first-seen order. Recomputed from scratch on
// every call; the record count stays small.
func GroupByCounterparty(records []LedgerRecord, filter string) []Group {
	index := make(map[string]int)
	var groups []Group

	for _, rec := range records {
		name := rec.Counterparty
		if name == "" {
			name = "Unknown"
		}
		if !strings.Contains(name, filter) {
			continue
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name, TotalConverted: decimal.Zero})
		}
		groups[i].Records = append(groups[i].Records, rec)
		groups[i].TotalConverted = groups[i].TotalConverted.Add(ToCanonical(rec.Amount, rec.Currency))
		if rec.Status == StatusUnpaid {
			groups[i].HasUnpaid = true
		}
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].TotalConverted.GreaterThan(groups[b].TotalConverted)
	})
	return groups
}
