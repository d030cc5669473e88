package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultChargeDays are the days the edit form offers for recurring charges.
var DefaultChargeDays = []int{2, 10, 15, 20}

// DayBucket groups the liabilities charged on one day of the month.
type DayBucket struct {
	Day     int             `json:"day"`
	Records []LedgerRecord  `json:"records"`
	Total   decimal.Decimal `json:"total"`
}

// ChargeDays returns the distinct charge days present in the data,
// ascending. Deriving the set from the data keeps every record visible in
// the billing view, including days the historical fixed set left out.
func ChargeDays(liabilities []LedgerRecord) []int {
	seen := make(map[int]struct{})
	var days []int
	for _, rec := range liabilities {
		if rec.ChargeDay == 0 {
			continue
		}
		if _, ok := seen[rec.ChargeDay]; ok {
			continue
		}
		seen[rec.ChargeDay] = struct{}{}
		days = append(days, rec.ChargeDay)
	}
	sort.Ints(days)
	return days
}

// BucketByChargeDay buckets liabilities with a charge day by exact day match
// against the given day set. A day's total sums each record's monthly
// payment when set, otherwise its converted outstanding balance.
func BucketByChargeDay(liabilities []LedgerRecord, days []int) []DayBucket {
	buckets := make([]DayBucket, 0, len(days))
	for _, day := range days {
		bucket := DayBucket{Day: day, Total: decimal.Zero}
		for _, rec := range liabilities {
			if rec.ChargeDay != day {
				continue
			}
			bucket.Records = append(bucket.Records, rec)
			if rec.MonthlyPayment.Sign() > 0 {
				bucket.Total = bucket.Total.Add(rec.MonthlyPayment)
			} else {
				bucket.Total = bucket.Total.Add(ToCanonical(rec.Amount, rec.Currency))
			}
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}
