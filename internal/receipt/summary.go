package receipt

import "github.com/shopspring/decimal"

// Summarize computes the aggregate over any receipt sequence: count of
// receipts and sum of their totals. It is a pure function; callers needing
// both a full-collection and a filtered aggregate must call it once per view.
func Summarize(receipts []Receipt) Summary {
	total := decimal.Zero
	for _, r := range receipts {
		total = total.Add(r.Total)
	}
	return Summary{
		Count: len(receipts),
		Total: total,
	}
}
