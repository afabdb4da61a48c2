package receipt

import (
	"sort"
	"strings"
	"time"
)

// FilterCriteria narrows a receipt collection. Merchant matches as a
// case-insensitive substring; Date matches exactly, empty means no
// constraint. Both conditions are conjunctive.
type FilterCriteria struct {
	Merchant string
	Date     string
}

// SortField names the receipt field a sort compares on.
type SortField string

const (
	SortByDate     SortField = "date"
	SortByMerchant SortField = "merchant"
	SortByTotal    SortField = "total"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// SortSpec selects the comparison field and direction for a query.
type SortSpec struct {
	Field SortField
	Order SortOrder
}

// Query returns the filtered, ordered view of receipts selected by the
// criteria and sort spec. It is pure: the input slice is never mutated and
// the result is a fresh slice.
func Query(receipts []Receipt, filter FilterCriteria, spec SortSpec) []Receipt {
	merchant := strings.ToLower(filter.Merchant)

	view := make([]Receipt, 0, len(receipts))
	for _, r := range receipts {
		if !strings.Contains(strings.ToLower(r.Merchant), merchant) {
			continue
		}
		if filter.Date != "" && filter.Date != r.Date {
			continue
		}
		view = append(view, r)
	}

	sort.Slice(view, func(i, j int) bool {
		c := compare(view[i], view[j], spec.Field)
		if c == 0 {
			// Deterministic tie-break on id.
			c = strings.Compare(view[i].ID, view[j].ID)
		}
		if spec.Order == Descending {
			return c > 0
		}
		return c < 0
	})

	return view
}

// compare orders two receipts on the named field, ascending. Dates compare
// as calendar instants, not strings; a date that fails to parse sorts as the
// zero instant.
func compare(a, b Receipt, field SortField) int {
	switch field {
	case SortByMerchant:
		return strings.Compare(strings.ToLower(a.Merchant), strings.ToLower(b.Merchant))
	case SortByTotal:
		return a.Total.Cmp(b.Total)
	default:
		return parseDate(a.Date).Compare(parseDate(b.Date))
	}
}

func parseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
