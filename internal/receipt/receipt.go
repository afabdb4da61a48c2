package receipt

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is one line item on a receipt. Immutable once attached to a Receipt.
type Item struct {
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
}

// Receipt is a structured record of one purchase transaction.
//
// Total is supplied by the persistence service and is not required to equal
// the sum of item prices; nothing here re-derives it.
type Receipt struct {
	ID        string          `json:"id"`
	Merchant  string          `json:"merchant"`
	Date      string          `json:"date"` // calendar date, 2006-01-02
	Total     decimal.Decimal `json:"total"`
	Items     []Item          `json:"items"`
	CreatedAt time.Time       `json:"created_at"`
}

// Summary is the aggregate over a receipt sequence.
type Summary struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}
