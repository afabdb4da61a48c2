// Package extraction manages the upload-and-extract lifecycle for a single
// receipt file and the loosely-shaped payload the extraction service returns.
package extraction

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrExtractFailed indicates the extraction service did not return a
	// payload for the submitted file.
	ErrExtractFailed = errors.New("receipt extraction failed")

	// ErrNoFileSelected indicates submit was invoked with no file staged.
	ErrNoFileSelected = errors.New("no file selected")

	// ErrExtractionInFlight indicates submit was invoked while a previous
	// extraction was still running.
	ErrExtractionInFlight = errors.New("extraction already in flight")
)

// Extractor converts a raw uploaded document into a structured payload.
type Extractor interface {
	Extract(ctx context.Context, token string, file File) (*Result, error)
}

// File is a staged upload: raw bytes plus the metadata the multipart request
// needs.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Result is the payload returned by the extraction service. Every field is
// optional; the service makes no promise of matching the stored Receipt
// shape. Display code applies the fallbacks in View rather than assuming
// presence.
type Result struct {
	Merchant *string          `json:"merchant,omitempty"`
	Date     *string          `json:"date,omitempty"`
	Total    *decimal.Decimal `json:"total,omitempty"`
	Items    []ResultItem     `json:"items,omitempty"`
}

// ResultItem is one extracted line item, all fields optional.
type ResultItem struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}
