// Package export serializes filtered receipt views into CSV artifacts.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/McKlay/receipt-data-extractor/internal/receipt"
)

// ErrEmptyExport indicates an export was requested over an empty view; no
// file is produced.
var ErrEmptyExport = errors.New("nothing to export")

// Header is the CSV header row.
const Header = "Merchant,Date,Total,Items Count,Items Detail"

// Write serializes the receipts to w in input order, one row per receipt
// after the header. Totals and prices carry exactly two decimals. Fields
// containing delimiter characters are quoted by the CSV writer.
func Write(w io.Writer, receipts []receipt.Receipt) error {
	if len(receipts) == 0 {
		return ErrEmptyExport
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range receipts {
		row := []string{
			r.Merchant,
			r.Date,
			r.Total.StringFixed(2),
			strconv.Itoa(len(r.Items)),
			itemsDetail(r.Items),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// itemsDetail renders "{quantity}x {name} (${price})" per item, joined by
// semicolons.
func itemsDetail(items []receipt.Item) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%dx %s ($%s)", item.Quantity, item.Name, item.Price.StringFixed(2)))
	}
	return strings.Join(parts, ";")
}

// Filename names the export artifact after the export moment, not any
// receipt date.
func Filename(now time.Time) string {
	return fmt.Sprintf("receipts-%s.csv", now.Format("2006-01-02"))
}

// WriteFile saves the export artifact into dir and returns its path.
func WriteFile(dir string, receipts []receipt.Receipt, now time.Time) (string, error) {
	if len(receipts) == 0 {
		return "", ErrEmptyExport
	}

	path := filepath.Join(dir, Filename(now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := Write(f, receipts); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
