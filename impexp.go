package riskfolio

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/khsu/riskfolio/date"
	"github.com/shopspring/decimal"
)

// this file contains the importers for brokerage CSV exports. The exports are
// not clean CSV: they open with title lines before the header, quote dollar
// amounts with thousands separators, and date settled rows as
// "M/D/YYYY as of M/D/YYYY". The importers are tolerant: a row that cannot be
// parsed is skipped with a warning, never a fatal error.

// ImportTransactionsCSV reads a transaction history export and returns the
// transactions tagged with the given account name. Rows before the header line
// (the one naming Date, Action and Amount columns) are ignored.
func ImportTransactionsCSV(r io.Reader, account string) ([]Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read transactions CSV: %w", err)
	}

	cols := findHeader(records, "Date", "Action", "Amount")
	if cols == nil {
		return nil, fmt.Errorf("transactions CSV: no header row with Date, Action and Amount columns")
	}

	var txs []Transaction
	for i, rec := range records[cols.row+1:] {
		get := func(col int) string {
			if col < 0 || col >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[col])
		}
		on, err := parseUSDate(get(cols.index["Date"]))
		if err != nil {
			log.Printf("skipping transaction row %d: %v", cols.row+2+i, err)
			continue
		}
		amount, err := parseDollars(get(cols.index["Amount"]))
		if err != nil {
			log.Printf("skipping transaction row %d: %v", cols.row+2+i, err)
			continue
		}
		txs = append(txs, Transaction{
			Date:        on,
			Amount:      amount,
			Action:      get(cols.index["Action"]),
			Symbol:      get(cols.index["Symbol"]),
			Description: get(cols.index["Description"]),
			Account:     account,
		})
	}
	return txs, nil
}

// ImportBalancesCSV reads a balance history export with Date and Balance
// columns and returns the observations tagged with the given account name.
func ImportBalancesCSV(r io.Reader, account string) ([]Balance, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read balances CSV: %w", err)
	}

	cols := findHeader(records, "Date", "Balance")
	if cols == nil {
		return nil, fmt.Errorf("balances CSV: no header row with Date and Balance columns")
	}

	var obs []Balance
	for i, rec := range records[cols.row+1:] {
		get := func(col int) string {
			if col < 0 || col >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[col])
		}
		on, err := parseUSDate(get(cols.index["Date"]))
		if err != nil {
			log.Printf("skipping balance row %d: %v", cols.row+2+i, err)
			continue
		}
		value, err := parseDollars(get(cols.index["Balance"]))
		if err != nil {
			log.Printf("skipping balance row %d: %v", cols.row+2+i, err)
			continue
		}
		obs = append(obs, Balance{Date: on, Value: value.InexactFloat64(), Account: account})
	}
	return obs, nil
}

// header locates the column layout of an export: the row index of the header
// line and the column index of each named header.
type header struct {
	row   int
	index map[string]int
}

// findHeader scans for the first row containing all required column names and
// maps every column name on that row to its index.
func findHeader(records [][]string, required ...string) *header {
	for row, rec := range records {
		index := make(map[string]int, len(rec))
		for col, name := range rec {
			index[strings.TrimSpace(name)] = col
		}
		found := true
		for _, name := range required {
			if _, ok := index[name]; !ok {
				found = false
				break
			}
		}
		if found {
			// Columns absent from this export map to -1 so lookups stay safe.
			for _, name := range []string{"Date", "Action", "Symbol", "Description", "Amount", "Balance"} {
				if _, ok := index[name]; !ok {
					index[name] = -1
				}
			}
			return &header{row: row, index: index}
		}
	}
	return nil
}

// parseUSDate parses a M/D/YYYY date. A settled row dated
// "M/D/YYYY as of M/D/YYYY" resolves to the posting date (the first one).
func parseUSDate(s string) (date.Date, error) {
	if before, _, found := strings.Cut(s, " as of "); found {
		s = before
	}
	t, err := time.Parse("1/2/2006", strings.TrimSpace(s))
	if err != nil {
		return date.Date{}, fmt.Errorf("cannot parse date %q: %w", s, err)
	}
	return date.New(t.Date()), nil
}

// parseDollars parses a dollar amount as exported: optional leading $, comma
// thousands separators, and either a minus sign or parentheses for negatives.
func parseDollars(s string) (decimal.Decimal, error) {
	orig := s
	s = strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cannot parse amount %q: %w", orig, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}
