package riskfolio

import (
	"strings"
	"testing"
	"time"

	"github.com/khsu/riskfolio/date"
	"github.com/shopspring/decimal"
)

const transactionsCSV = `"Transactions for account Brokerage ...123 as of 06/07/2025"
"Date","Action","Symbol","Description","Quantity","Price","Fees & Comm","Amount"
"06/05/2025","Buy","VOO","VANGUARD S&P 500 ETF","2","$551.10","","-$1,102.20"
"06/04/2025 as of 06/03/2025","MoneyLink Deposit","","TFR FROM CHECKING","","","","$5,000.00"
"06/02/2025","Cash Dividend","SGOV","ISHARES 0-3 MONTH TREASURY","","","","$41.37"
"not a date","Buy","VOO","BAD ROW","","","","$1.00"
`

func TestImportTransactionsCSV(t *testing.T) {
	txs, err := ImportTransactionsCSV(strings.NewReader(transactionsCSV), "Brokerage ...123")
	if err != nil {
		t.Fatalf("ImportTransactionsCSV() error: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("imported %d transactions, want 3 (bad row skipped)", len(txs))
	}

	buy := txs[0]
	if buy.Action != "Buy" || buy.Symbol != "VOO" {
		t.Errorf("first row = %+v", buy)
	}
	if want := decimal.RequireFromString("-1102.20"); !buy.Amount.Equal(want) {
		t.Errorf("buy amount = %s, want %s", buy.Amount, want)
	}

	deposit := txs[1]
	if want := date.New(2025, time.June, 4); deposit.Date != want {
		t.Errorf("deposit date = %s, want posting date %s", deposit.Date, want)
	}
	if want := decimal.RequireFromString("5000"); !deposit.Amount.Equal(want) {
		t.Errorf("deposit amount = %s, want %s", deposit.Amount, want)
	}
	if deposit.Account != "Brokerage ...123" {
		t.Errorf("deposit account = %q", deposit.Account)
	}
	if !deposit.IsCapitalFlow() {
		t.Error("deposit not classified as capital flow")
	}
	if txs[2].IsCapitalFlow() {
		t.Error("dividend classified as capital flow")
	}
}

const balancesCSV = `"Balance history export"
"Date","Balance"
"06/02/2025","$100,000.00"
"06/03/2025","$105,500.50"
"","bad row"
`

func TestImportBalancesCSV(t *testing.T) {
	obs, err := ImportBalancesCSV(strings.NewReader(balancesCSV), "Brokerage ...123")
	if err != nil {
		t.Fatalf("ImportBalancesCSV() error: %v", err)
	}
	if len(obs) != 2 {
		t.Fatalf("imported %d balances, want 2", len(obs))
	}
	if obs[0].Value != 100_000 {
		t.Errorf("first balance = %v, want 100000", obs[0].Value)
	}
	if obs[1].Value != 105_500.50 {
		t.Errorf("second balance = %v, want 105500.50", obs[1].Value)
	}
}

func TestImportTransactionsCSV_NoHeader(t *testing.T) {
	if _, err := ImportTransactionsCSV(strings.NewReader("just,some,noise\n"), "x"); err == nil {
		t.Error("want an error when no header row is present")
	}
}

func TestParseDollars(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"$1,234.56", "1234.56"},
		{"-$1,102.20", "-1102.20"},
		{"($500.00)", "-500"},
		{"41.37", "41.37"},
	}
	for _, c := range cases {
		got, err := parseDollars(c.in)
		if err != nil {
			t.Errorf("parseDollars(%q) error: %v", c.in, err)
			continue
		}
		if want := decimal.RequireFromString(c.want); !got.Equal(want) {
			t.Errorf("parseDollars(%q) = %s, want %s", c.in, got, want)
		}
	}
	if _, err := parseDollars(""); err == nil {
		t.Error("parseDollars(\"\") want error")
	}
}
