package schwab

import (
	"testing"
	"time"

	"github.com/khsu/riskfolio/date"
	"github.com/shopspring/decimal"
)

const accountPayload = `{
  "securitiesAccount": {
    "accountNumber": "...123",
    "currentBalances": {"liquidationValue": 106000.50},
    "positions": [
      {"marketValue": 60000, "instrument": {"symbol": "VOO", "assetType": "COLLECTIVE_INVESTMENT"}},
      {"marketValue": 5000, "instrument": {"symbol": "TSLA 06/20/2025 300.00 C", "assetType": "OPTION"}}
    ]
  }
}`

func TestDecodeSnapshot(t *testing.T) {
	value, holdings, err := decodeSnapshot([]byte(accountPayload))
	if err != nil {
		t.Fatalf("decodeSnapshot() error: %v", err)
	}
	if value != 106_000.50 {
		t.Errorf("liquidation value = %v, want 106000.50", value)
	}
	if len(holdings) != 2 {
		t.Fatalf("decoded %d holdings, want 2", len(holdings))
	}
	if holdings[0].Symbol != "VOO" || holdings[0].MarketValue != 60_000 {
		t.Errorf("first holding = %+v", holdings[0])
	}
	if !holdings[1].IsOption() {
		t.Error("second holding not recognized as option")
	}
}

func TestDecodeSnapshot_AggregatedFallback(t *testing.T) {
	payload := `{"aggregatedBalance": {"liquidationValue": 42000}}`
	value, _, err := decodeSnapshot([]byte(payload))
	if err != nil {
		t.Fatalf("decodeSnapshot() error: %v", err)
	}
	if value != 42_000 {
		t.Errorf("liquidation value = %v, want 42000", value)
	}
}

func TestDecodeSnapshot_MissingValue(t *testing.T) {
	if _, _, err := decodeSnapshot([]byte(`{"securitiesAccount": {}}`)); err == nil {
		t.Error("want an error when the payload has no liquidation value")
	}
}

const transactionsPayload = `[
  {"tradeDate": "2025-06-03T14:23:11Z", "type": "ACH_RECEIPT", "description": "MoneyLink Transfer", "netAmount": 5000},
  {"tradeDate": "2025-06-05T09:30:00Z", "type": "TRADE", "description": "Buy", "netAmount": -1102.20,
   "transferItems": [{"instrument": {"symbol": "VOO"}}]},
  {"tradeDate": "garbage", "type": "TRADE", "netAmount": 1}
]`

func TestDecodeTransactions(t *testing.T) {
	txs, err := decodeTransactions([]byte(transactionsPayload), "...123")
	if err != nil {
		t.Fatalf("decodeTransactions() error: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("decoded %d transactions, want 2 (bad date skipped)", len(txs))
	}

	deposit := txs[0]
	if want := date.New(2025, time.June, 3); deposit.Date != want {
		t.Errorf("deposit date = %s, want %s", deposit.Date, want)
	}
	if !deposit.Amount.Equal(decimal.NewFromInt(5_000)) {
		t.Errorf("deposit amount = %s, want 5000", deposit.Amount)
	}
	if !deposit.IsCapitalFlow() {
		t.Error("ACH_RECEIPT not classified as capital flow")
	}
	if deposit.Account != "...123" {
		t.Errorf("account = %q", deposit.Account)
	}

	buy := txs[1]
	if buy.Symbol != "VOO" {
		t.Errorf("buy symbol = %q, want VOO", buy.Symbol)
	}
	if buy.IsCapitalFlow() {
		t.Error("TRADE classified as capital flow")
	}
}
