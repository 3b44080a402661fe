package riskfolio

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/khsu/riskfolio/date"
	"github.com/shopspring/decimal"
)

func TestDecodeBalances_SkipsMalformed(t *testing.T) {
	in := `{"date":"2025-06-02","value":100000,"account":"a"}
not json at all

{"date":"2025-06-03","value":101000,"account":"a"}
`
	obs, err := DecodeBalances(strings.NewReader(in))
	if err != nil {
		t.Fatalf("DecodeBalances() error: %v", err)
	}
	if len(obs) != 2 {
		t.Fatalf("decoded %d balances, want 2", len(obs))
	}
	if obs[1].Value != 101_000 {
		t.Errorf("second balance = %v, want 101000", obs[1].Value)
	}
}

func TestEncodeBalances_Sorted(t *testing.T) {
	obs := []Balance{
		{Date: date.New(2025, time.June, 3), Value: 101_000},
		{Date: date.New(2025, time.June, 2), Value: 100_000},
	}
	var buf bytes.Buffer
	if err := EncodeBalances(&buf, obs); err != nil {
		t.Fatalf("EncodeBalances() error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("encoded %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "2025-06-02") {
		t.Errorf("first line = %q, want the earlier date first", lines[0])
	}
}

func TestStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "balances.jsonl"), filepath.Join(dir, "transactions.jsonl"))

	// A missing file is an empty history.
	obs, err := s.Balances()
	if err != nil {
		t.Fatalf("Balances() on missing file: %v", err)
	}
	if len(obs) != 0 {
		t.Fatalf("Balances() on missing file = %v, want empty", obs)
	}

	want := []Balance{
		{Date: date.New(2025, time.June, 2), Value: 100_000, Account: "a"},
		{Date: date.New(2025, time.June, 3), Value: 101_000, Account: "a"},
	}
	if err := s.WriteBalances(want); err != nil {
		t.Fatalf("WriteBalances() error: %v", err)
	}
	got, err := s.Balances()
	if err != nil {
		t.Fatalf("Balances() error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("loaded %d balances, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("balance[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	txs := []Transaction{
		{Date: date.New(2025, time.June, 3), Action: "MoneyLink Deposit", Amount: decimal.NewFromInt(5_000), Account: "a"},
	}
	if err := s.WriteTransactions(txs); err != nil {
		t.Fatalf("WriteTransactions() error: %v", err)
	}
	loaded, err := s.Transactions()
	if err != nil {
		t.Fatalf("Transactions() error: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Action != "MoneyLink Deposit" {
		t.Errorf("Transactions() = %+v", loaded)
	}
	if !loaded[0].Amount.Equal(decimal.NewFromInt(5_000)) {
		t.Errorf("amount = %s, want 5000", loaded[0].Amount)
	}
}

func TestStore_AppendBalanceReplaces(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "balances.jsonl"), filepath.Join(dir, "transactions.jsonl"))

	on := date.New(2025, time.June, 2)
	if err := s.AppendBalance(Balance{Date: on, Value: 100_000, Account: "a"}); err != nil {
		t.Fatal(err)
	}
	// Re-fetching the same day replaces the earlier observation.
	if err := s.AppendBalance(Balance{Date: on, Value: 100_500, Account: "a"}); err != nil {
		t.Fatal(err)
	}
	// A different account on the same day is a distinct observation.
	if err := s.AppendBalance(Balance{Date: on, Value: 40_000, Account: "b"}); err != nil {
		t.Fatal(err)
	}

	obs, err := s.Balances()
	if err != nil {
		t.Fatal(err)
	}
	if len(obs) != 2 {
		t.Fatalf("stored %d observations, want 2", len(obs))
	}
	for _, o := range obs {
		if o.Account == "a" && o.Value != 100_500 {
			t.Errorf("account a = %v, want the replaced 100500", o.Value)
		}
	}
}
