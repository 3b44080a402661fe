package riskfolio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// this file contains the on-disk persistence of balance observations and
// transactions. Both are JSONL files: human readable, single file per kind,
// easy to diff and to merge.

// DecodeBalances reads balance observations from 'r' in the JSONL format, one
// observation per line.
//
// A malformed line is skipped with a warning rather than failing the whole
// load: a history file assembled from years of imports is worth more than one
// corrupt line.
func DecodeBalances(r io.Reader) ([]Balance, error) {
	var obs []Balance
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var b Balance
		if err := json.Unmarshal(line, &b); err != nil {
			log.Printf("skipping balance line %d: %v", n, err)
			continue
		}
		obs = append(obs, b)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read balances: %w", err)
	}
	return obs, nil
}

// EncodeBalances writes balance observations to 'w' in the JSONL format,
// sorted by date so the file diffs cleanly.
func EncodeBalances(w io.Writer, obs []Balance) error {
	sorted := slices.Clone(obs)
	slices.SortStableFunc(sorted, func(a, b Balance) int {
		if a.Date.Before(b.Date) {
			return -1
		}
		if a.Date.After(b.Date) {
			return 1
		}
		return 0
	})
	for _, b := range sorted {
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("cannot marshal balance on %s: %w", b.Date, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("cannot write balances: %w", err)
		}
	}
	return nil
}

// DecodeTransactions reads transactions from 'r' in the JSONL format, one
// transaction per line. Malformed lines are skipped with a warning.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	var txs []Transaction
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var t Transaction
		if err := json.Unmarshal(line, &t); err != nil {
			log.Printf("skipping transaction line %d: %v", n, err)
			continue
		}
		txs = append(txs, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read transactions: %w", err)
	}
	return txs, nil
}

// EncodeTransactions writes transactions to 'w' in the JSONL format, sorted by
// date.
func EncodeTransactions(w io.Writer, txs []Transaction) error {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b Transaction) int {
		if a.Date.Before(b.Date) {
			return -1
		}
		if a.Date.After(b.Date) {
			return 1
		}
		return 0
	})
	for _, t := range sorted {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("cannot marshal transaction on %s: %w", t.Date, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("cannot write transactions: %w", err)
		}
	}
	return nil
}

// Store persists the account history on disk. The zero value is not usable;
// use NewStore.
type Store struct {
	balancesPath     string
	transactionsPath string
}

// NewStore returns a Store reading and writing the given JSONL files.
func NewStore(balancesPath, transactionsPath string) *Store {
	return &Store{balancesPath: balancesPath, transactionsPath: transactionsPath}
}

// Balances loads all balance observations. A missing file is an empty history,
// not an error.
func (s *Store) Balances() ([]Balance, error) {
	f, err := os.Open(s.balancesPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open %q: %w", s.balancesPath, err)
	}
	defer f.Close()
	return DecodeBalances(f)
}

// Transactions loads all transactions. A missing file is an empty ledger, not
// an error.
func (s *Store) Transactions() ([]Transaction, error) {
	f, err := os.Open(s.transactionsPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open %q: %w", s.transactionsPath, err)
	}
	defer f.Close()
	return DecodeTransactions(f)
}

// WriteBalances replaces the balances file with the given observations.
// The write goes through a temporary file and a rename so a crash cannot leave
// a half-written history behind.
func (s *Store) WriteBalances(obs []Balance) error {
	return atomicWrite(s.balancesPath, func(w io.Writer) error {
		return EncodeBalances(w, obs)
	})
}

// WriteTransactions replaces the transactions file with the given ledger.
func (s *Store) WriteTransactions(txs []Transaction) error {
	return atomicWrite(s.transactionsPath, func(w io.Writer) error {
		return EncodeTransactions(w, txs)
	})
}

// AppendBalance records one new observation, keeping at most one per
// (date, account) pair: re-fetching a snapshot replaces the earlier value.
func (s *Store) AppendBalance(b Balance) error {
	obs, err := s.Balances()
	if err != nil {
		return err
	}
	obs = slices.DeleteFunc(obs, func(o Balance) bool {
		return o.Date == b.Date && o.Account == b.Account
	})
	obs = append(obs, b)
	return s.WriteBalances(obs)
}

func atomicWrite(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create %q: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("cannot create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot close %q: %w", tmp.Name(), err)
	}
	return os.Rename(tmp.Name(), path)
}
