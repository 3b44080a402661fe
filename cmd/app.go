// Package cmd implements the CLI application to analyze portfolio risk.
package cmd

import (
	"flag"
	"slices"

	"github.com/google/subcommands"
	"github.com/khsu/riskfolio"
	"github.com/khsu/riskfolio/date"
)

// Commands lists the subcommands of the application.
// A main package registers each of them on its commander.
var Commands = []subcommands.Command{
	&riskCmd{},
	&historyCmd{},
	&importCmd{},
	&fetchCmd{},
	&loginCmd{},
	&topicCmd{},
	&AssistCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var balancesFile = flag.String("balances-file", "balances.jsonl", "Path to the balance history file (JSONL format)")
var transactionsFile = flag.String("transactions-file", "transactions.jsonl", "Path to the transactions file (JSONL format)")

// DefaultStore opens the store on the app default files.
func DefaultStore() *riskfolio.Store {
	return riskfolio.NewStore(*balancesFile, *transactionsFile)
}

// byAccount filters observations and transactions down to one account.
// An empty account keeps everything: the aggregate view.
func byAccount(obs []riskfolio.Balance, txs []riskfolio.Transaction, account string) ([]riskfolio.Balance, []riskfolio.Transaction) {
	if account == "" {
		return obs, txs
	}
	var fobs []riskfolio.Balance
	for _, b := range obs {
		if b.Account == account {
			fobs = append(fobs, b)
		}
	}
	var ftxs []riskfolio.Transaction
	for _, t := range txs {
		if t.Account == account {
			ftxs = append(ftxs, t)
		}
	}
	return fobs, ftxs
}

// restrict drops observations and transactions outside the [start, end] dates.
// Empty bounds are open.
func restrict(obs []riskfolio.Balance, txs []riskfolio.Transaction, start, end string) ([]riskfolio.Balance, []riskfolio.Transaction, error) {
	if start == "" && end == "" {
		return obs, txs, nil
	}
	outside := func(on date.Date) bool { return false }
	switch {
	case start != "" && end != "":
		from, err := date.Parse(start)
		if err != nil {
			return nil, nil, err
		}
		to, err := date.Parse(end)
		if err != nil {
			return nil, nil, err
		}
		rng := date.NewRange(from, to)
		outside = func(on date.Date) bool { return !rng.Contains(on) }
	case start != "":
		from, err := date.Parse(start)
		if err != nil {
			return nil, nil, err
		}
		outside = func(on date.Date) bool { return on.Before(from) }
	default:
		to, err := date.Parse(end)
		if err != nil {
			return nil, nil, err
		}
		outside = func(on date.Date) bool { return on.After(to) }
	}
	obs = slices.DeleteFunc(slices.Clone(obs), func(b riskfolio.Balance) bool { return outside(b.Date) })
	txs = slices.DeleteFunc(slices.Clone(txs), func(t riskfolio.Transaction) bool { return outside(t.Date) })
	return obs, txs, nil
}
