package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/khsu/riskfolio/date"
	"github.com/khsu/riskfolio/schwab"
)

type fetchCmd struct {
	days int
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch balances and transactions from the brokerage" }
func (*fetchCmd) Usage() string {
	return `fetch [-days <n>]

  Records today's liquidation value for every linked account and merges the
  last n days of transactions into the store. Requires a Schwab session, see
  'rfo login'.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 30, "number of past days of transactions to fetch")
}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	session, err := schwab.LoadSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	accounts, err := session.Accounts()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing accounts: %v\n", err)
		return subcommands.ExitFailure
	}

	store := DefaultStore()
	rng := date.NewRange(date.Today().Add(-c.days), date.Today())

	for _, a := range accounts {
		balance, _, err := session.Snapshot(a)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching account %s: %v\n", a.Number, err)
			return subcommands.ExitFailure
		}
		if err := store.AppendBalance(balance); err != nil {
			fmt.Fprintf(os.Stderr, "Error storing balance for %s: %v\n", a.Number, err)
			return subcommands.ExitFailure
		}

		txs, err := session.Transactions(a, rng)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching transactions for %s: %v\n", a.Number, err)
			return subcommands.ExitFailure
		}
		existing, err := store.Transactions()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading transactions: %v\n", err)
			return subcommands.ExitFailure
		}
		merged, added := mergeTransactions(existing, txs)
		if err := store.WriteTransactions(merged); err != nil {
			fmt.Fprintf(os.Stderr, "Error storing transactions: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Account %s: balance %.2f recorded, %d new transactions.\n", a.Number, balance.Value, added)
	}
	return subcommands.ExitSuccess
}
