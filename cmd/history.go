package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/khsu/riskfolio"
	"github.com/khsu/riskfolio/renderer"
)

type historyCmd struct {
	account  string
	currency string
	raw      bool
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the balance history" }
func (*historyCmd) Usage() string {
	return `history [-a <account>] [-raw]

  Displays the normalized business-day balance series. With -raw it shows the
  stored observations instead, without resampling.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "account to report on, all accounts aggregated by default")
	f.StringVar(&c.currency, "c", "USD", "display currency for monetary values")
	f.BoolVar(&c.raw, "raw", false, "show raw observations without resampling")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	obs, err := DefaultStore().Balances()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading balances: %v\n", err)
		return subcommands.ExitFailure
	}

	obs, _ = byAccount(obs, nil, c.account)
	account := c.account
	if account == "" {
		obs = riskfolio.AggregateBalances(obs)
		account = "all accounts"
	}

	if c.raw {
		fmt.Printf("Date\t\tValue\n")
		for _, b := range obs {
			fmt.Printf("%s\t%.2f\n", b.Date, b.Value)
		}
		return subcommands.ExitSuccess
	}

	series := riskfolio.NormalizeBalances(obs, riskfolio.DefaultSanityFloor)
	if series.Len() == 0 {
		fmt.Fprintln(os.Stderr, "not enough balance history, import or fetch some first")
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.HistoryMarkdown(account, c.currency, series))
	return subcommands.ExitSuccess
}
