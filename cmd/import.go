package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/khsu/riskfolio"
)

type importCmd struct {
	account string
	kind    string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a brokerage CSV export" }
func (*importCmd) Usage() string {
	return `import -kind balances|transactions -a <account> <file.csv>

  Imports a brokerage CSV export into the store. Balance imports replace
  earlier observations on the same day for the same account; transaction
  imports skip rows already present.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "transactions", "what the CSV contains: balances or transactions")
	f.StringVar(&c.account, "a", "", "account the export belongs to")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "expected exactly one CSV file to import")
		return subcommands.ExitUsageError
	}
	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	store := DefaultStore()
	switch c.kind {
	case "balances":
		obs, err := riskfolio.ImportBalancesCSV(file, c.account)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing balances: %v\n", err)
			return subcommands.ExitFailure
		}
		for _, b := range obs {
			if err := store.AppendBalance(b); err != nil {
				fmt.Fprintf(os.Stderr, "Error storing balance on %s: %v\n", b.Date, err)
				return subcommands.ExitFailure
			}
		}
		fmt.Printf("Imported %d balance observations.\n", len(obs))

	case "transactions":
		txs, err := riskfolio.ImportTransactionsCSV(file, c.account)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing transactions: %v\n", err)
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
		fmt.Printf("Imported %d transactions (%d new).\n", len(txs), added)

	default:
		fmt.Fprintf(os.Stderr, "unknown -kind %q, want balances or transactions\n", c.kind)
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}

// mergeTransactions appends the transactions not already present. Identity is
// the (date, account, action, amount, symbol) tuple: brokerage exports overlap
// and re-imports must not double-count flows.
func mergeTransactions(existing, incoming []riskfolio.Transaction) (merged []riskfolio.Transaction, added int) {
	seen := make(map[string]bool, len(existing))
	key := func(t riskfolio.Transaction) string {
		return fmt.Sprintf("%s|%s|%s|%s|%s", t.Date, t.Account, t.Action, t.Amount, t.Symbol)
	}
	for _, t := range existing {
		seen[key(t)] = true
	}
	merged = existing
	for _, t := range incoming {
		if seen[key(t)] {
			continue
		}
		seen[key(t)] = true
		merged = append(merged, t)
		added++
	}
	return merged, added
}
