package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/khsu/riskfolio"
	"github.com/khsu/riskfolio/date"
	"github.com/khsu/riskfolio/renderer"
	"github.com/khsu/riskfolio/schwab"
)

type riskCmd struct {
	account   string
	currency  string
	benchmark string
	riskFree  float64
	floor     float64
	start     string
	end       string
	live      bool
	json      bool
}

func (*riskCmd) Name() string     { return "risk" }
func (*riskCmd) Synopsis() string { return "compute and display portfolio risk metrics" }
func (*riskCmd) Usage() string {
	return `risk [-a <account>] [-start <date>] [-end <date>] [-benchmark <ticker>] [-live]

  Computes volatility, Sharpe ratio, max drawdown, annual return, VaR and beta
  from the stored balance history and transactions. Without -a it analyzes the
  aggregate of all accounts. With -live it also fetches current positions to
  compute the holdings-weighted beta.
`
}

func (c *riskCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "account to analyze, all accounts aggregated by default")
	f.StringVar(&c.currency, "c", "USD", "display currency for monetary values")
	f.StringVar(&c.benchmark, "benchmark", riskfolio.DefaultBenchmark, "benchmark ticker for the regression beta")
	f.Float64Var(&c.riskFree, "risk-free", 0.02, "annual risk-free rate for the Sharpe ratio")
	f.Float64Var(&c.floor, "floor", riskfolio.DefaultSanityFloor, "discard balance observations at or below this value")
	f.StringVar(&c.start, "start", "", "restrict the analysis to observations on or after this date (2006-01-02)")
	f.StringVar(&c.end, "end", "", "restrict the analysis to observations on or before this date (2006-01-02)")
	f.BoolVar(&c.live, "live", false, "fetch current positions for the holdings-weighted beta")
	f.BoolVar(&c.json, "json", false, "print the report as JSON instead of markdown")
}

func (c *riskCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store := DefaultStore()
	obs, err := store.Balances()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading balances: %v\n", err)
		return subcommands.ExitFailure
	}
	txs, err := store.Transactions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading transactions: %v\n", err)
		return subcommands.ExitFailure
	}

	obs, txs = byAccount(obs, txs, c.account)
	account := c.account
	if account == "" {
		obs = riskfolio.AggregateBalances(obs)
		account = "all accounts"
	}
	if obs, txs, err = restrict(obs, txs, c.start, c.end); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	var holdings []riskfolio.Holding
	if c.live {
		holdings, err = liveHoldings(c.account)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot fetch positions, beta falls back to 1.0: %v\n", err)
		}
	}

	cfg := riskfolio.DefaultConfig()
	cfg.RiskFreeRate = c.riskFree
	cfg.SanityFloor = c.floor
	engine := riskfolio.NewEngine(cfg)

	bench := riskfolio.NeutralBenchmark()
	series := riskfolio.NormalizeBalances(obs, cfg.SanityFloor)
	if series.Len() >= 2 {
		from, _ := series.First()
		to, _ := series.Latest()
		bench, err = riskfolio.BenchmarkReturns(c.benchmark, date.NewRange(from, to))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	report := engine.Report(account, c.currency, obs, txs, bench, holdings)
	if c.json {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding report: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println(string(data))
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RiskMarkdown(report))
	return subcommands.ExitSuccess
}

// liveHoldings fetches the current positions of one account, or of every
// linked account when the account is empty.
func liveHoldings(account string) ([]riskfolio.Holding, error) {
	session, err := schwab.LoadSession()
	if err != nil {
		return nil, err
	}
	accounts, err := session.Accounts()
	if err != nil {
		return nil, err
	}
	var holdings []riskfolio.Holding
	for _, a := range accounts {
		if account != "" && a.Number != account {
			continue
		}
		_, hs, err := session.Snapshot(a)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, hs...)
	}
	return holdings, nil
}
