package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/khsu/riskfolio/schwab"
)

type loginCmd struct{}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "store a Schwab API access token" }
func (*loginCmd) Usage() string {
	return `login <access-token>

  Stores the Schwab API access token for subsequent 'fetch' runs. The token
  comes from the OAuth flow on the Schwab developer portal; it expires, so
  expect to log in again.
`
}

func (*loginCmd) SetFlags(f *flag.FlagSet) {}

func (c *loginCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "expected the access token as the only argument")
		return subcommands.ExitUsageError
	}
	if err := schwab.SaveToken(f.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println("Session stored.")
	return subcommands.ExitSuccess
}
