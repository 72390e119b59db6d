package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"

	"invtracker/internal/services"
)

type purgeBankCmd struct {
	open opener
	out  io.Writer

	user string
}

func (*purgeBankCmd) Name() string     { return "purge-bank" }
func (*purgeBankCmd) Synopsis() string { return "remove retired Bank holdings and bank price overrides" }
func (*purgeBankCmd) Usage() string {
	return fmt.Sprintf(`investctl purge-bank -user <id>

  Deletes every holding in the Bank category and the manual price overrides
  named %s.
`, strings.Join(services.BankOverrideNames, ", "))
}

func (c *purgeBankCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "user", "", "Owner id whose bank data is removed.")
}

func (c *purgeBankCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.user == "" {
		fmt.Fprintln(os.Stderr, "purge-bank: -user is required")
		return subcommands.ExitUsageError
	}

	env, err := c.open()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer env.close()

	result, err := services.NewMaintenanceService(env.stores).PurgeBankData(ctx, c.user)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(c.out, "Removed %d bank holdings and %d manual prices for %s\n",
		result.Investments, result.ManualPrices, c.user)
	return subcommands.ExitSuccess
}
