package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"invtracker/internal/handlers"
	"invtracker/internal/models"
	"invtracker/internal/services"
)

type backfillCmd struct {
	open opener
	out  io.Writer

	user string
	from string
}

func (*backfillCmd) Name() string { return "backfill" }
func (*backfillCmd) Synopsis() string {
	return "rebuild the daily value history of a portfolio from purchase prices"
}
func (*backfillCmd) Usage() string {
	return `investctl backfill -user <id> [-from YYYY-MM-DD]

  Replaces the owner's value history with one point per day from the start
  date through today. Each day is valued at the total purchase price of the
  holdings acquired on or before it.
`
}

func (c *backfillCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "user", "", "Owner id whose history is rebuilt.")
	f.StringVar(&c.from, "from", handlers.DefaultBackfillFrom, "First day of the rebuilt history.")
}

func (c *backfillCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.user == "" {
		fmt.Fprintln(os.Stderr, "backfill: -user is required")
		return subcommands.ExitUsageError
	}
	from, err := time.Parse(models.DateLayout, c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "backfill: invalid -from %q, expected YYYY-MM-DD\n", c.from)
		return subcommands.ExitUsageError
	}

	env, err := c.open()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer env.close()

	snapshots := services.NewSnapshotService(env.stores, env.fetcher, env.resolver)
	series, err := snapshots.Backfill(ctx, c.user, from)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(c.out, "Backfilled %d days for %s starting %s\n", len(series), c.user, c.from)
	if n := len(series); n > 0 {
		last := series[n-1]
		fmt.Fprintf(c.out, "Latest: %s %s\n", last.Date, last.Value.StringFixed(2))
	}
	return subcommands.ExitSuccess
}
