package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/subcommands"

	"invtracker/internal/client"
	"invtracker/internal/config"
	"invtracker/internal/services"
)

type snapshotCmd struct {
	open opener
	out  io.Writer

	apiURL  string
	apiKey  string
	timeout time.Duration
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "save today's portfolio value for every owner" }
func (*snapshotCmd) Usage() string {
	return `investctl snapshot [-api <base url> [-key <pipeline key>]]

  Values every portfolio with live prices and records today's total. With
  -api the running server does the work through its pipeline endpoint;
  otherwise the stores are opened directly.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.apiURL, "api", "", "Base URL of a running server, e.g. http://localhost:8080.")
	f.StringVar(&c.apiKey, "key", "", "Pipeline API key (defaults to PIPELINE_API_KEY).")
	f.DurationVar(&c.timeout, "timeout", 60*time.Second, "Request timeout in -api mode.")
}

func (c *snapshotCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var (
		count int
		err   error
	)
	if c.apiURL != "" {
		count, err = c.remote(ctx)
	} else {
		count, err = c.local(ctx)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(c.out, "Recorded %d snapshots\n", count)
	return subcommands.ExitSuccess
}

func (c *snapshotCmd) remote(ctx context.Context) (int, error) {
	key := c.apiKey
	if key == "" {
		key = config.Get().PipelineAPIKey
	}
	if key == "" {
		return 0, fmt.Errorf("snapshot: no pipeline key, pass -key or set PIPELINE_API_KEY")
	}
	pipeline := client.NewPipelineClient(c.apiURL, key, &http.Client{Timeout: c.timeout})
	return pipeline.ComputeSnapshots(ctx)
}

func (c *snapshotCmd) local(ctx context.Context) (int, error) {
	env, err := c.open()
	if err != nil {
		return 0, err
	}
	defer env.close()

	return services.NewSnapshotService(env.stores, env.fetcher, env.resolver).SaveAllSnapshots(ctx)
}
