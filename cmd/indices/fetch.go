package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"IndexTracker/internal/model"

	"github.com/google/subcommands"
)

// fetchCmd implements the "fetch" command.
type fetchCmd struct {
	indicator string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "prints the raw monthly series of one indicator" }
func (*fetchCmd) Usage() string {
	return `fetch -indicator NAME:

Fetches one indicator from its source and prints one "MM/YYYY value" line per
month, without accumulation. Useful to check a source by hand.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.indicator, "indicator", "", "indicator name, e.g. SELIC or IPCA")
}

func (c *fetchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ind, ok := model.LookupIndicator(c.indicator)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown indicator %q\n", c.indicator)
		return subcommands.ExitUsageError
	}
	a, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.close()

	s, err := a.collector.FetchOne(ctx, ind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: fetch %s: %v\n", ind.Name, err)
		return subcommands.ExitFailure
	}
	for _, p := range s.Points() {
		fmt.Printf("%s %g\n", p.Month.Label(), p.Value)
	}
	fmt.Fprintf(os.Stderr, "%s: %d months from %s\n", ind.Name, s.Len(), ind.Source)
	return subcommands.ExitSuccess
}
