package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// generateCmd implements the "generate" command.
type generateCmd struct {
	output string
	xlsx   string
}

func (*generateCmd) Name() string     { return "generate" }
func (*generateCmd) Synopsis() string { return "fetches every indicator and writes the accumulated table" }
func (*generateCmd) Usage() string {
	return `generate [-o path] [-xlsx path]:

Fetches SELIC, TR, Poupanca, IGPM, IPCA, INPC, IPCAE and IPC_FIPE, accumulates
each of them from every month since 01/2007 up to today and writes the result
as a JSON array, one object per month.
`
}

func (c *generateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "JSON output path (overrides config)")
	f.StringVar(&c.xlsx, "xlsx", "", "also write the table as an XLSX spreadsheet")
}

func (c *generateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.close()

	if c.output != "" {
		a.cfg.Output.JSONPath = c.output
	}
	if c.xlsx != "" {
		a.cfg.Output.XLSXPath = c.xlsx
	}

	if _, err := a.pipeline().Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
