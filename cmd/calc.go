package cmd

import (
	"context"
	"flag"

	"github.com/etnz/cryptotax"
	"github.com/google/subcommands"
)

// calcCmd holds the flags for the 'calc' subcommand.
type calcCmd struct {
	inputFlags
	method     string
	selections string
}

func (*calcCmd) Name() string     { return "calc" }
func (*calcCmd) Synopsis() string { return "compute realized gains, losses and income" }
func (*calcCmd) Usage() string {
	return `ctax calc [-t <file>] [-prices <file>] [-method <method>] [-selections <file>] [-year <year>] [-o <file>] [-q <path>]

  Replays all transactions and outputs the resulting ledger as JSON: one
  result per consumed lot, income events, totals and warnings.
`
}

func (c *calcCmd) SetFlags(f *flag.FlagSet) {
	c.inputFlags.SetFlags(f)
	f.StringVar(&c.method, "method", "", "Cost basis method (fifo, lifo, hifo, specific-id), defaults to the configured one")
	f.StringVar(&c.selections, "selections", "", "Lot designations file (JSONL format), required by specific-id")
}

func (c *calcCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return exitStatus(c.execute())
}

func (c *calcCmd) execute() error {
	_, cfg, err := setup(c.method)
	if err != nil {
		return err
	}
	if err := selectLots(&cfg, c.selections); err != nil {
		return err
	}
	txs, err := c.transactions(cfg.Currency)
	if err != nil {
		return err
	}
	ledger, err := cryptotax.Run(txs, cfg)
	if err != nil {
		return err
	}
	if c.year != 0 {
		ledger = ledger.Year(c.year)
	}
	return c.write(ledger)
}
