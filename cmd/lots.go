package cmd

import (
	"context"
	"flag"
	"strings"

	"github.com/etnz/cryptotax"
	"github.com/google/subcommands"
)

// lotsCmd holds the flags for the 'lots' subcommand.
type lotsCmd struct {
	inputFlags
	method     string
	selections string
	asset      string
	open       bool
}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "list the lots left after all transactions" }
func (*lotsCmd) Usage() string {
	return `ctax lots [-t <file>] [-prices <file>] [-method <method>] [-selections <file>] [-asset <symbol>] [-open] [-o <file>] [-q <path>]

  Replays all transactions and lists every lot with its remaining quantity
  and cost, exhausted lots included unless -open is set.
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {
	c.inputFlags.SetFlags(f)
	f.StringVar(&c.method, "method", "", "Cost basis method (fifo, lifo, hifo, specific-id), defaults to the configured one")
	f.StringVar(&c.selections, "selections", "", "Lot designations file (JSONL format), required by specific-id")
	f.StringVar(&c.asset, "asset", "", "Only list the lots of this asset")
	f.BoolVar(&c.open, "open", false, "Only list lots with a remaining quantity")
}

func (c *lotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return exitStatus(c.execute())
}

func (c *lotsCmd) execute() error {
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
	lots := []cryptotax.LotView{}
	for _, l := range ledger.Inventory() {
		if c.asset != "" && l.Asset != strings.ToUpper(c.asset) {
			continue
		}
		if c.open && l.Exhausted() {
			continue
		}
		lots = append(lots, l)
	}
	return c.write(lots)
}
