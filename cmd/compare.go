package cmd

import (
	"context"
	"flag"
	"strings"

	"github.com/etnz/cryptotax"
	"github.com/google/subcommands"
)

// compareCmd holds the flags for the 'compare' subcommand.
type compareCmd struct {
	inputFlags
	methods string
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "compare the totals of several cost basis methods" }
func (*compareCmd) Usage() string {
	return `ctax compare [-t <file>] [-prices <file>] [-methods fifo,lifo,hifo] [-year <year>] [-o <file>] [-q <path>]

  Replays the same transactions once per method and outputs the totals of
  each run side by side.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	c.inputFlags.SetFlags(f)
	f.StringVar(&c.methods, "methods", "fifo,lifo,hifo", "Comma separated list of cost basis methods to compare")
}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return exitStatus(c.execute(ctx))
}

func (c *compareCmd) execute(ctx context.Context) error {
	var methods []cryptotax.CostBasisMethod
	for _, name := range strings.Split(c.methods, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		m, err := cryptotax.ParseCostBasisMethod(name)
		if err != nil {
			return &usageError{err}
		}
		methods = append(methods, m)
	}

	_, cfg, err := setup("")
	if err != nil {
		return err
	}
	txs, err := c.transactions(cfg.Currency)
	if err != nil {
		return err
	}
	comparison, err := cryptotax.Compare(ctx, txs, cfg, methods...)
	if err != nil {
		return err
	}
	if c.year != 0 {
		comparison = comparison.Year(c.year)
	}
	return c.write(comparison)
}
