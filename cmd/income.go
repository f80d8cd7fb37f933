package cmd

import (
	"context"
	"flag"

	"github.com/etnz/cryptotax"
	"github.com/google/subcommands"
)

// incomeCmd holds the flags for the 'income' subcommand.
type incomeCmd struct {
	inputFlags
}

func (*incomeCmd) Name() string     { return "income" }
func (*incomeCmd) Synopsis() string { return "report staking, airdrop, mining and other income" }
func (*incomeCmd) Usage() string {
	return `ctax income [-t <file>] [-prices <file>] [-year <year>] [-o <file>] [-q <path>]

  Outputs income events valued at their fair market value, with totals per
  kind. Income does not depend on the cost basis method.
`
}

// incomeReport is the output of the income command.
type incomeReport struct {
	Currency string                                         `json:"currency"`
	Total    cryptotax.IncomeTotal                          `json:"total"`
	ByKind   map[cryptotax.IncomeKind]cryptotax.IncomeTotal `json:"by_kind"`
	Events   []cryptotax.IncomeEvent                        `json:"events"`
}

func (c *incomeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return exitStatus(c.execute())
}

func (c *incomeCmd) execute() error {
	_, cfg, err := setup("")
	if err != nil {
		return err
	}
	if cfg.Method == cryptotax.SpecificID {
		// income never consumes lots.
		cfg.Method = cryptotax.FIFO
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
	events := ledger.Incomes()
	if events == nil {
		events = []cryptotax.IncomeEvent{}
	}
	return c.write(incomeReport{
		Currency: ledger.Currency(),
		Total:    ledger.TotalIncome(),
		ByKind:   ledger.IncomeByKind(),
		Events:   events,
	})
}
