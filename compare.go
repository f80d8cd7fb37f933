package cryptotax

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Comparison holds one Ledger per cost basis method, replayed over the same
// transactions.
type Comparison struct {
	methods []CostBasisMethod
	ledgers []*Ledger
}

// Compare runs the transactions once per method, concurrently. Each run has
// its own Inventory, only txs and cfg are shared and neither is modified.
//
// Without methods, DefaultMethods are compared. Ledgers are returned in the
// order of methods.
func Compare(ctx context.Context, txs []Transaction, cfg Config, methods ...CostBasisMethod) (*Comparison, error) {
	if len(methods) == 0 {
		methods = DefaultMethods
	}
	c := &Comparison{
		methods: slices.Clone(methods),
		ledgers: make([]*Ledger, len(methods)),
	}
	g, ctx := errgroup.WithContext(ctx)
	for i, m := range c.methods {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			run := cfg
			run.Method = m
			if cfg.Logger != nil {
				run.Logger = cfg.Logger.WithField("method", m.String())
			}
			l, err := Run(txs, run)
			if err != nil {
				return err
			}
			c.ledgers[i] = l
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return c, nil
}

// Methods returns the compared methods.
func (c *Comparison) Methods() []CostBasisMethod { return slices.Clone(c.methods) }

// Ledgers returns the ledgers in the order of Methods.
func (c *Comparison) Ledgers() []*Ledger { return slices.Clone(c.ledgers) }

// Ledger returns the ledger of method m.
func (c *Comparison) Ledger(m CostBasisMethod) (*Ledger, bool) {
	i := slices.Index(c.methods, m)
	if i < 0 {
		return nil, false
	}
	return c.ledgers[i], true
}

// Year restricts every ledger to calendar year y.
func (c *Comparison) Year(y int) *Comparison {
	out := &Comparison{methods: c.methods, ledgers: make([]*Ledger, len(c.ledgers))}
	for i, l := range c.ledgers {
		out.ledgers[i] = l.Year(y)
	}
	return out
}

func (c *Comparison) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	if len(c.ledgers) > 0 {
		w.Append("currency", c.ledgers[0].Currency())
	}
	summaries := make([]Summary, len(c.ledgers))
	for i, l := range c.ledgers {
		summaries[i] = l.Summary()
	}
	w.Append("methods", summaries)
	return w.MarshalJSON()
}
