package cryptotax

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config holds the settings of a calculation run.
type Config struct {
	Method        CostBasisMethod
	Currency      string   // reporting currency, every price and fee is expressed in it.
	LongTermDays  int      // holding days from which a disposal is long term.
	IgnoredAssets []string // assets skipped entirely, like fiat or stablecoins.
	Selector      LotSelector
	Logger        logrus.FieldLogger
}

// DefaultConfig returns a FIFO configuration in USD with a 365 days long term
// threshold and a silent logger.
func DefaultConfig() Config {
	return Config{
		Method:       FIFO,
		Currency:     "USD",
		LongTermDays: DefaultLongTermDays,
		Logger:       discardLogger(),
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Validate checks that the configuration can be used for a run.
func (c Config) Validate() error {
	var errs []error
	if err := ValidateCurrency(c.Currency); err != nil {
		errs = append(errs, err)
	}
	if c.LongTermDays <= 0 {
		errs = append(errs, fmt.Errorf("long term days must be positive, got %d", c.LongTermDays))
	}
	switch c.Method {
	case FIFO, LIFO, HIFO:
	case SpecificID:
		if c.Selector == nil {
			errs = append(errs, errors.New("specific identification requires a lot selector"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported cost basis method %v", c.Method))
	}
	return errors.Join(errs...)
}

// engine replays transactions into a private Inventory and Ledger.
type engine struct {
	cfg     Config
	ignored map[string]bool
	log     logrus.FieldLogger
	inv     *Inventory
	ledger  *Ledger
}

// Run replays the transactions under cfg and returns the resulting Ledger.
//
// Transactions are processed in time order, transactions at the same time
// keep their input order. A problem with a single transaction never aborts
// the run: it is recorded as a Warning. Run only fails on an invalid
// configuration or on an *InvariantError.
func Run(txs []Transaction, cfg Config) (*Ledger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	e := &engine{
		cfg:     cfg,
		ignored: make(map[string]bool),
		log:     cfg.Logger,
		inv:     NewInventory(),
		ledger:  newLedger(cfg.Method, cfg.Currency, cfg.LongTermDays),
	}
	if e.log == nil {
		e.log = discardLogger()
	}
	for _, a := range cfg.IgnoredAssets {
		e.ignored[strings.ToUpper(a)] = true
	}

	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b Transaction) int { return a.Time.Compare(b.Time) })
	for _, tx := range sorted {
		if err := e.process(tx); err != nil {
			return nil, err
		}
	}
	for _, a := range e.inv.Assets() {
		e.ledger.lots = append(e.ledger.lots, e.inv.Lots(a)...)
	}
	return e.ledger, nil
}

// process applies a single transaction. Only an *InvariantError is returned.
func (e *engine) process(tx Transaction) error {
	log := e.log.WithFields(logrus.Fields{"id": tx.ID, "asset": tx.Asset, "on": tx.On().String(), "type": string(tx.Type)})
	if e.ignored[tx.Asset] {
		log.Debug("ignored asset")
		return nil
	}
	tx, err := e.normalize(tx)
	if err != nil {
		e.warn(tx, err)
		return nil
	}

	switch Classify(tx.Type) {
	case Acquisition:
		value, ok := tx.Value()
		if !ok {
			e.warn(tx, &MissingPriceError{Asset: tx.Asset, Time: tx.Time, Type: tx.Type})
			return nil
		}
		id, err := e.inv.addLot(tx.Asset, tx.Quantity, value.Add(tx.Fee), tx.Time)
		if err != nil {
			e.warn(tx, withTxID(err, tx.ID))
			return nil
		}
		log.WithField("lot", id).Debugf("acquired %v", tx.Quantity)

	case Income:
		if tx.UnitPrice == nil {
			e.warn(tx, &MissingPriceError{Asset: tx.Asset, Time: tx.Time, Type: tx.Type})
			return nil
		}
		ev, err := recognizeIncome(e.inv, tx)
		if err != nil {
			e.warn(tx, withTxID(err, tx.ID))
			return nil
		}
		e.ledger.addIncome(ev)
		log.WithField("lot", ev.Lot).Debugf("received %v as %s income", tx.Quantity, ev.Kind)

	case Disposal:
		return e.dispose(tx, log)

	case NonTaxable:
		if tx.Type == TransferIn && tx.UnitPrice == nil {
			e.warn(tx, &MissingCostBasisError{Asset: tx.Asset, Quantity: tx.Quantity})
			return nil
		}
		log.Debug("non taxable transfer")

	default:
		e.warn(tx, &UnknownTransactionTypeError{Type: tx.Type})
	}
	return nil
}

// dispose consumes lots for a disposal and records its results.
func (e *engine) dispose(tx Transaction, log logrus.FieldLogger) error {
	if tx.UnitPrice == nil {
		// lots are left untouched for a corrected run.
		e.warn(tx, &MissingPriceError{Asset: tx.Asset, Time: tx.Time, Type: tx.Type})
		return nil
	}

	var ids []LotID
	if e.cfg.Method == SpecificID {
		var err error
		ids, err = e.cfg.Selector.SelectLots(tx, e.inv.PeekAvailable(tx.Asset))
		if err != nil {
			e.warn(tx, &InvalidTransactionError{ID: tx.ID, Reason: err.Error()})
			return nil
		}
	}

	consumed, err := e.inv.Consume(tx.Asset, tx.Quantity, e.cfg.Method, ids...)
	if err != nil {
		var invariant *InvariantError
		if errors.As(err, &invariant) {
			return err
		}
		e.warn(tx, withTxID(err, tx.ID))
		return nil
	}

	for _, r := range disposalResults(tx, *tx.UnitPrice, consumed, e.cfg.LongTermDays) {
		e.ledger.addDisposal(r)
		log.WithFields(logrus.Fields{"lot": r.Lot, "long_term": r.LongTerm}).Debugf("disposed %v for %v", r.Quantity, r.GainLoss)
	}
	return nil
}

// normalize validates tx and expresses its amounts in the reporting currency.
func (e *engine) normalize(tx Transaction) (Transaction, error) {
	if err := tx.Validate(); err != nil {
		return tx, err
	}
	cur := e.cfg.Currency
	if c := tx.Fee.Currency(); c != "" && c != cur {
		return tx, &InvalidTransactionError{ID: tx.ID, Reason: fmt.Sprintf("fee is in %s, want %s", c, cur)}
	}
	tx.Fee = tx.Fee.In(cur)
	if tx.UnitPrice != nil {
		if c := tx.UnitPrice.Currency(); c != "" && c != cur {
			return tx, &InvalidTransactionError{ID: tx.ID, Reason: fmt.Sprintf("unit price is in %s, want %s", c, cur)}
		}
		tx = tx.WithPrice(tx.UnitPrice.In(cur))
	}
	return tx, nil
}

// withTxID sets the transaction id of an *InvalidTransactionError that has none.
func withTxID(err error, id string) error {
	var invalid *InvalidTransactionError
	if errors.As(err, &invalid) && invalid.ID == "" {
		invalid.ID = id
	}
	return err
}

func (e *engine) warn(tx Transaction, err error) {
	w := newWarning(tx, err)
	e.ledger.addWarning(w)
	e.log.WithFields(logrus.Fields{
		"id":    tx.ID,
		"asset": tx.Asset,
		"on":    w.On.String(),
		"type":  string(tx.Type),
		"kind":  string(w.Kind),
	}).Warn(err)
}
