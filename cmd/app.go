// Package cmd implements the CLI application to compute crypto taxes.
package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/cryptotax"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&calcCmd{}, "taxes")
	c.Register(&compareCmd{}, "taxes")
	c.Register(&incomeCmd{}, "taxes")
	c.Register(&lotsCmd{}, "taxes")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "cryptotax.yaml", "Path to the optional configuration file (YAML)")
var envFile = flag.String("env-file", ".env", "Path to the optional file of environment variables")
var verbose = flag.Bool("v", false, "Log lot activity (debug level)")

// inputFlags are the flags shared by the commands reading transactions.
type inputFlags struct {
	txFile     string
	pricesFile string
	year       int
	output     string
	query      string
}

func (in *inputFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&in.txFile, "t", "transactions.jsonl", "Transactions file (JSONL format)")
	f.StringVar(&in.pricesFile, "prices", "", "Optional prices file (JSONL format) used to fill missing unit prices")
	f.IntVar(&in.year, "year", 0, "Restrict the report to a tax year. Prior years are still replayed.")
	f.StringVar(&in.output, "o", "", "Output file, defaults to the standard output")
	f.StringVar(&in.query, "q", "", "Only output the value at this JSONPath, like $.totals.net_gain_loss")
}

// transactions decodes the transaction file, and fills missing prices from the prices file if any.
func (in *inputFlags) transactions(currency string) ([]cryptotax.Transaction, error) {
	txs, err := decodeFile(in.txFile, cryptotax.DecodeTransactions)
	if err != nil {
		return nil, err
	}
	if in.pricesFile == "" {
		return txs, nil
	}
	prices, err := decodeFile(in.pricesFile, func(r io.Reader) (*cryptotax.PriceTable, error) {
		return cryptotax.DecodePrices(r, currency)
	})
	if err != nil {
		return nil, err
	}
	return cryptotax.FillPrices(txs, prices), nil
}

// write encodes v as indented JSON, or only the value at the query path.
func (in *inputFlags) write(v any) (err error) {
	if in.query != "" {
		val, qerr := cryptotax.QueryFirst(v, in.query)
		if qerr != nil {
			return qerr
		}
		v = val
	}
	out := io.Writer(os.Stdout)
	if in.output != "" {
		f, cerr := os.Create(in.output)
		if cerr != nil {
			return fmt.Errorf("cannot create output file %q: %w", in.output, cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("cannot write output file %q: %w", in.output, cerr)
			}
		}()
		out = f
	}
	w := bufio.NewWriter(out)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err = enc.Encode(v); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("cannot write output: %w", err)
	}
	return nil
}

// selectLots sets the lot selector of a specific-id configuration from the
// selections file, which is then required.
func selectLots(cfg *cryptotax.Config, selections string) error {
	if cfg.Method != cryptotax.SpecificID {
		return nil
	}
	if selections == "" {
		return &usageError{fmt.Errorf("-selections is required by the %v method", cfg.Method)}
	}
	sel, err := decodeFile(selections, cryptotax.DecodeSelections)
	if err != nil {
		return err
	}
	cfg.Selector = sel
	return nil
}

// decodeFile opens filename and decodes it.
func decodeFile[T any](filename string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(filename)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	v, err := decode(f)
	if err != nil {
		return zero, fmt.Errorf("error decoding %q: %w", filename, err)
	}
	return v, nil
}

// exitStatus reports err on the standard error and returns the matching exit status.
func exitStatus(err error) subcommands.ExitStatus {
	if err == nil {
		return subcommands.ExitSuccess
	}
	fmt.Fprintln(os.Stderr, err)
	var usage *usageError
	if errors.As(err, &usage) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// usageError is an error in the command line flags.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }
