package cryptotax

import (
	"time"

	"github.com/etnz/cryptotax/date"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// NO is a helper for test to create money from const with no currency set
func NO(v float64) Money { return M(v, "") }

// day returns midnight UTC of an ISO day.
func day(s string) time.Time { return date.MustParse(s).Time() }

// instant parses an RFC3339 timestamp.
func instant(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// tx is a helper for test to create a priced transaction, price < 0 means no price.
func tx(id, on string, typ TxType, asset, quantity string, price float64) Transaction {
	t := Transaction{ID: id, Time: day(on), Type: typ, Asset: asset, Quantity: MustQ(quantity)}
	if price >= 0 {
		t = t.WithPrice(USD(price))
	}
	return t
}

// withFee returns a copy of t with a fee in USD.
func withFee(t Transaction, fee float64) Transaction {
	t.Fee = USD(fee)
	return t
}

// documentedExample is the two BTC lots followed by a partial sale.
func documentedExample() []Transaction {
	return []Transaction{
		tx("b1", "2024-01-15", Buy, "BTC", "1", 40000),
		tx("b2", "2024-06-15", Buy, "BTC", "0.5", 65000),
		tx("s1", "2025-01-20", Sell, "BTC", "0.75", 95000),
	}
}

// run is a helper for test that runs txs with method and fails on error.
func mustRun(txs []Transaction, method CostBasisMethod) *Ledger {
	cfg := DefaultConfig()
	cfg.Method = method
	l, err := Run(txs, cfg)
	if err != nil {
		panic(err)
	}
	return l
}
