package cryptotax

import (
	"time"

	"github.com/etnz/cryptotax/date"
)

// TxType is the normalized type of a transaction, as written in the input.
type TxType string

const (
	Buy         TxType = "buy"
	Receive     TxType = "receive"
	Deposit     TxType = "deposit"
	Sell        TxType = "sell"
	Send        TxType = "send"
	Spend       TxType = "spend"
	Withdrawal  TxType = "withdrawal"
	Trade       TxType = "trade"
	Swap        TxType = "swap"
	Convert     TxType = "convert"
	Staking     TxType = "staking"
	Airdrop     TxType = "airdrop"
	Mining      TxType = "mining"
	Interest    TxType = "interest"
	Reward      TxType = "reward"
	IncomeTx    TxType = "income"
	Transfer    TxType = "transfer"
	TransferIn  TxType = "transfer_in"
	TransferOut TxType = "transfer_out"
	Other       TxType = "other"
)

// Transaction is a normalized, immutable movement of one asset.
//
// Quantity is always positive, the direction is implied by Type. UnitPrice is
// the value of one unit in the reporting currency at Time, nil when unknown.
type Transaction struct {
	ID        string
	Time      time.Time
	Type      TxType
	Asset     string
	Quantity  Quantity
	UnitPrice *Money
	Fee       Money
	Notes     string
}

// On returns the day of the transaction.
func (tx Transaction) On() date.Date { return date.Of(tx.Time) }

// Category returns the tax category of the transaction.
func (tx Transaction) Category() Category { return Classify(tx.Type) }

// Value returns quantity × unit price, and false if the price is unknown.
func (tx Transaction) Value() (Money, bool) {
	if tx.UnitPrice == nil {
		return Money{}, false
	}
	return tx.UnitPrice.Mul(tx.Quantity), true
}

// WithPrice returns a copy of tx with its unit price set to p.
func (tx Transaction) WithPrice(p Money) Transaction {
	tx.UnitPrice = &p
	return tx
}

// Validate checks the transaction is well formed.
func (tx Transaction) Validate() error {
	invalid := func(reason string) error { return &InvalidTransactionError{ID: tx.ID, Reason: reason} }
	switch {
	case tx.Time.IsZero():
		return invalid("time is missing")
	case tx.Asset == "":
		return invalid("asset is missing")
	case tx.Type == "":
		return invalid("type is missing")
	case !tx.Quantity.IsPositive():
		return invalid("quantity must be positive, got " + tx.Quantity.String())
	case tx.Fee.IsNegative():
		return invalid("fee must not be negative, got " + tx.Fee.value.String())
	case tx.UnitPrice != nil && tx.UnitPrice.IsNegative():
		return invalid("unit price must not be negative, got " + tx.UnitPrice.value.String())
	}
	return nil
}
