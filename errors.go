package cryptotax

import (
	"fmt"
	"time"
)

// InsufficientLotsError is returned when a disposal asks for more units than the
// lots it may draw from hold. Nothing was consumed.
type InsufficientLotsError struct {
	Asset     string
	Requested Quantity
	Available Quantity
}

func (e *InsufficientLotsError) Error() string {
	return fmt.Sprintf("insufficient lots for %s: requested %v, available %v", e.Asset, e.Requested, e.Available)
}

// MissingPriceError reports an acquisition or disposal without a unit price.
type MissingPriceError struct {
	Asset string
	Time  time.Time
	Type  TxType
}

func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("missing unit price for %s %s on %s", e.Type, e.Asset, e.Time.Format(time.RFC3339))
}

// InvalidTransactionError reports a malformed transaction, or a Specific-ID
// lot selection that cannot be honoured.
type InvalidTransactionError struct {
	ID     string
	Reason string
}

func (e *InvalidTransactionError) Error() string {
	if e.ID == "" {
		return "invalid transaction: " + e.Reason
	}
	return fmt.Sprintf("invalid transaction %q: %s", e.ID, e.Reason)
}

// UnknownTransactionTypeError reports a transaction type the classifier does
// not know. It is never fatal.
type UnknownTransactionTypeError struct {
	Type TxType
}

func (e *UnknownTransactionTypeError) Error() string {
	return fmt.Sprintf("unknown transaction type %q", string(e.Type))
}

// MissingCostBasisError reports an incoming transfer whose cost basis must be
// entered manually.
type MissingCostBasisError struct {
	Asset    string
	Quantity Quantity
}

func (e *MissingCostBasisError) Error() string {
	return fmt.Sprintf("transfer in of %v %s has no cost basis, enter it manually", e.Quantity, e.Asset)
}

// InvariantError reports corrupted inventory state. The run that produced it
// cannot be trusted and is aborted.
type InvariantError struct {
	Asset  string
	Lot    LotID
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("inventory invariant violated on %s lot %d: %s", e.Asset, e.Lot, e.Reason)
}
