package cryptotax

import (
	"errors"
	"time"

	"github.com/etnz/cryptotax/date"
)

// WarningKind is the reason a transaction was skipped or flagged.
type WarningKind string

const (
	InsufficientLots   WarningKind = "insufficient-lots"
	MissingPrice       WarningKind = "missing-price"
	InvalidTransaction WarningKind = "invalid-transaction"
	UnknownType        WarningKind = "unknown-type"
	MissingCostBasis   WarningKind = "missing-cost-basis"
)

// Warning is a skipped or flagged transaction, with enough context to correct
// the input and run again.
type Warning struct {
	Kind  WarningKind
	TxID  string
	Asset string
	On    date.Date
	Time  time.Time
	Type  TxType
	Err   error
}

// newWarning builds the warning of tx from err, its kind is derived from the error type.
func newWarning(tx Transaction, err error) Warning {
	return Warning{
		Kind:  warningKind(err),
		TxID:  tx.ID,
		Asset: tx.Asset,
		On:    tx.On(),
		Time:  tx.Time,
		Type:  tx.Type,
		Err:   err,
	}
}

func warningKind(err error) WarningKind {
	var (
		insufficient *InsufficientLotsError
		missing      *MissingPriceError
		unknown      *UnknownTransactionTypeError
		noBasis      *MissingCostBasisError
	)
	switch {
	case errors.As(err, &insufficient):
		return InsufficientLots
	case errors.As(err, &missing):
		return MissingPrice
	case errors.As(err, &unknown):
		return UnknownType
	case errors.As(err, &noBasis):
		return MissingCostBasis
	default:
		return InvalidTransaction
	}
}

func (w Warning) String() string {
	if w.Err == nil {
		return string(w.Kind)
	}
	return w.On.String() + " " + w.Err.Error()
}

func (w Warning) MarshalJSON() ([]byte, error) {
	var o jsonObjectWriter
	o.Append("kind", w.Kind)
	o.Optional("id", w.TxID)
	o.Optional("asset", w.Asset)
	o.Append("on", w.On)
	o.Optional("type", string(w.Type))
	if w.Err != nil {
		o.Append("message", w.Err.Error())
	}
	return o.MarshalJSON()
}
