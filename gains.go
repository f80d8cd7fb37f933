package cryptotax

import (
	"time"

	"github.com/etnz/cryptotax/date"
)

// DefaultLongTermDays is the holding period, in days, from which a gain is long term.
const DefaultLongTermDays = 365

// DisposalResult is the realized gain or loss of a disposal on a single lot.
//
// A disposal spanning several lots produces one DisposalResult per lot, each
// with its own acquisition date and holding period.
type DisposalResult struct {
	TxID        string
	Asset       string
	Lot         LotID
	Quantity    Quantity
	Proceeds    Money // quantity × unit price, minus its share of the fee.
	CostBasis   Money
	GainLoss    Money
	AcquiredAt  time.Time
	DisposedAt  time.Time
	HoldingDays int
	LongTerm    bool
}

// IsGain reports whether the result is a strictly positive gain.
func (r DisposalResult) IsGain() bool { return r.GainLoss.IsPositive() }

// IsLoss reports whether the result is a strictly negative loss.
func (r DisposalResult) IsLoss() bool { return r.GainLoss.IsNegative() }

func (r DisposalResult) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("id", r.TxID)
	w.Append("asset", r.Asset)
	w.Append("lot", r.Lot)
	w.Append("quantity", r.Quantity)
	w.Append("proceeds", r.Proceeds)
	w.Append("cost_basis", r.CostBasis)
	w.Append("gain_loss", r.GainLoss)
	w.Append("acquired_at", r.AcquiredAt.UTC().Format(time.RFC3339))
	w.Append("disposed_at", r.DisposedAt.UTC().Format(time.RFC3339))
	w.Append("holding_days", r.HoldingDays)
	w.Append("long_term", r.LongTerm)
	return w.MarshalJSON()
}

// HoldingDays returns the whole days elapsed between acquisition and
// disposal, partial days are not counted.
func HoldingDays(acquiredAt, disposedAt time.Time) int {
	return int(disposedAt.Sub(acquiredAt) / date.Day)
}

// disposalResults turns the consumptions of a disposal into DisposalResults.
//
// The fee is prorated by quantity taken, the last result receives what is
// left so that proceeds sum to exactly quantity × price − fee.
func disposalResults(tx Transaction, price Money, consumed []Consumption, longTermDays int) []DisposalResult {
	results := make([]DisposalResult, 0, len(consumed))
	feeLeft := tx.Fee
	for i, c := range consumed {
		fee := feeLeft
		if i < len(consumed)-1 {
			fee = tx.Fee.Mul(c.Quantity).Div(tx.Quantity)
		}
		feeLeft = feeLeft.Sub(fee)

		proceeds := price.Mul(c.Quantity).Sub(fee)
		days := HoldingDays(c.AcquiredAt, tx.Time)
		results = append(results, DisposalResult{
			TxID:        tx.ID,
			Asset:       tx.Asset,
			Lot:         c.Lot,
			Quantity:    c.Quantity,
			Proceeds:    proceeds,
			CostBasis:   c.Cost,
			GainLoss:    proceeds.Sub(c.Cost),
			AcquiredAt:  c.AcquiredAt,
			DisposedAt:  tx.Time,
			HoldingDays: days,
			LongTerm:    days >= longTermDays,
		})
	}
	return results
}
