package cryptotax

import (
	"time"
)

// LotID identifies a lot within an Inventory. Ids are assigned in creation
// order starting at 1.
type LotID uint64

// lot represents a single acquisition of an asset, used for cost basis calculations.
//
// Only the Inventory mutates a lot, and only remaining and remainCost.
type lot struct {
	id          LotID
	asset       string
	acquiredAt  time.Time
	original    Quantity
	remaining   Quantity
	costPerUnit Money // unit price at acquisition plus amortized fee.
	cost        Money // Total cost of the lot (quantity * price + fee)
	remainCost  Money // cost not yet consumed.
}

func (l *lot) exhausted() bool { return !l.remaining.IsPositive() }

func (l *lot) view() LotView {
	return LotView{
		ID:                l.id,
		Asset:             l.asset,
		AcquiredAt:        l.acquiredAt,
		OriginalQuantity:  l.original,
		RemainingQuantity: l.remaining,
		CostPerUnit:       l.costPerUnit,
		RemainingCost:     l.remainCost,
	}
}

// LotView is a read-only snapshot of a lot.
type LotView struct {
	ID                LotID
	Asset             string
	AcquiredAt        time.Time
	OriginalQuantity  Quantity
	RemainingQuantity Quantity
	CostPerUnit       Money
	RemainingCost     Money
}

// Exhausted reports whether nothing remains in the lot.
func (v LotView) Exhausted() bool { return !v.RemainingQuantity.IsPositive() }

func (v LotView) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("lot", v.ID)
	w.Append("asset", v.Asset)
	w.Append("acquired_at", v.AcquiredAt.UTC().Format(time.RFC3339))
	w.Append("original_quantity", v.OriginalQuantity)
	w.Append("remaining_quantity", v.RemainingQuantity)
	w.Append("cost_per_unit", v.CostPerUnit)
	w.Append("remaining_cost", v.RemainingCost)
	return w.MarshalJSON()
}

// Consumption is the quantity a disposal takes from one lot.
//
// A consumption plan is a sequence of Consumption whose quantities sum to the
// disposed quantity. Cost is only known once the Inventory applied the plan.
type Consumption struct {
	Lot         LotID
	Quantity    Quantity
	CostPerUnit Money
	AcquiredAt  time.Time
	Cost        Money // cost basis taken from the lot.
}
