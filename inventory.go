package cryptotax

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Inventory owns the lots of every asset. It is the only place where a lot's
// remaining quantity changes.
//
// An Inventory is not safe for concurrent use, each replay uses its own.
type Inventory struct {
	last LotID
	lots map[string][]*lot // per asset, in creation order.
	byID map[LotID]*lot
}

// NewInventory returns an empty Inventory.
func NewInventory() *Inventory {
	return &Inventory{
		lots: make(map[string][]*lot),
		byID: make(map[LotID]*lot),
	}
}

// AddLot creates a lot of quantity units of asset acquired at acquiredAt for
// costPerUnit each, and returns its id.
//
// It returns an *InvalidTransactionError, and creates nothing, if quantity is
// not positive or costPerUnit is negative.
func (inv *Inventory) AddLot(asset string, quantity Quantity, costPerUnit Money, acquiredAt time.Time) (LotID, error) {
	return inv.addLot(asset, quantity, costPerUnit.Mul(quantity), acquiredAt)
}

// addLot creates a lot from its total cost, the cost per unit is derived from it.
func (inv *Inventory) addLot(asset string, quantity Quantity, cost Money, acquiredAt time.Time) (LotID, error) {
	switch {
	case asset == "":
		return 0, &InvalidTransactionError{Reason: "lot asset is missing"}
	case !quantity.IsPositive():
		return 0, &InvalidTransactionError{Reason: fmt.Sprintf("lot quantity must be positive, got %v", quantity)}
	case cost.IsNegative():
		return 0, &InvalidTransactionError{Reason: fmt.Sprintf("lot cost must not be negative, got %v", cost)}
	}
	inv.last++
	l := &lot{
		id:          inv.last,
		asset:       asset,
		acquiredAt:  acquiredAt,
		original:    quantity,
		remaining:   quantity,
		costPerUnit: cost.Div(quantity),
		cost:        cost,
		remainCost:  cost,
	}
	inv.lots[asset] = append(inv.lots[asset], l)
	inv.byID[l.id] = l
	return l.id, nil
}

// PeekAvailable returns the unexhausted lots of asset, oldest first.
func (inv *Inventory) PeekAvailable(asset string) []LotView {
	var views []LotView
	for _, l := range inv.lots[asset] {
		if l.exhausted() {
			continue
		}
		views = append(views, l.view())
	}
	slices.SortStableFunc(views, lotOrder(FIFO))
	return views
}

// Lots returns every lot of asset, exhausted ones included, in creation order.
func (inv *Inventory) Lots(asset string) []LotView {
	views := make([]LotView, 0, len(inv.lots[asset]))
	for _, l := range inv.lots[asset] {
		views = append(views, l.view())
	}
	return views
}

// Lot returns the lot with the given id.
func (inv *Inventory) Lot(id LotID) (LotView, bool) {
	l, ok := inv.byID[id]
	if !ok {
		return LotView{}, false
	}
	return l.view(), true
}

// Assets returns the assets that ever had a lot, sorted.
func (inv *Inventory) Assets() []string {
	assets := make([]string, 0, len(inv.lots))
	for a := range inv.lots {
		assets = append(assets, a)
	}
	slices.Sort(assets)
	return assets
}

// Available returns the total remaining quantity of asset.
func (inv *Inventory) Available(asset string) Quantity {
	var total Quantity
	for _, l := range inv.lots[asset] {
		total = total.Add(l.remaining)
	}
	return total
}

// Consume draws quantity units of asset from its lots, selected by method.
// lotIDs are the designated lots for SpecificID.
//
// Consume is atomic: on error no lot has changed. It fails with an
// *InsufficientLotsError when the lots cannot cover quantity, and with an
// *InvariantError if applying the plan would corrupt a lot.
func (inv *Inventory) Consume(asset string, quantity Quantity, method CostBasisMethod, lotIDs ...LotID) ([]Consumption, error) {
	plan, err := Plan(method, inv.PeekAvailable(asset), quantity, lotIDs)
	if err != nil {
		var insufficient *InsufficientLotsError
		if errors.As(err, &insufficient) {
			insufficient.Asset = asset
		}
		return nil, err
	}
	return inv.apply(asset, plan)
}

// apply checks the whole plan and then decrements the lots.
func (inv *Inventory) apply(asset string, plan []Consumption) ([]Consumption, error) {
	for _, c := range plan {
		l, ok := inv.byID[c.Lot]
		switch {
		case !ok:
			return nil, &InvariantError{Asset: asset, Lot: c.Lot, Reason: "lot does not exist"}
		case l.asset != asset:
			return nil, &InvariantError{Asset: asset, Lot: c.Lot, Reason: "lot belongs to " + l.asset}
		case !c.Quantity.IsPositive():
			return nil, &InvariantError{Asset: asset, Lot: c.Lot, Reason: fmt.Sprintf("consumption of %v units", c.Quantity)}
		case l.remaining.Sub(c.Quantity).IsNegative():
			return nil, &InvariantError{Asset: asset, Lot: c.Lot, Reason: fmt.Sprintf("remaining quantity would be %v", l.remaining.Sub(c.Quantity))}
		}
	}

	consumed := make([]Consumption, len(plan))
	for i, c := range plan {
		l := inv.byID[c.Lot]
		cost := l.costPerUnit.Mul(c.Quantity)
		if c.Quantity.Equal(l.remaining) {
			// the last consumption takes what is left, so that a lot is never over or under consumed.
			cost = l.remainCost
		}
		l.remaining = l.remaining.Sub(c.Quantity)
		l.remainCost = l.remainCost.Sub(cost)
		c.Cost = cost
		consumed[i] = c
	}
	return consumed, nil
}
