package cryptotax

import (
	"cmp"
	"fmt"
	"slices"
)

// Plan selects the lots a disposal of quantity draws down under method. It is
// a pure function of the available lots: nothing is mutated.
//
// available must only contain unexhausted lots of a single asset. ids is only
// used by SpecificID, as the ordered list of lots to draw from.
//
// If the lots cannot cover quantity, Plan returns an *InsufficientLotsError.
// Invalid Specific-ID designations return an *InvalidTransactionError.
func Plan(method CostBasisMethod, available []LotView, quantity Quantity, ids []LotID) ([]Consumption, error) {
	if !quantity.IsPositive() {
		return nil, &InvalidTransactionError{Reason: fmt.Sprintf("cannot dispose of %v units", quantity)}
	}
	var ordered []LotView
	switch method {
	case FIFO, LIFO, HIFO:
		ordered = slices.Clone(available)
		slices.SortStableFunc(ordered, lotOrder(method))
	case SpecificID:
		var err error
		if ordered, err = designated(available, ids); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported cost basis method %v", method)
	}
	return greedy(ordered, quantity)
}

// lotOrder returns the comparison function that sorts lots in consumption order.
func lotOrder(method CostBasisMethod) func(a, b LotView) int {
	switch method {
	case LIFO:
		return func(a, b LotView) int {
			if c := b.AcquiredAt.Compare(a.AcquiredAt); c != 0 {
				return c
			}
			return cmp.Compare(b.ID, a.ID)
		}
	case HIFO:
		return func(a, b LotView) int {
			if c := b.CostPerUnit.Cmp(a.CostPerUnit); c != 0 {
				return c
			}
			if c := a.AcquiredAt.Compare(b.AcquiredAt); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		}
	default:
		return func(a, b LotView) int {
			if c := a.AcquiredAt.Compare(b.AcquiredAt); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		}
	}
}

// designated returns the available lots listed in ids, in the order of ids.
func designated(available []LotView, ids []LotID) ([]LotView, error) {
	if len(ids) == 0 {
		return nil, &InvalidTransactionError{Reason: "no lots designated for specific identification"}
	}
	byID := make(map[LotID]LotView, len(available))
	for _, l := range available {
		byID[l.ID] = l
	}
	seen := make(map[LotID]bool, len(ids))
	ordered := make([]LotView, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, &InvalidTransactionError{Reason: fmt.Sprintf("lot %d is designated twice", id)}
		}
		seen[id] = true
		l, ok := byID[id]
		if !ok {
			return nil, &InvalidTransactionError{Reason: fmt.Sprintf("lot %d is not available", id)}
		}
		ordered = append(ordered, l)
	}
	return ordered, nil
}

// greedy draws from the lots in order until quantity is covered.
func greedy(ordered []LotView, quantity Quantity) ([]Consumption, error) {
	var total Quantity
	for _, l := range ordered {
		total = total.Add(l.RemainingQuantity)
	}
	if total.LessThan(quantity) {
		asset := ""
		if len(ordered) > 0 {
			asset = ordered[0].Asset
		}
		return nil, &InsufficientLotsError{Asset: asset, Requested: quantity, Available: total}
	}

	var plan []Consumption
	needed := quantity
	for _, l := range ordered {
		if !needed.IsPositive() {
			break
		}
		if l.Exhausted() {
			continue
		}
		taken := l.RemainingQuantity.Min(needed)
		plan = append(plan, Consumption{
			Lot:         l.ID,
			Quantity:    taken,
			CostPerUnit: l.CostPerUnit,
			AcquiredAt:  l.AcquiredAt,
		})
		needed = needed.Sub(taken)
	}
	return plan, nil
}
