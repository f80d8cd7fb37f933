package cryptotax

import "time"

// IncomeEvent records an asset received as income, valued at its fair market
// value at receipt. The received units also form a new lot with that value as
// cost basis.
type IncomeEvent struct {
	TxID       string
	Kind       IncomeKind
	Type       TxType
	Asset      string
	Quantity   Quantity
	UnitPrice  Money
	FMV        Money // quantity × unit price.
	ReceivedAt time.Time
	Lot        LotID
}

func (e IncomeEvent) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("id", e.TxID)
	w.Append("kind", e.Kind)
	w.Append("type", e.Type)
	w.Append("asset", e.Asset)
	w.Append("quantity", e.Quantity)
	w.Append("unit_price", e.UnitPrice)
	w.Append("fmv", e.FMV)
	w.Append("received_at", e.ReceivedAt.UTC().Format(time.RFC3339))
	w.Append("lot", e.Lot)
	return w.MarshalJSON()
}

// IncomeTotal accumulates income events of one kind.
type IncomeTotal struct {
	Amount Money
	Count  int
}

func (t IncomeTotal) add(fmv Money) IncomeTotal {
	return IncomeTotal{Amount: t.Amount.Add(fmv), Count: t.Count + 1}
}

func (t IncomeTotal) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("amount", t.Amount)
	w.Append("count", t.Count)
	return w.MarshalJSON()
}

// recognizeIncome creates the lot of an income transaction and returns its
// income event. tx must have a unit price.
func recognizeIncome(inv *Inventory, tx Transaction) (IncomeEvent, error) {
	price := *tx.UnitPrice
	fmv := price.Mul(tx.Quantity)
	id, err := inv.addLot(tx.Asset, tx.Quantity, fmv, tx.Time)
	if err != nil {
		return IncomeEvent{}, err
	}
	return IncomeEvent{
		TxID:       tx.ID,
		Kind:       IncomeKindOf(tx.Type),
		Type:       tx.Type,
		Asset:      tx.Asset,
		Quantity:   tx.Quantity,
		UnitPrice:  price,
		FMV:        fmv,
		ReceivedAt: tx.Time,
		Lot:        id,
	}, nil
}
