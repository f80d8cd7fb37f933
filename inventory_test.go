package cryptotax

import (
	"errors"
	"testing"
)

// newTestInventory returns the two documented BTC lots and an ETH lot.
func newTestInventory() *Inventory {
	inv := NewInventory()
	inv.AddLot("BTC", Q(1), USD(40000), day("2024-01-15"))
	inv.AddLot("BTC", MustQ("0.5"), USD(65000), day("2024-06-15"))
	inv.AddLot("ETH", Q(2), USD(2500), day("2024-02-01"))
	return inv
}

func TestInventory_AddLot(t *testing.T) {
	inv := newTestInventory()
	lots := inv.Lots("BTC")
	if len(lots) != 2 {
		t.Fatalf("Lots(BTC) len = %d, want 2", len(lots))
	}
	for i, want := range []LotID{1, 2} {
		if lots[i].ID != want {
			t.Errorf("Lots(BTC)[%d].ID = %d, want %d", i, lots[i].ID, want)
		}
	}
	if eth := inv.Lots("ETH"); len(eth) != 1 || eth[0].ID != 3 {
		t.Errorf("Lots(ETH) = %v, want a single lot with id 3", eth)
	}
	if got := inv.Assets(); len(got) != 2 || got[0] != "BTC" || got[1] != "ETH" {
		t.Errorf("Assets() = %v, want [BTC ETH]", got)
	}
	if got := inv.Available("BTC"); !got.Equal(MustQ("1.5")) {
		t.Errorf("Available(BTC) = %v, want 1.5", got)
	}
}

func TestInventory_AddLot_Invalid(t *testing.T) {
	testCases := []struct {
		name        string
		asset       string
		quantity    Quantity
		costPerUnit Money
	}{
		{"zero quantity", "BTC", Q(0), USD(100)},
		{"negative quantity", "BTC", Q(-1), USD(100)},
		{"negative cost", "BTC", Q(1), USD(-100)},
		{"no asset", "", Q(1), USD(100)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			inv := newTestInventory()
			id, err := inv.AddLot(tc.asset, tc.quantity, tc.costPerUnit, day("2024-07-01"))
			var invalid *InvalidTransactionError
			if !errors.As(err, &invalid) || id != 0 {
				t.Fatalf("AddLot() = %d, %v, want an InvalidTransactionError", id, err)
			}
			if got := inv.Available("BTC"); !got.Equal(MustQ("1.5")) {
				t.Errorf("Available(BTC) = %v after a rejected lot, want 1.5", got)
			}
			// ids are not consumed by rejected lots.
			if next, err := inv.AddLot("SOL", Q(1), USD(10), day("2024-07-02")); err != nil || next != 4 {
				t.Errorf("AddLot(SOL) = %d, %v, want 4", next, err)
			}
		})
	}
}

func TestInventory_Consume(t *testing.T) {
	inv := newTestInventory()
	consumed, err := inv.Consume("BTC", MustQ("0.75"), FIFO)
	if err != nil {
		t.Fatalf("Consume() unexpected error: %v", err)
	}
	if len(consumed) != 1 || consumed[0].Lot != 1 || !consumed[0].Cost.Equal(USD(30000)) {
		t.Fatalf("Consume() = %+v, want 0.75 from lot 1 for 30000", consumed)
	}
	l, _ := inv.Lot(1)
	if !l.RemainingQuantity.Equal(MustQ("0.25")) || !l.RemainingCost.Equal(USD(10000)) {
		t.Errorf("lot 1 = %v remaining for %v, want 0.25 for 10000", l.RemainingQuantity, l.RemainingCost)
	}
	if !l.OriginalQuantity.Equal(Q(1)) {
		t.Errorf("lot 1 original = %v, want 1", l.OriginalQuantity)
	}

	// exhaust lot 1 and part of lot 2.
	consumed, err = inv.Consume("BTC", MustQ("0.5"), FIFO)
	if err != nil {
		t.Fatalf("Consume() unexpected error: %v", err)
	}
	if len(consumed) != 2 || !consumed[0].Cost.Equal(USD(10000)) || !consumed[1].Cost.Equal(USD(16250)) {
		t.Errorf("Consume() = %+v, want 10000 from lot 1 and 16250 from lot 2", consumed)
	}

	// exhausted lots are kept for the audit trail, but not available.
	if got := len(inv.Lots("BTC")); got != 2 {
		t.Errorf("Lots(BTC) len = %d, want 2", got)
	}
	avail := inv.PeekAvailable("BTC")
	if len(avail) != 1 || avail[0].ID != 2 {
		t.Errorf("PeekAvailable(BTC) = %v, want only lot 2", avail)
	}
}

func TestInventory_Consume_Atomic(t *testing.T) {
	inv := newTestInventory()
	before := inv.Lots("BTC")

	_, err := inv.Consume("BTC", Q(2), FIFO)
	var insufficient *InsufficientLotsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Consume() error = %v, want an InsufficientLotsError", err)
	}
	if insufficient.Asset != "BTC" || !insufficient.Requested.Equal(Q(2)) || !insufficient.Available.Equal(MustQ("1.5")) {
		t.Errorf("InsufficientLotsError = %+v, want BTC requested 2 available 1.5", insufficient)
	}

	after := inv.Lots("BTC")
	for i := range before {
		if !before[i].RemainingQuantity.Equal(after[i].RemainingQuantity) {
			t.Errorf("lot %d remaining = %v after a failed consume, want %v", before[i].ID, after[i].RemainingQuantity, before[i].RemainingQuantity)
		}
	}
}

func TestInventory_Consume_UnknownAsset(t *testing.T) {
	inv := newTestInventory()
	_, err := inv.Consume("SOL", Q(1), FIFO)
	var insufficient *InsufficientLotsError
	if !errors.As(err, &insufficient) || insufficient.Asset != "SOL" || !insufficient.Available.IsZero() {
		t.Errorf("Consume(SOL) error = %v, want an InsufficientLotsError with nothing available", err)
	}
}

func TestInventory_Consume_SpecificID(t *testing.T) {
	testCases := []struct {
		name    string
		ids     []LotID
		wantErr bool
	}{
		{"covering lots", []LotID{2, 1}, false},
		{"unused trailing lot", []LotID{1, 2}, false},
		{"other asset lot", []LotID{3}, true},
		{"unknown lot", []LotID{42}, true},
		{"duplicate lot", []LotID{2, 2}, true},
		{"not enough", []LotID{2}, true},
		{"none", nil, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			inv := newTestInventory()
			_, err := inv.Consume("BTC", MustQ("0.75"), SpecificID, tc.ids...)
			if (err != nil) != tc.wantErr {
				t.Errorf("Consume(%v) error = %v, wantErr %v", tc.ids, err, tc.wantErr)
			}
			if err != nil && !inv.Available("BTC").Equal(MustQ("1.5")) {
				t.Errorf("Consume(%v) failed but changed the inventory", tc.ids)
			}
		})
	}
}

func TestInventory_apply_Invariant(t *testing.T) {
	inv := newTestInventory()
	// a plan that takes more than a lot holds can only come from a bug.
	plan := []Consumption{{Lot: 2, Quantity: MustQ("0.1")}, {Lot: 1, Quantity: Q(2)}}
	_, err := inv.apply("BTC", plan)
	var invariant *InvariantError
	if !errors.As(err, &invariant) || invariant.Lot != 1 {
		t.Fatalf("apply() error = %v, want an InvariantError on lot 1", err)
	}
	if l, _ := inv.Lot(2); !l.RemainingQuantity.Equal(MustQ("0.5")) {
		t.Errorf("lot 2 remaining = %v, want it untouched", l.RemainingQuantity)
	}
}

func TestInventory_ExhaustTakesRemainingCost(t *testing.T) {
	inv := NewInventory()
	// 100 for 3 units, the cost per unit is not a finite decimal.
	inv.addLot("ETH", Q(3), USD(100), day("2024-01-01"))
	var total Money
	for range 3 {
		consumed, err := inv.Consume("ETH", Q(1), FIFO)
		if err != nil {
			t.Fatalf("Consume() unexpected error: %v", err)
		}
		total = total.Add(consumed[0].Cost)
	}
	if !total.Equal(USD(100)) {
		t.Errorf("sum of costs = %v, want exactly the lot cost 100", total)
	}
}
