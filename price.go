package cryptotax

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/cryptotax/date"
	"github.com/shopspring/decimal"
)

// PriceSource looks up the unit price of an asset on a given day.
type PriceSource interface {
	PriceAt(asset string, on date.Date) (Money, bool)
}

// PriceTable is an in-memory PriceSource. A lookup returns the most recent
// price known on or before the requested day.
type PriceTable struct {
	currency string
	prices   map[string]*date.History[Money]
}

// NewPriceTable returns an empty table of prices in currency.
func NewPriceTable(currency string) *PriceTable {
	return &PriceTable{currency: currency, prices: make(map[string]*date.History[Money])}
}

// Set records the price of asset on a day. A second price on the same day replaces the first.
func (p *PriceTable) Set(asset string, on date.Date, price decimal.Decimal) {
	asset = strings.ToUpper(asset)
	h, ok := p.prices[asset]
	if !ok {
		h = new(date.History[Money])
		p.prices[asset] = h
	}
	h.Append(on, M(price, p.currency))
}

// PriceAt implements PriceSource.
func (p *PriceTable) PriceAt(asset string, on date.Date) (Money, bool) {
	h, ok := p.prices[strings.ToUpper(asset)]
	if !ok {
		return Money{}, false
	}
	return h.ValueAsOf(on)
}

// Assets returns the assets with at least one price, sorted.
func (p *PriceTable) Assets() []string { return slices.Sorted(maps.Keys(p.prices)) }

// DecodePrices reads prices from JSONL lines holding a day and one price per asset:
//
//	{"on": "2024-01-15", "BTC": 40000, "ETH": 2500}
func DecodePrices(r io.Reader, currency string) (*PriceTable, error) {
	table := NewPriceTable(currency)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := bytes.TrimSpace(scanner.Bytes())
		if len(lineBytes) == 0 {
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(lineBytes, &fields); err != nil {
			return nil, fmt.Errorf("format error on line %d %q: %w", line, string(lineBytes), err)
		}
		raw, ok := fields["on"]
		if !ok {
			return nil, fmt.Errorf("format error on line %d: missing %q", line, "on")
		}
		var on date.Date
		if err := json.Unmarshal(raw, &on); err != nil {
			return nil, fmt.Errorf("format error on line %d: %w", line, err)
		}
		// sorted for stable error messages.
		for _, asset := range slices.Sorted(maps.Keys(fields)) {
			if asset == "on" {
				continue
			}
			var price decimal.Decimal
			if err := json.Unmarshal(fields[asset], &price); err != nil {
				return nil, fmt.Errorf("format error on line %d: price of %s: %w", line, asset, err)
			}
			if price.IsNegative() {
				return nil, fmt.Errorf("format error on line %d: negative price for %s", line, asset)
			}
			table.Set(asset, on, price)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return table, nil
}

// needsPrice reports whether the engine requires a unit price for tx.
func needsPrice(tx Transaction) bool {
	switch Classify(tx.Type) {
	case Acquisition, Disposal, Income:
		return true
	default:
		return tx.Type == TransferIn
	}
}

// FillPrices returns a copy of txs where missing unit prices are looked up in
// src. Transactions src has no price for are left without one.
func FillPrices(txs []Transaction, src PriceSource) []Transaction {
	filled := slices.Clone(txs)
	for i, tx := range filled {
		if tx.UnitPrice != nil || !needsPrice(tx) {
			continue
		}
		if p, ok := src.PriceAt(tx.Asset, tx.On()); ok {
			filled[i] = tx.WithPrice(p)
		}
	}
	return filled
}
