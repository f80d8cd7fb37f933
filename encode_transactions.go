package cryptotax

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/cryptotax/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// txCmd is the JSONL representation of a Transaction.
type txCmd struct {
	ID        string           `json:"id,omitempty"`
	Time      string           `json:"time"`
	Type      string           `json:"type"`
	Asset     string           `json:"asset"`
	Quantity  Quantity         `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Fee       decimal.Decimal  `json:"fee"`
	Currency  string           `json:"currency,omitempty"`
	Notes     string           `json:"notes,omitempty"`
}

// parseTime accepts an RFC3339 timestamp or a plain day.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	on, err := date.Parse(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want RFC3339 or %s", s, date.DateFormat)
	}
	return on.Time(), nil
}

func (c txCmd) transaction() (Transaction, error) {
	tm, err := parseTime(c.Time)
	if err != nil {
		return Transaction{}, err
	}
	cur := normalizeCurrency(c.Currency)
	tx := Transaction{
		ID:       c.ID,
		Time:     tm,
		Type:     TxType(strings.ToLower(strings.TrimSpace(c.Type))),
		Asset:    strings.ToUpper(strings.TrimSpace(c.Asset)),
		Quantity: c.Quantity,
		Fee:      M(c.Fee, cur),
		Notes:    c.Notes,
	}
	if c.UnitPrice != nil {
		tx = tx.WithPrice(M(*c.UnitPrice, cur))
	}
	return tx, nil
}

// DecodeTransactions reads transactions from a stream of JSONL data, one
// transaction per line. Blank lines are skipped. A transaction without id gets
// its line number as id.
//
// Transactions are returned in file order, they are not validated.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	var txs []Transaction
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := bytes.TrimSpace(scanner.Bytes())
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}
		var cmd txCmd
		if err := json.Unmarshal(lineBytes, &cmd); err != nil {
			return nil, fmt.Errorf("format error on line %d %q: %w", line, string(lineBytes), err)
		}
		tx, err := cmd.transaction()
		if err != nil {
			return nil, fmt.Errorf("format error on line %d: %w", line, err)
		}
		if tx.ID == "" {
			tx.ID = strconv.Itoa(line)
		}
		txs = append(txs, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return txs, nil
}

// EncodeTransaction writes tx as a single JSONL line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	var o jsonObjectWriter
	o.Optional("id", tx.ID)
	o.Append("time", tx.Time.UTC().Format(time.RFC3339))
	o.Append("type", tx.Type)
	o.Append("asset", tx.Asset)
	o.Append("quantity", tx.Quantity)
	if tx.UnitPrice != nil {
		o.Append("unit_price", *tx.UnitPrice)
	}
	if !tx.Fee.IsZero() {
		o.Append("fee", tx.Fee)
	}
	cur := tx.Fee.Currency()
	if tx.UnitPrice != nil && cur == "" {
		cur = tx.UnitPrice.Currency()
	}
	o.Optional("currency", cur)
	o.Optional("notes", tx.Notes)
	b, err := o.MarshalJSON()
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
