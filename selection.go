package cryptotax

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// LotSelector designates the lots a disposal draws from under SpecificID.
//
// available lists the unexhausted lots of the disposed asset, oldest first.
// The returned ids are consumed in order.
type LotSelector interface {
	SelectLots(tx Transaction, available []LotView) ([]LotID, error)
}

// LotSelectorFunc adapts a function to a LotSelector.
type LotSelectorFunc func(tx Transaction, available []LotView) ([]LotID, error)

func (f LotSelectorFunc) SelectLots(tx Transaction, available []LotView) ([]LotID, error) {
	return f(tx, available)
}

// Selections designates lots per disposal transaction id.
type Selections map[string][]LotID

// SelectLots returns the lots designated for tx.
func (s Selections) SelectLots(tx Transaction, _ []LotView) ([]LotID, error) {
	ids, ok := s[tx.ID]
	if !ok || len(ids) == 0 {
		return nil, fmt.Errorf("no lots designated for disposal %q", tx.ID)
	}
	return ids, nil
}

// DecodeSelections reads lot designations from JSONL lines like
//
//	{"id": "s1", "lots": [2, 1]}
func DecodeSelections(r io.Reader) (Selections, error) {
	type selectionCmd struct {
		ID   string  `json:"id"`
		Lots []LotID `json:"lots"`
	}
	selections := make(Selections)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := bytes.TrimSpace(scanner.Bytes())
		if len(lineBytes) == 0 {
			continue
		}
		var cmd selectionCmd
		if err := json.Unmarshal(lineBytes, &cmd); err != nil {
			return nil, fmt.Errorf("format error on line %d %q: %w", line, string(lineBytes), err)
		}
		if cmd.ID == "" {
			return nil, fmt.Errorf("format error on line %d: missing id", line)
		}
		if _, exists := selections[cmd.ID]; exists {
			return nil, fmt.Errorf("format error on line %d: disposal %q is already designated", line, cmd.ID)
		}
		selections[cmd.ID] = cmd.Lots
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return selections, nil
}
