package cryptotax

import (
	"fmt"
	"strings"
)

// CostBasisMethod defines the policy used to select the lots a disposal draws down.
type CostBasisMethod int

const (
	// FIFO (First-In, First-Out) consumes the oldest lots first.
	FIFO CostBasisMethod = iota
	// LIFO (Last-In, First-Out) consumes the most recent lots first.
	LIFO
	// HIFO (Highest-In, First-Out) consumes the lots with the highest cost per unit first.
	HIFO
	// SpecificID consumes the lots explicitly designated by the caller for each disposal.
	SpecificID
)

// DefaultMethods are the methods compared when none is given.
var DefaultMethods = []CostBasisMethod{FIFO, LIFO, HIFO}

func (m CostBasisMethod) String() string {
	switch m {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	case HIFO:
		return "hifo"
	case SpecificID:
		return "specific-id"
	default:
		return "unknown"
	}
}

// ParseCostBasisMethod parses a string into a CostBasisMethod.
func ParseCostBasisMethod(s string) (CostBasisMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fifo":
		return FIFO, nil
	case "lifo":
		return LIFO, nil
	case "hifo":
		return HIFO, nil
	case "specific-id", "specific_id", "specific", "spec_id":
		return SpecificID, nil
	default:
		return 0, fmt.Errorf("unknown cost basis method: %q", s)
	}
}

func (m CostBasisMethod) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *CostBasisMethod) UnmarshalText(text []byte) error {
	v, err := ParseCostBasisMethod(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
