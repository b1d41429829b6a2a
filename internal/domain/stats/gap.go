package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// infiniteJSON is how a never-seen gap is encoded.
const infiniteJSON = `"inf"`

// Gap counts spins elapsed since an outcome last occurred.
// The zero value is an infinite gap: the outcome never occurred in the window.
type Gap struct {
	spins int
	seen  bool
}

// FiniteGap returns a gap of n spins.
func FiniteGap(n int) Gap { return Gap{spins: n, seen: true} }

// InfiniteGap returns the gap of an outcome that never occurred.
func InfiniteGap() Gap { return Gap{} }

// IsInfinite reports whether the outcome never occurred.
func (g Gap) IsInfinite() bool { return !g.seen }

// Spins returns the finite gap and false when the gap is infinite.
func (g Gap) Spins() (int, bool) { return g.spins, g.seen }

// Less orders gaps with infinity above every finite value.
func (g Gap) Less(o Gap) bool {
	switch {
	case !g.seen:
		return false
	case !o.seen:
		return true
	default:
		return g.spins < o.spins
	}
}

func (g Gap) String() string {
	if !g.seen {
		return "inf"
	}
	return strconv.Itoa(g.spins)
}

// MarshalJSON encodes finite gaps as numbers and infinite gaps as "inf".
func (g Gap) MarshalJSON() ([]byte, error) {
	if !g.seen {
		return []byte(infiniteJSON), nil
	}
	return []byte(strconv.Itoa(g.spins)), nil
}

// UnmarshalJSON accepts the encoding produced by MarshalJSON.
func (g *Gap) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte(infiniteJSON)) {
		*g = InfiniteGap()
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode gap %s: %w", b, err)
	}
	*g = FiniteGap(n)
	return nil
}
