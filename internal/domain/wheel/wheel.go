// Package wheel describes the single-zero European roulette outcome domain.
package wheel

// Size is the number of outcomes, 0 through 36.
const Size = 37

// Color of a pocket.
type Color string

// Pocket colors.
const (
	Red   Color = "red"
	Black Color = "black"
	Green Color = "green"
)

// Parity of a non-zero pocket. Zero has no parity.
type Parity string

// Parity buckets.
const (
	Even     Parity = "even"
	Odd      Parity = "odd"
	NoParity Parity = ""
)

// Group is a dozen or column bucket label.
type Group string

// Dozen and column buckets. Zero falls into its own bucket for both.
const (
	First  Group = "1st"
	Second Group = "2nd"
	Third  Group = "3rd"
	Zero   Group = "zero"
)

var reds = [Size]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// Valid reports whether n is an outcome on the wheel.
func Valid(n int) bool { return n >= 0 && n < Size }

// ColorOf returns the pocket color; green for zero.
func ColorOf(n int) Color {
	switch {
	case n == 0:
		return Green
	case Valid(n) && reds[n]:
		return Red
	default:
		return Black
	}
}

// ParityOf returns even/odd for non-zero outcomes and NoParity for zero.
func ParityOf(n int) Parity {
	if n == 0 {
		return NoParity
	}
	if n%2 == 0 {
		return Even
	}
	return Odd
}

// DozenOf returns the dozen bucket: 1-12, 13-24, 25-36 or zero.
func DozenOf(n int) Group {
	switch {
	case n == 0:
		return Zero
	case n <= 12:
		return First
	case n <= 24:
		return Second
	default:
		return Third
	}
}

// ColumnOf returns the column bucket by (n-1) mod 3, or zero.
func ColumnOf(n int) Group {
	if n == 0 {
		return Zero
	}
	return [...]Group{First, Second, Third}[(n-1)%3]
}
