package suggest

import "strings"

// Strategy names a scoring strategy.
type Strategy string

// Supported strategies.
const (
	Hot             Strategy = "hot"
	Overdue         Strategy = "overdue"
	RecencyWeighted Strategy = "recency_weighted"
	Combo           Strategy = "combo"
)

// DefaultStrategy is used when a name is not recognized.
const DefaultStrategy = Combo

// Strategies lists every strategy in presentation order.
func Strategies() []Strategy {
	return []Strategy{Hot, Overdue, RecencyWeighted, Combo}
}

// ParseStrategy maps a name to a Strategy, falling back to DefaultStrategy.
func ParseStrategy(name string) Strategy {
	s := Strategy(strings.ToLower(strings.TrimSpace(name)))
	if s.Known() {
		return s
	}
	return DefaultStrategy
}

// Known reports whether s is one of the supported strategies.
func (s Strategy) Known() bool {
	switch s {
	case Hot, Overdue, RecencyWeighted, Combo:
		return true
	}
	return false
}
