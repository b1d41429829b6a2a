// Package model contains domain models passed between layers.
package model

// Lightning is a bonus annotation attached to a spin.
type Lightning struct {
	Number     int `json:"number"`     // bonus number in [0,36]
	Multiplier any `json:"multiplier"` // as found in the source record, may be nil
}

// Spin is the canonical representation of one roulette outcome.
// Spins are immutable once produced by the normalizer; a sequence of spins is
// ordered oldest first.
type Spin struct {
	Number    int         `json:"number"`
	Time      any         `json:"time"`
	Lightning []Lightning `json:"lightning"`
}

// LightningNumbers returns the bonus numbers attached to the spin in order.
func (s Spin) LightningNumbers() []int {
	out := make([]int, len(s.Lightning))
	for i, l := range s.Lightning {
		out[i] = l.Number
	}
	return out
}

// LightningHit reports whether the winning number was one of its own bonus numbers.
func (s Spin) LightningHit() bool {
	for _, l := range s.Lightning {
		if l.Number == s.Number {
			return true
		}
	}
	return false
}

// FieldMapping names the locators used to pull spin fields out of raw records.
// Number is required; the rest are optional. LightningNumber and
// LightningMultiplier are applied to each element of the LightningList.
type FieldMapping struct {
	Number              string `json:"number" koanf:"number"`
	Time                string `json:"time" koanf:"time"`
	LightningList       string `json:"lightning_list" koanf:"lightning_list"`
	LightningNumber     string `json:"lightning_number" koanf:"lightning_number"`
	LightningMultiplier string `json:"lightning_multiplier" koanf:"lightning_multiplier"`
}

// DefaultFieldMapping matches the record shape of the common lightning roulette feeds.
func DefaultFieldMapping() FieldMapping {
	return FieldMapping{
		Number:              "number",
		Time:                "time",
		LightningList:       "lightningNumbers",
		LightningNumber:     "number",
		LightningMultiplier: "multiplier",
	}
}
