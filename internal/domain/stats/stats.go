// Package stats computes descriptive statistics over a window of spins.
//
// Every call to Analyze builds a fresh Snapshot from the spins it is given;
// nothing is cached or shared between calls. Spins are read oldest first.
package stats

import (
	"sort"

	"github.com/okian/spinlens/internal/domain/model"
	"github.com/okian/spinlens/internal/domain/wheel"
)

const (
	topListSize          = 10
	lightningExampleSize = 10
)

// NumberCount pairs an outcome with its frequency.
type NumberCount struct {
	Number int `json:"number"`
	Count  int `json:"count"`
}

// NumberGap pairs an outcome with its finite gap.
type NumberGap struct {
	Number int `json:"number"`
	Gap    int `json:"gap"`
}

// Snapshot is the read-only result of Analyze.
// Frequency and Gaps are indexed by outcome over the full 0..36 domain.
// Category maps only contain buckets that were hit at least once.
type Snapshot struct {
	TotalSpins int             `json:"total_spins"`
	Frequency  [wheel.Size]int `json:"frequency"`
	Gaps       [wheel.Size]Gap `json:"gaps"`

	ZeroCount int                  `json:"zero_count"`
	ByColor   map[wheel.Color]int  `json:"by_color"`
	ByParity  map[wheel.Parity]int `json:"by_parity"`
	ByDozen   map[wheel.Group]int  `json:"by_dozen"`
	ByColumn  map[wheel.Group]int  `json:"by_column"`

	LightningHits     int          `json:"lightning_hits"`
	LightningRate     float64      `json:"lightning_rate"`
	LightningExamples []model.Spin `json:"lightning_examples"`

	HotTop10         []NumberCount `json:"hot_top10"`
	ColdBottom10     []NumberCount `json:"cold_bottom10"`
	LongestGapsTop10 []NumberGap   `json:"longest_gaps_top10"`
}

// Analyze computes a Snapshot for spins ordered oldest first.
// Spins whose number is off the wheel are excluded from every statistic.
func Analyze(spins []model.Spin) Snapshot {
	spins = onWheel(spins)
	s := Snapshot{
		TotalSpins:        len(spins),
		ByColor:           map[wheel.Color]int{},
		ByParity:          map[wheel.Parity]int{},
		ByDozen:           map[wheel.Group]int{},
		ByColumn:          map[wheel.Group]int{},
		LightningExamples: []model.Spin{},
	}

	lastSeen := [wheel.Size]int{}
	firstSeen := [wheel.Size]int{}
	for i := range lastSeen {
		lastSeen[i] = -1
		firstSeen[i] = -1
	}

	for i, spin := range spins {
		n := spin.Number
		s.Frequency[n]++
		lastSeen[n] = i
		if firstSeen[n] < 0 {
			firstSeen[n] = i
		}

		s.ByDozen[wheel.DozenOf(n)]++
		s.ByColumn[wheel.ColumnOf(n)]++
		if n == 0 {
			s.ZeroCount++
		} else {
			s.ByColor[wheel.ColorOf(n)]++
			s.ByParity[wheel.ParityOf(n)]++
		}

		if spin.LightningHit() {
			s.LightningHits++
			if len(s.LightningExamples) < lightningExampleSize {
				s.LightningExamples = append(s.LightningExamples, spin)
			}
		}
	}

	for n := range s.Gaps {
		if lastSeen[n] >= 0 {
			s.Gaps[n] = FiniteGap(s.TotalSpins - 1 - lastSeen[n])
		}
	}
	if s.TotalSpins > 0 {
		s.LightningRate = float64(s.LightningHits) / float64(s.TotalSpins)
	}

	ranking := frequencyRanking(s.Frequency, firstSeen)
	s.HotTop10 = head(ranking, topListSize)
	s.ColdBottom10 = head(reversed(ranking), topListSize)
	s.LongestGapsTop10 = longestGaps(s.Gaps, topListSize)
	return s
}

// frequencyRanking orders the outcomes that occurred by frequency descending,
// ties by first encounter in the window. Hot and cold lists are both cut from
// this single ranking so that they mirror each other.
func frequencyRanking(freq [wheel.Size]int, firstSeen [wheel.Size]int) []NumberCount {
	out := make([]NumberCount, 0, wheel.Size)
	for n, c := range freq {
		if c > 0 {
			out = append(out, NumberCount{Number: n, Count: c})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return firstSeen[out[i].Number] < firstSeen[out[j].Number]
	})
	return out
}

// longestGaps lists outcomes with a finite gap, largest first, ties by outcome.
// Never-seen outcomes are left out.
func longestGaps(gaps [wheel.Size]Gap, k int) []NumberGap {
	out := make([]NumberGap, 0, wheel.Size)
	for n, g := range gaps {
		if spins, ok := g.Spins(); ok {
			out = append(out, NumberGap{Number: n, Gap: spins})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Gap != out[j].Gap {
			return out[i].Gap > out[j].Gap
		}
		return out[i].Number < out[j].Number
	})
	return head(out, k)
}

func onWheel(spins []model.Spin) []model.Spin {
	for _, sp := range spins {
		if !wheel.Valid(sp.Number) {
			return filterValid(spins)
		}
	}
	return spins
}

func filterValid(spins []model.Spin) []model.Spin {
	out := make([]model.Spin, 0, len(spins))
	for _, sp := range spins {
		if wheel.Valid(sp.Number) {
			out = append(out, sp)
		}
	}
	return out
}

func reversed[T any](in []T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}

func head[T any](in []T, k int) []T {
	if len(in) > k {
		in = in[:k]
	}
	return append(make([]T, 0, len(in)), in...)
}

// NeverSeen lists outcomes with an infinite gap in ascending order.
func (s Snapshot) NeverSeen() []int {
	out := []int{}
	for n, g := range s.Gaps {
		if g.IsInfinite() {
			out = append(out, n)
		}
	}
	return out
}
