// Package suggest ranks roulette outcomes under several scoring strategies.
//
// Scores are descriptive: they summarize the window of spins supplied and say
// nothing about the next spin. Input order is taken as time order, oldest
// first; the recency_weighted strategy is only as correct as that ordering.
package suggest

import (
	"math"
	"sort"

	"github.com/okian/spinlens/internal/domain/model"
	"github.com/okian/spinlens/internal/domain/wheel"
)

const (
	// DefaultK is the number of picks returned when no size is configured.
	DefaultK = 5
	// DefaultDecay is the per-spin weight decay for recency_weighted.
	DefaultDecay = 0.97
	// overdueBonus lifts never-seen outcomes above every finite gap.
	overdueBonus = 1000
)

// Scores holds one score per outcome.
type Scores [wheel.Size]float64

// Result is the outcome of Suggest.
type Result struct {
	Strategy   Strategy            `json:"strategy"`
	Picks      []int               `json:"picks"`
	ByStrategy map[Strategy][]int  `json:"by_strategy"`
	Scores     map[Strategy]Scores `json:"scores,omitempty"`
}

// Suggest scores every outcome under each strategy and returns the top k of
// the requested one together with the top k of all the others.
// An empty window yields an empty Result. Unknown strategies fall back to combo;
// k is clamped to [0, 37] and a decay outside (0,1) is replaced by DefaultDecay.
func Suggest(spins []model.Spin, strategy Strategy, k int, decay float64) Result {
	if !strategy.Known() {
		strategy = DefaultStrategy
	}
	res := Result{
		Strategy:   strategy,
		Picks:      []int{},
		ByStrategy: map[Strategy][]int{},
	}

	numbers := sequence(spins)
	if len(numbers) == 0 {
		return res
	}

	res.Scores = ScoreAll(numbers, validDecay(decay))
	for _, s := range Strategies() {
		res.ByStrategy[s] = TopK(res.Scores[s], k)
	}
	res.Picks = res.ByStrategy[strategy]
	return res
}

// ScoreAll computes the score vector of every strategy for numbers ordered oldest first.
func ScoreAll(numbers []int, decay float64) map[Strategy]Scores {
	hot := HotScores(numbers)
	overdue := OverdueScores(numbers)
	return map[Strategy]Scores{
		Hot:             hot,
		Overdue:         overdue,
		RecencyWeighted: RecencyScores(numbers, decay),
		Combo:           ComboScores(hot, overdue),
	}
}

// HotScores counts occurrences.
func HotScores(numbers []int) Scores {
	var s Scores
	for _, n := range numbers {
		s[n]++
	}
	return s
}

// OverdueScores is the gap since each outcome's last occurrence. Outcomes that
// never occurred get the largest finite gap plus overdueBonus.
func OverdueScores(numbers []int) Scores {
	last := [wheel.Size]int{}
	for i := range last {
		last[i] = -1
	}
	for i, n := range numbers {
		last[n] = i
	}

	var s Scores
	maxFinite := 0
	for n, idx := range last {
		if idx < 0 {
			continue
		}
		gap := len(numbers) - 1 - idx
		s[n] = float64(gap)
		maxFinite = max(maxFinite, gap)
	}
	for n, idx := range last {
		if idx < 0 {
			s[n] = float64(maxFinite + overdueBonus)
		}
	}
	return s
}

// RecencyScores walks from the newest spin to the oldest, adding a weight that
// starts at 1 and is multiplied by decay after every spin.
func RecencyScores(numbers []int, decay float64) Scores {
	var s Scores
	w := 1.0
	for i := len(numbers) - 1; i >= 0; i-- {
		s[numbers[i]] += w
		w *= decay
	}
	return s
}

// ComboScores averages the min-max normalized hot and overdue vectors.
func ComboScores(hot, overdue Scores) Scores {
	nh, no := MinMax(hot), MinMax(overdue)
	var s Scores
	for n := range s {
		s[n] = (nh[n] + no[n]) / 2
	}
	return s
}

// MinMax rescales s into [0,1]. A constant vector maps to all zeros.
func MinMax(s Scores) Scores {
	lo, hi := s[0], s[0]
	for _, v := range s[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	var out Scores
	if hi == lo {
		return out
	}
	for n, v := range s {
		out[n] = (v - lo) / (hi - lo)
	}
	return out
}

// TopK returns the k outcomes with the highest score, ties broken by the
// lower outcome. k is clamped to [0, 37].
func TopK(s Scores, k int) []int {
	k = min(max(k, 0), wheel.Size)
	idx := make([]int, wheel.Size)
	for n := range idx {
		idx[n] = n
	}
	sort.Slice(idx, func(i, j int) bool {
		a, b := idx[i], idx[j]
		if s[a] != s[b] {
			return s[a] > s[b]
		}
		return a < b
	})
	return idx[:k:k]
}

func sequence(spins []model.Spin) []int {
	out := make([]int, 0, len(spins))
	for _, sp := range spins {
		if wheel.Valid(sp.Number) {
			out = append(out, sp.Number)
		}
	}
	return out
}

func validDecay(d float64) float64 {
	if d > 0 && d < 1 {
		return d
	}
	return DefaultDecay
}
