package domain

import "fmt"

// PassPolicy decides whether a category passes given its counters.
// Each category declares its policy explicitly instead of burying the
// rule inside the test method.
type PassPolicy interface {
	Name() string
	Evaluate(counts SummaryCounts) bool
}

type allPass struct{}

func (allPass) Name() string { return "all-pass" }

func (allPass) Evaluate(c SummaryCounts) bool { return c.Failed == 0 }

type tolerateOne struct{}

func (tolerateOne) Name() string { return "tolerate-one" }

func (tolerateOne) Evaluate(c SummaryCounts) bool { return c.Failed <= 1 }

type minRate struct{ rate float64 }

func (m minRate) Name() string { return fmt.Sprintf("min-rate-%.0f%%", m.rate*100) }

func (m minRate) Evaluate(c SummaryCounts) bool {
	if c.Total == 0 {
		return true
	}
	return float64(c.Passed)/float64(c.Total) >= m.rate
}

// AllPass requires every scenario in the category to pass.
var AllPass PassPolicy = allPass{}

// TolerateOne allows at most one failing scenario.
var TolerateOne PassPolicy = tolerateOne{}

// MinRate requires the pass rate to be at least rate (0..1).
func MinRate(rate float64) PassPolicy { return minRate{rate: rate} }
