package engine

import (
	"fmt"
	"sort"

	"tradesift/internal/core"
)

// FormulaStep records one attempt of the profitability formula.
type FormulaStep struct {
	Value      float64 // take-profit multiple tried
	Remaining  int     // numeric trades from this one to the end
	StopLosses int     // stop-loss count charged at this step
	Result     float64
}

// String renders the step the way the screening report prints it.
func (s FormulaStep) String() string {
	return fmt.Sprintf("(%g x %d) - %d = %.2f", s.Value, s.Remaining, s.StopLosses, s.Result)
}

// Verdict is the outcome of evaluating one trade list.
type Verdict struct {
	Pass  bool
	Steps []FormulaStep
}

// EvaluateProfitability runs the escalating take-profit formula over a list.
// Numeric reward/risk values are tried in ascending order; each attempt
// scores value*(remaining numeric trades) minus a running stop-loss count
// that starts at the list's stop-loss total and grows by one per failed
// attempt. The list passes on the first positive result. A list with no
// numeric trades fails. Raising any numeric value never turns a pass into
// a fail.
func EvaluateProfitability(trades core.TradeList) Verdict {
	values := make([]float64, 0, len(trades))
	stopLosses := 0
	for _, t := range trades {
		if v, ok := t.RewardRisk.Value(); ok {
			values = append(values, v)
		} else {
			stopLosses++
		}
	}
	sort.Float64s(values)

	var verdict Verdict
	n := len(values)
	for i, tp := range values {
		step := FormulaStep{
			Value:      tp,
			Remaining:  n - i,
			StopLosses: stopLosses,
			Result:     tp*float64(n-i) - float64(stopLosses),
		}
		verdict.Steps = append(verdict.Steps, step)
		if step.Result > 0 {
			verdict.Pass = true
			return verdict
		}
		stopLosses++
	}
	return verdict
}
