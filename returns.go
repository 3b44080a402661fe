package riskfolio

import (
	"math"

	"github.com/khsu/riskfolio/date"
)

// DefaultOutlierReturn is the single-day return magnitude above which a move
// with no attributed flow is judged to be residual data noise rather than
// market movement. Moves of 10-30% are legitimate for leveraged or option
// heavy accounts, so the bar sits well above them.
const DefaultOutlierReturn = 0.50

// DailyReturns derives time-weighted daily returns from the normalized balance
// series and the aligned flow per day:
//
//	r = (balance - prev - flow) / (prev + flow)
//
// Days whose denominator is not positive yield zero instead of an undefined
// return. The soft outlier filter then forces r to exactly zero when no flow
// was attributed to the day and |r| exceeds the outlier threshold: a large
// unexplained jump is an alignment artifact, while the same jump with a
// matched flow is real and preserved. Filtered and no-information days stay in
// the series as zeros so the calendar stays aligned; use NonZero to strip them
// before variance-based statistics.
func DailyReturns(balances, aligned date.History[float64], outlier float64) date.History[float64] {
	days := make([]date.Date, 0, balances.Len())
	values := make([]float64, 0, balances.Len())
	for on, v := range balances.Values() {
		days = append(days, on)
		values = append(values, v)
	}

	var returns date.History[float64]
	for i := 1; i < len(days); i++ {
		flow, _ := aligned.Get(days[i])
		r := 0.0
		if denom := values[i-1] + flow; denom > 0 {
			r = (values[i] - values[i-1] - flow) / denom
			if flow == 0 && math.Abs(r) > outlier {
				r = 0
			}
		}
		returns.Append(days[i], r)
	}
	return returns
}

// NonZero returns the samples of a return series that carry information.
// Exact zeros mean a non-trading, forward-filled, or filtered day; keeping
// them would bias variance estimates toward zero.
func NonZero(returns date.History[float64]) []float64 {
	out := make([]float64, 0, returns.Len())
	for _, r := range returns.Values() {
		if r != 0 {
			out = append(out, r)
		}
	}
	return out
}
