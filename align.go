package riskfolio

import (
	"math"

	"github.com/khsu/riskfolio/date"
)

// DefaultExplainRatio is the fraction of a day's balance change that an
// attributed flow must account for before the change is considered explained.
// Inherited tuning constant; no derivation beyond "works on real ledgers".
const DefaultExplainRatio = 0.5

// AlignFlows reconciles the daily capital-flow series against day-over-day
// balance changes. Brokerage transaction postings and balance snapshots do not
// land on the same calendar day: a deposit can post to the ledger the day
// after it moves the liquidation value. Treating such a delta as market return
// would wreck every statistic downstream, so each flow is attributed to the
// day whose observed change it best explains: the posting day itself, or the
// day before (the flow recorded on t+1 may explain the change seen on t).
//
// The returned history has one entry per day of the balance series; the first
// day has no prior reference and is always zero. Flow amounts are consumed
// from a working pool as they are matched, so a flow explains at most one
// day's change. The pool is local to this call: concurrent computations never
// share it.
func AlignFlows(balances, flows date.History[float64], explainRatio float64) date.History[float64] {
	days := make([]date.Date, 0, balances.Len())
	values := make([]float64, 0, balances.Len())
	for on, v := range balances.Values() {
		days = append(days, on)
		values = append(values, v)
	}

	remaining := make(map[date.Date]float64, flows.Len())
	for on, v := range flows.Values() {
		remaining[on] = v
	}

	var aligned date.History[float64]
	if len(days) == 0 {
		return aligned
	}
	aligned.Append(days[0], 0)

	for i := 1; i < len(days); i++ {
		on := days[i]
		rawChange := values[i] - values[i-1]

		flowT := remaining[on]
		var flowNext float64
		if i+1 < len(days) {
			flowNext = remaining[days[i+1]]
		}

		var best float64
		// Same-day flow explains at least half of the change.
		if math.Abs(rawChange-flowT) < math.Abs(rawChange)*explainRatio {
			best += flowT
			remaining[on] -= flowT
		}
		// Still unexplained, and the next day carries a flow: attribute it too
		// if doing so shrinks the residual (the delayed-posting case).
		if math.Abs(best) < math.Abs(rawChange)*explainRatio && flowNext != 0 {
			if math.Abs(rawChange-(best+flowNext)) < math.Abs(rawChange-best) {
				best += flowNext
				remaining[days[i+1]] -= flowNext
			}
		}
		aligned.Append(on, best)
	}
	return aligned
}
