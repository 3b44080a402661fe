package riskfolio

import (
	"github.com/khsu/riskfolio/date"
)

// Balance is a single observation of an account's total liquidation value on a given day.
// Observations come from the brokerage snapshot fetcher or from CSV imports and are
// read-only to the engine.
type Balance struct {
	Date    date.Date `json:"date"`
	Value   float64   `json:"value"`
	Account string    `json:"account,omitempty"`
}

// DefaultSanityFloor is the balance value at or below which an observation is
// treated as a data artifact and discarded. Migration placeholders and partial
// snapshots show up as near-zero "balances"; dropping them is a deliberate,
// lossy policy, not an error path.
const DefaultSanityFloor = 100.0

// AggregateBalances merges per-account observations into one observation per
// day by summing the values. Days where only some accounts were observed sum
// what is there; the sanity floor downstream catches the degenerate cases.
func AggregateBalances(obs []Balance) []Balance {
	var totals date.History[float64]
	for _, b := range obs {
		totals.AppendAdd(b.Date, b.Value)
	}
	merged := make([]Balance, 0, totals.Len())
	for on, v := range totals.Values() {
		merged = append(merged, Balance{Date: on, Value: v})
	}
	return merged
}

// NormalizeBalances turns an unordered set of balance observations into a dense
// business-day series, forward-filled from the most recent known value.
//
// Duplicate dates collapse to the last value seen. Observations at or below the
// floor are discarded before resampling. If fewer than two observations
// survive, the result is an empty history: callers must treat that as
// "insufficient data" and report zeroed metrics.
func NormalizeBalances(obs []Balance, floor float64) date.History[float64] {
	var raw date.History[float64]
	for _, b := range obs {
		if b.Value <= floor {
			continue
		}
		raw.Append(b.Date, b.Value)
	}

	var series date.History[float64]
	if raw.Len() < 2 {
		return series
	}

	first, _ := raw.First()
	last, _ := raw.Latest()
	for on := range date.NewRange(first, last).BusinessDays() {
		// ValueAsOf forward-fills gaps from the most recent observation.
		v, ok := raw.ValueAsOf(on)
		if !ok {
			continue
		}
		series.Append(on, v)
	}
	return series
}
