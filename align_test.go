package riskfolio

import (
	"testing"
	"time"

	"github.com/khsu/riskfolio/date"
)

// weekBalances builds a Mon..Fri balance history from up to five values.
func weekBalances(values ...float64) date.History[float64] {
	var h date.History[float64]
	days := []date.Date{
		date.New(2025, time.June, 2),
		date.New(2025, time.June, 3),
		date.New(2025, time.June, 4),
		date.New(2025, time.June, 5),
		date.New(2025, time.June, 6),
	}
	for i, v := range values {
		h.Append(days[i], v)
	}
	return h
}

func TestAlignFlows_NoFlows(t *testing.T) {
	balances := weekBalances(100_000, 101_000, 100_500)
	var flows date.History[float64]

	aligned := AlignFlows(balances, flows, DefaultExplainRatio)

	if got := aligned.Len(); got != balances.Len() {
		t.Fatalf("Len() = %d, want %d (one entry per balance day)", got, balances.Len())
	}
	for on, f := range aligned.Values() {
		if f != 0 {
			t.Errorf("aligned flow on %s = %v, want 0", on, f)
		}
	}
}

func TestAlignFlows_SameDay(t *testing.T) {
	balances := weekBalances(100_000, 105_000, 105_000)
	var flows date.History[float64]
	tue := date.New(2025, time.June, 3)
	flows.Append(tue, 5_000)

	aligned := AlignFlows(balances, flows, DefaultExplainRatio)

	if got, _ := aligned.Get(tue); got != 5_000 {
		t.Errorf("aligned flow on %s = %v, want 5000", tue, got)
	}
	if got, _ := aligned.Get(date.New(2025, time.June, 4)); got != 0 {
		t.Errorf("consumed flow leaked to Wednesday: %v, want 0", got)
	}
}

func TestAlignFlows_DelayedPosting(t *testing.T) {
	// The balance jumps on Tuesday but the deposit posts on Wednesday.
	balances := weekBalances(100_000, 105_000, 105_000)
	var flows date.History[float64]
	wed := date.New(2025, time.June, 4)
	flows.Append(wed, 5_000)

	aligned := AlignFlows(balances, flows, DefaultExplainRatio)

	tue := date.New(2025, time.June, 3)
	if got, _ := aligned.Get(tue); got != 5_000 {
		t.Errorf("aligned flow on %s = %v, want the Wednesday posting pulled back (5000)", tue, got)
	}
	if got, _ := aligned.Get(wed); got != 0 {
		t.Errorf("aligned flow on %s = %v, want 0 after consumption", wed, got)
	}
}

func TestAlignFlows_UnexplainedFlow(t *testing.T) {
	// A recorded flow with no matching balance change stays unattributed.
	balances := weekBalances(100_000, 100_000, 100_000)
	var flows date.History[float64]
	flows.Append(date.New(2025, time.June, 3), 5_000)

	aligned := AlignFlows(balances, flows, DefaultExplainRatio)

	for on, f := range aligned.Values() {
		if f != 0 {
			t.Errorf("aligned flow on %s = %v, want 0 (nothing to explain)", on, f)
		}
	}
}

func TestAlignFlows_FirstDayZero(t *testing.T) {
	balances := weekBalances(100_000, 101_000)
	var flows date.History[float64]
	mon := date.New(2025, time.June, 2)
	flows.Append(mon, 100_000)

	aligned := AlignFlows(balances, flows, DefaultExplainRatio)

	if got, _ := aligned.Get(mon); got != 0 {
		t.Errorf("first day flow = %v, want 0 (no prior balance to compare)", got)
	}
}

func TestAlignFlows_EmptyBalances(t *testing.T) {
	var balances, flows date.History[float64]
	flows.Append(date.New(2025, time.June, 3), 5_000)
	if got := AlignFlows(balances, flows, DefaultExplainRatio); got.Len() != 0 {
		t.Errorf("Len() = %d, want 0", got.Len())
	}
}
