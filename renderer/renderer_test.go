package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/khsu/riskfolio"
	"github.com/khsu/riskfolio/date"
)

func TestRiskMarkdown(t *testing.T) {
	r := &riskfolio.RiskReport{
		Account:    "Brokerage ...123",
		Currency:   "USD",
		Range:      date.NewRange(date.New(2025, time.June, 2), date.New(2025, time.June, 5)),
		Samples:    3,
		FlowDays:   1,
		BetaSource: riskfolio.BetaHoldings,
		Metrics: riskfolio.Metrics{
			Volatility:   0.1523,
			SharpeRatio:  1.31,
			MaxDrawdown:  -0.0821,
			AnnualReturn: 0.124,
			VaR95:        -0.0112,
			Beta:         0.95,
			CurrentValue: 106_000,
		},
		Holdings: []riskfolio.Holding{
			{Symbol: "VOO", MarketValue: 60_000},
		},
	}

	got := RiskMarkdown(r)

	for _, want := range []string{
		"# Risk Analysis for Brokerage ...123",
		"15.23%",
		"-8.21%",
		"holdings-weighted",
		"## Holdings",
		"VOO",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RiskMarkdown() missing %q in:\n%s", want, got)
		}
	}
}

func TestHistoryMarkdown(t *testing.T) {
	var series date.History[float64]
	series.Append(date.New(2025, time.June, 2), 100_000)
	series.Append(date.New(2025, time.June, 3), 101_000)

	got := HistoryMarkdown("Brokerage ...123", "USD", series)

	for _, want := range []string{
		"# Balance History for Brokerage ...123",
		"2025-06-02",
		"$100,000.00",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("HistoryMarkdown() missing %q in:\n%s", want, got)
		}
	}
}
