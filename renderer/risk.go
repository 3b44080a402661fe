// Package renderer turns engine reports into markdown strings. It only
// formats: every number it prints was computed upstream.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/khsu/riskfolio"
	md "github.com/nao1215/markdown"
)

// RiskMarkdown renders a risk report to a markdown string.
func RiskMarkdown(r *riskfolio.RiskReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Risk Analysis for %s", r.Account))
	if r.Range.From != r.Range.To {
		doc.PlainTextf("Period %s, %d informative samples, %d days with capital flows.",
			r.Range, r.Samples, r.FlowDays)
	}

	m := r.Metrics
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Metric", "Value"},
		Rows: [][]string{
			{"Current Value", riskfolio.M(m.CurrentValue, r.Currency).String()},
			{"Annualized Volatility", riskfolio.FromFraction(m.Volatility).String()},
			{"Sharpe Ratio", fmt.Sprintf("%.2f", m.SharpeRatio)},
			{"Max Drawdown", riskfolio.FromFraction(m.MaxDrawdown).SignedString()},
			{"Annual Return", riskfolio.FromFraction(m.AnnualReturn).SignedString()},
			{"VaR 95 (1 day)", riskfolio.FromFraction(m.VaR95).SignedString()},
			{fmt.Sprintf("Beta (%s)", r.BetaSource), fmt.Sprintf("%.2f", m.Beta)},
		},
	})

	if len(r.Holdings) > 0 {
		doc.H2("Holdings")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
			Header:    []string{"Symbol", "Market Value"},
			Rows:      [][]string{},
		}
		for _, h := range r.Holdings {
			table.Rows = append(table.Rows, []string{
				h.Symbol,
				riskfolio.M(h.MarketValue, r.Currency).String(),
			})
		}
		doc.Table(table)
	}

	return doc.String()
}
