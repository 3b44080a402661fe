package riskfolio

import (
	"github.com/khsu/riskfolio/date"
)

// BetaSource tells which estimator produced the bundle's beta.
type BetaSource string

const (
	// BetaRegression means the beta came from regressing portfolio returns
	// against the benchmark series.
	BetaRegression BetaSource = "regression"
	// BetaHoldings means the regression was not usable and the
	// holdings-weighted estimate was reported instead.
	BetaHoldings BetaSource = "holdings-weighted"
)

// RiskReport is the renderable risk analysis of one account (or of the
// aggregate): the metrics bundle plus the context a reader needs to judge it.
type RiskReport struct {
	Account  string
	Currency string
	Range    date.Range // span of the normalized balance series
	Metrics  Metrics

	Samples    int // informative (non-zero) return samples
	FlowDays   int // days with a non-zero attributed capital flow
	BetaSource BetaSource
	Holdings   []Holding
}

// Report runs the full analytics pipeline and returns the risk report.
// It is the Metrics operation plus bookkeeping for rendering; like Metrics it
// degrades to a zeroed bundle on insufficient data instead of failing.
func (e *Engine) Report(account, currency string, obs []Balance, txs []Transaction, bench date.History[float64], holdings []Holding) *RiskReport {
	r := &RiskReport{
		Account:  account,
		Currency: currency,
		Holdings: holdings,
	}

	p := e.run(obs, txs)
	r.Metrics, r.BetaSource = e.metrics(p, bench, holdings)
	r.Samples = len(p.samples)
	for _, f := range p.aligned.Values() {
		if f != 0 {
			r.FlowDays++
		}
	}
	if p.balances.Len() >= 2 {
		from, _ := p.balances.First()
		to, _ := p.balances.Latest()
		r.Range = date.NewRange(from, to)
	}
	return r
}

// MarshalJSON renders the report as a flat JSON object: the metric fields at
// the top level the way API consumers expect them, followed by the context
// fields.
func (r *RiskReport) MarshalJSON() ([]byte, error) {
	w := &jsonObjectWriter{}
	w.Optional("account", r.Account).
		Optional("currency", r.Currency).
		EmbedFrom(r.Metrics).
		Append("samples", r.Samples).
		Append("flow_days", r.FlowDays).
		Append("beta_source", r.BetaSource)
	if r.Range != (date.Range{}) {
		w.Append("from", r.Range.From).Append("to", r.Range.To)
	}
	w.Optional("holdings", r.Holdings)
	return w.MarshalJSON()
}
