package riskfolio

import (
	"math"
	"slices"

	"github.com/khsu/riskfolio/date"
)

// tradingDays is the annualization convention: 252 trading days per year.
const tradingDays = 252

// Metrics is the risk bundle reported to callers. Every field is always
// present; a statistic that cannot be computed is reported as 0 rather than
// omitted, so consumers never have to special-case missing keys.
type Metrics struct {
	Volatility   float64 `json:"volatility"`
	SharpeRatio  float64 `json:"sharpe_ratio"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	AnnualReturn float64 `json:"annual_return"`
	VaR95        float64 `json:"var_95"`
	Beta         float64 `json:"beta"`
	CurrentValue float64 `json:"current_value"`
}

// Config carries the engine's tuning constants. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	// RiskFreeRate is the annual risk-free rate used by the Sharpe ratio.
	RiskFreeRate float64
	// SanityFloor discards balance observations at or below this value.
	SanityFloor float64
	// ExplainRatio is the flow-alignment threshold (see AlignFlows).
	ExplainRatio float64
	// OutlierReturn is the soft-filter threshold (see DailyReturns).
	OutlierReturn float64
	// MinBetaSamples is the smallest benchmark intersection on which a
	// regression beta is trusted.
	MinBetaSamples int
	// MaxBeta bounds a plausible regression beta for a long-only book.
	// Results outside (0, MaxBeta] fall back to the holdings-weighted beta.
	MaxBeta float64
}

// DefaultConfig returns the engine configuration used by the dashboard.
func DefaultConfig() Config {
	return Config{
		RiskFreeRate:   0.02,
		SanityFloor:    DefaultSanityFloor,
		ExplainRatio:   DefaultExplainRatio,
		OutlierReturn:  DefaultOutlierReturn,
		MinBetaSamples: 5,
		MaxBeta:        5,
	}
}

// Engine computes the risk metrics bundle from raw account data. It holds no
// mutable state: every call builds its own working data, so an Engine is safe
// for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine returns an Engine with the given configuration.
func NewEngine(cfg Config) *Engine { return &Engine{cfg: cfg} }

// pipeline holds the intermediate series of one computation. It is built
// fresh on every call and never shared.
type pipeline struct {
	balances date.History[float64]
	aligned  date.History[float64]
	returns  date.History[float64]
	samples  []float64 // non-zero returns
}

// run executes the series transformations up to the cleaned return samples.
func (e *Engine) run(obs []Balance, txs []Transaction) pipeline {
	var p pipeline
	p.balances = NormalizeBalances(obs, e.cfg.SanityFloor)
	if p.balances.Len() < 2 {
		return p
	}
	flows := NetFlows(txs)
	p.aligned = AlignFlows(p.balances, flows, e.cfg.ExplainRatio)
	p.returns = DailyReturns(p.balances, p.aligned, e.cfg.OutlierReturn)
	p.samples = NonZero(p.returns)
	return p
}

// metrics derives the statistics bundle from a pipeline. bench may be empty
// (benchmark unavailable): beta then falls back to the holdings-weighted
// estimate.
func (e *Engine) metrics(p pipeline, bench date.History[float64], holdings []Holding) (m Metrics, src BetaSource) {
	src = BetaHoldings
	m.Beta = WeightedBeta(holdings, totalValue(holdings))
	if _, last := p.balances.Latest(); last > 0 {
		m.CurrentValue = last
	}
	if len(p.samples) < 2 {
		return m, src
	}

	std := stdDev(p.samples)
	m.Volatility = std * math.Sqrt(tradingDays)
	if std > 0 {
		dailyRF := e.cfg.RiskFreeRate / tradingDays
		m.SharpeRatio = math.Sqrt(tradingDays) * (mean(p.samples) - dailyRF) / std
	}
	m.MaxDrawdown = MaxDrawdown(p.returns)
	m.VaR95 = percentile(p.samples, 5)
	m.AnnualReturn = annualReturn(p.returns)

	if beta, ok := RegressionBeta(p.returns, bench, e.cfg.MinBetaSamples); ok && beta > 0 && beta <= e.cfg.MaxBeta {
		m.Beta = beta
		src = BetaRegression
	}
	return m, src
}

// Metrics runs the full pipeline: normalize balances, classify and align
// flows, synthesize time-weighted returns, and derive the statistics bundle.
// Insufficient history degrades to a zeroed bundle, never an error.
func (e *Engine) Metrics(obs []Balance, txs []Transaction, bench date.History[float64], holdings []Holding) Metrics {
	m, _ := e.metrics(e.run(obs, txs), bench, holdings)
	return m
}

// MaxDrawdown walks a compounding equity curve over the cleaned return series
// and reports the deepest peak-to-trough decline as a non-positive fraction.
// Zero-return days pass through the curve unchanged; they cannot deepen a
// trough but they are not skipped either.
func MaxDrawdown(returns date.History[float64]) float64 {
	equity := 1.0
	peak := 1.0
	worst := 0.0
	for _, r := range returns.Values() {
		equity *= 1 + r
		if equity > peak {
			peak = equity
		}
		if dd := (equity - peak) / peak; dd < worst {
			worst = dd
		}
	}
	return worst
}

// RegressionBeta estimates beta as cov(portfolio, benchmark)/var(benchmark)
// over the date intersection of the two series. Zero portfolio returns are
// no-information days and are left out of the regression. It reports ok=false
// when the intersection is smaller than minSamples or the benchmark shows no
// variance, in which case the caller should use the holdings-weighted beta.
func RegressionBeta(returns, bench date.History[float64], minSamples int) (beta float64, ok bool) {
	var ps, bs []float64
	for on, r := range returns.Values() {
		if r == 0 {
			continue
		}
		b, found := bench.Get(on)
		if !found {
			continue
		}
		ps = append(ps, r)
		bs = append(bs, b)
	}
	if len(ps) < minSamples {
		return 0, false
	}

	pMean, bMean := mean(ps), mean(bs)
	var cov, bVar float64
	for i := range ps {
		cov += (ps[i] - pMean) * (bs[i] - bMean)
		bVar += (bs[i] - bMean) * (bs[i] - bMean)
	}
	if bVar == 0 {
		return 0, false
	}
	return cov / bVar, true
}

// annualReturn compounds the cleaned daily returns over the actual elapsed
// calendar span and annualizes geometrically. The result is clamped to
// [-99%, +200%]: beyond that range the figure says more about residual data
// noise than about the portfolio.
func annualReturn(returns date.History[float64]) float64 {
	if returns.Len() == 0 {
		return 0
	}
	total := 1.0
	for _, r := range returns.Values() {
		total *= 1 + r
	}
	first, _ := returns.First()
	last, _ := returns.Latest()
	days := last.Sub(first)
	if days < 1 {
		days = 1
	}
	annual := math.Pow(total, 365/float64(days)) - 1
	return clamp(annual, -0.99, 2.0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdDev is the sample standard deviation (n-1 denominator).
func stdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// percentile computes the p-th percentile (0-100) of xs with linear
// interpolation between the closest ranks, matching the historical-simulation
// VaR convention.
func percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	slices.Sort(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func totalValue(holdings []Holding) float64 {
	var total float64
	for _, h := range holdings {
		total += h.MarketValue
	}
	return total
}
