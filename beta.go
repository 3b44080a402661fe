package riskfolio

import "strings"

// Holding is a current position as reported by the brokerage snapshot.
type Holding struct {
	Symbol      string  `json:"symbol"`
	MarketValue float64 `json:"market_value"`
	AssetType   string  `json:"asset_type,omitempty"`
}

// IsOption reports whether the holding is an option contract. Option deltas
// are not linear in the underlying, so options are left out of the weighted
// beta.
func (h Holding) IsOption() bool { return strings.EqualFold(h.AssetType, "OPTION") }

// referenceBetas holds ex-ante betas for common symbols. Unknown symbols
// default to 1.0, treating them as market-like.
var referenceBetas = map[string]float64{
	"VOO": 1.0, "SPY": 1.0, "IVV": 1.0,
	"QQQ": 1.18, "IWY": 1.15, "RSP": 1.0,
	"NVDA": 1.67, "TSLA": 2.3, "AAPL": 1.1,
	"META": 1.2, "GOOG": 1.05, "GOOGL": 1.05,
	"MSFT": 0.9, "TSM": 1.2, "IBIT": 2.5,
	"SGOV": 0.0, "SHV": 0.0, "BIL": 0.0,
	"BRK.B": 0.9, "COST": 0.6,
}

// cashLikeTokens pin a symbol's beta to zero regardless of the reference
// table: short-duration treasury ETFs and cash sweep positions.
var cashLikeTokens = []string{"SGOV", "SHV", "BIL", "Cash"}

// WeightedBeta computes the ex-ante, holdings-weighted portfolio beta from
// the static reference table. It never fails: an empty book or a non-positive
// total value yields the neutral 1.0, and unknown symbols contribute a beta
// of 1.0 at their weight.
//
// This is the fallback and sanity check for the regression beta, which needs
// a benchmark intersection the account history cannot always provide.
func WeightedBeta(holdings []Holding, total float64) float64 {
	if len(holdings) == 0 || total <= 0 {
		return 1.0
	}

	var portfolioBeta float64
	for _, h := range holdings {
		if h.IsOption() {
			continue
		}
		beta, ok := referenceBetas[h.Symbol]
		if !ok {
			beta = 1.0
		}
		for _, token := range cashLikeTokens {
			if strings.Contains(h.Symbol, token) {
				beta = 0.0
				break
			}
		}
		portfolioBeta += h.MarketValue / total * beta
	}
	return portfolioBeta
}
