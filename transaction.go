package riskfolio

import (
	"strings"

	"github.com/khsu/riskfolio/date"
	"github.com/shopspring/decimal"
)

// Transaction is a single ledger entry as reported by the brokerage.
// Amount follows the "positive = cash received by the account" convention;
// importers are responsible for normalizing the sign before it gets here.
type Transaction struct {
	Date        date.Date       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Action      string          `json:"action"`
	Description string          `json:"description,omitempty"`
	Symbol      string          `json:"symbol,omitempty"`
	Account     string          `json:"account,omitempty"`
}

// flowKeywords mark a transaction as an external capital movement.
var flowKeywords = []string{"journal", "deposit", "wire", "check", "transfer", "ach"}

// excludeKeywords mark a transaction as investment-internal. They take
// precedence over flowKeywords: a "Reinvest Transfer" is not a capital flow.
var excludeKeywords = []string{"buy", "sell", "dividend", "reinvest", "fee", "tax"}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// IsCapitalFlow reports whether the transaction moves external capital in or
// out of the account, as opposed to an internal investment event.
func (t Transaction) IsCapitalFlow() bool {
	action := strings.ToLower(t.Action)
	if containsAny(action, excludeKeywords) {
		return false
	}
	if !containsAny(action, flowKeywords) {
		return false
	}
	// Journals whose description mentions a dividend are internal sweeps of
	// dividend cash. Counting them as external capital would double-count the
	// dividend that the balance already reflects.
	if strings.Contains(action, "journal") && strings.Contains(strings.ToLower(t.Description), "div") {
		return false
	}
	return true
}

// NetFlows classifies the transaction stream and aggregates capital flows into
// a net amount per day. Accounts with no flow transactions produce an empty
// history, which downstream treats as an all-zero flow series.
func NetFlows(txs []Transaction) date.History[float64] {
	var flows date.History[float64]
	for _, t := range txs {
		if !t.IsCapitalFlow() {
			continue
		}
		flows.AppendAdd(t.Date, t.Amount.InexactFloat64())
	}
	return flows
}
