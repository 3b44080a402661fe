package schwab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/khsu/riskfolio"
	"github.com/khsu/riskfolio/date"
	"github.com/shopspring/decimal"
)

const apiBase = "https://api.schwabapi.com/trader/v1"

// wget little helper to retrieve payload from http.
func wget(uri string, header http.Header) ([]byte, error) {
	r, err := http.NewRequest(http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create http request %q: %w", uri, err)
	}
	r.Header = header

	resp, err := http.DefaultClient.Do(r)
	if err != nil {
		return nil, fmt.Errorf("cannot execute http request: %w", err)
	}
	body := resp.Body
	defer body.Close()

	// reading in a buffer to be able to print the json in debug mode
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return nil, fmt.Errorf("cannot read receiving http body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("URI=%s, status=%q", uri, resp.Status)
		return nil, fmt.Errorf("schwab API returned %s", resp.Status)
	}
	return buf.Bytes(), nil
}

// Account identifies one linked brokerage account. The API addresses accounts
// by an opaque hash, never by the account number itself.
type Account struct {
	Number string `json:"accountNumber"`
	Hash   string `json:"hashValue"`
}

// Accounts lists the accounts linked to the session's user.
func (s *Session) Accounts() ([]Account, error) {
	data, err := wget(apiBase+"/accounts/accountNumbers", s.header)
	if err != nil {
		return nil, fmt.Errorf("error querying linked accounts: %w", err)
	}
	var accounts []Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("could not decode schwab accounts json: %w", err)
	}
	return accounts, nil
}

// jpathFloat extracts a float64 at a jsonpath, unwrapping the single-element
// list the library sometimes returns instead of a scalar.
func jpathFloat(jobj any, path string) (float64, bool) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, false
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	return val, ok
}

// liquidationPaths are probed in order: the account payload nests the total
// value differently depending on account type.
var liquidationPaths = []string{
	"$.securitiesAccount.currentBalances.liquidationValue",
	"$.securitiesAccount.initialBalances.liquidationValue",
	"$.aggregatedBalance.liquidationValue",
}

// position is the excerpt of a Schwab position entry the engine needs.
type position struct {
	MarketValue float64 `json:"marketValue"`
	Instrument  struct {
		Symbol    string `json:"symbol"`
		AssetType string `json:"assetType"`
	} `json:"instrument"`
}

// decodeSnapshot extracts the liquidation value and positions from an account
// payload.
func decodeSnapshot(data []byte) (float64, []riskfolio.Holding, error) {
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return 0, nil, fmt.Errorf("could not decode schwab account json: %w", err)
	}
	var value float64
	found := false
	for _, path := range liquidationPaths {
		if v, ok := jpathFloat(jobj, path); ok {
			value, found = v, true
			break
		}
	}
	if !found {
		return 0, nil, fmt.Errorf("no liquidation value in payload")
	}

	var payload struct {
		SecuritiesAccount struct {
			Positions []position `json:"positions"`
		} `json:"securitiesAccount"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return 0, nil, fmt.Errorf("could not decode schwab positions json: %w", err)
	}

	holdings := make([]riskfolio.Holding, 0, len(payload.SecuritiesAccount.Positions))
	for _, p := range payload.SecuritiesAccount.Positions {
		holdings = append(holdings, riskfolio.Holding{
			Symbol:      p.Instrument.Symbol,
			MarketValue: p.MarketValue,
			AssetType:   p.Instrument.AssetType,
		})
	}
	return value, holdings, nil
}

// Snapshot fetches the account's current liquidation value and positions, and
// returns them as a balance observation dated today plus the holdings list.
func (s *Session) Snapshot(a Account) (riskfolio.Balance, []riskfolio.Holding, error) {
	data, err := wget(apiBase+"/accounts/"+url.PathEscape(a.Hash)+"?fields=positions", s.header)
	if err != nil {
		return riskfolio.Balance{}, nil, fmt.Errorf("error querying account %s: %w", a.Number, err)
	}
	value, holdings, err := decodeSnapshot(data)
	if err != nil {
		return riskfolio.Balance{}, nil, fmt.Errorf("account %s: %w", a.Number, err)
	}
	balance := riskfolio.Balance{
		Date:    date.Today(),
		Value:   value,
		Account: a.Number,
	}
	return balance, holdings, nil
}

// transaction is the excerpt of a Schwab transaction entry the engine needs.
type transaction struct {
	TradeDate   string  `json:"tradeDate"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	NetAmount   float64 `json:"netAmount"`
	TransferItems []struct {
		Instrument struct {
			Symbol string `json:"symbol"`
		} `json:"instrument"`
	} `json:"transferItems"`
}

// decodeTransactions maps a transactions payload to the engine's transaction
// type, tagged with the account number.
func decodeTransactions(data []byte, account string) ([]riskfolio.Transaction, error) {
	var entries []transaction
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("could not decode schwab transactions json: %w", err)
	}

	txs := make([]riskfolio.Transaction, 0, len(entries))
	for _, e := range entries {
		t, err := time.Parse(time.RFC3339, e.TradeDate)
		if err != nil {
			log.Printf("skipping transaction with date %q: %v", e.TradeDate, err)
			continue
		}
		symbol := ""
		if len(e.TransferItems) > 0 {
			symbol = e.TransferItems[0].Instrument.Symbol
		}
		txs = append(txs, riskfolio.Transaction{
			Date:        date.New(t.Date()),
			Amount:      decimal.NewFromFloat(e.NetAmount),
			Action:      e.Type,
			Description: e.Description,
			Symbol:      symbol,
			Account:     account,
		})
	}
	return txs, nil
}

// Transactions fetches the account's transactions over the given range.
func (s *Session) Transactions(a Account, rng date.Range) ([]riskfolio.Transaction, error) {
	q := url.Values{}
	q.Set("startDate", rng.From.String()+"T00:00:00.000Z")
	q.Set("endDate", rng.To.String()+"T23:59:59.000Z")
	uri := apiBase + "/accounts/" + url.PathEscape(a.Hash) + "/transactions?" + q.Encode()

	data, err := wget(uri, s.header)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions for %s: %w", a.Number, err)
	}
	return decodeTransactions(data, a.Number)
}
