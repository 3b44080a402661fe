package riskfolio

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/khsu/riskfolio/date"
)

// DefaultBenchmark is the market proxy used for the regression beta.
const DefaultBenchmark = "SPY.US"

const eodhdKeyEnv = "EODHD_API_KEY"

var eodhdKeyFlag = flag.String("eodhd-api-key", "", "EODHD API key used to fetch benchmark prices.\n If missing it will be read from the environment variable \""+eodhdKeyEnv+"\". You can get one at https://eodhd.com/")

func eodhdKey() string {
	if *eodhdKeyFlag == "" {
		*eodhdKeyFlag = os.Getenv(eodhdKeyEnv)
	}
	return *eodhdKeyFlag
}

// diskCache implements a simple disk cache for HTTP responses.
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// The key includes today's date, so a cached response expires daily.
	key := fmt.Sprintf("%s %s %s", date.Today().String(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v/%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(os.TempDir(), key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(os.TempDir(), key), content, 0o644)
}

// daily returns a client whose responses are cached on disk until midnight.
func daily() *http.Client {
	client := new(http.Client)
	client.Transport = &diskCache{http.DefaultTransport}
	return client
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the
// provided data structure.
func jwget(client *http.Client, addr string, data interface{}) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}

// benchmarkCloses returns the split-adjusted daily closes of a ticker over the
// given range, fetched from the EODHD end-of-day endpoint.
func benchmarkCloses(apiKey, ticker string, rng date.Range) (date.History[float64], error) {
	addr := fmt.Sprintf("https://eodhd.com/api/eod/%s?fmt=json&api_token=%s&from=%s&to=%s", ticker, apiKey, rng.From, rng.To)
	type info struct {
		Date  date.Date `json:"date"`
		Close float64   `json:"adjusted_close"`
	}

	content := make([]info, 0)
	// query that endpoint at most once a day
	if err := jwget(daily(), addr, &content); err != nil {
		return date.History[float64]{}, err
	}

	var closes date.History[float64]
	for _, i := range content {
		closes.Append(i.Date, i.Close)
	}
	return closes, nil
}

// Returns converts a price series to daily fractional returns. The first day
// has no prior price and is dropped.
func Returns(prices date.History[float64]) date.History[float64] {
	var returns date.History[float64]
	prev := 0.0
	first := true
	for on, p := range prices.Values() {
		if !first && prev > 0 {
			returns.Append(on, (p-prev)/prev)
		}
		first = false
		prev = p
	}
	return returns
}

// BenchmarkReturns fetches the benchmark's daily return series over the given
// range. The API key comes from the -eodhd-api-key flag or the EODHD_API_KEY
// environment variable; without one it returns NeutralBenchmark so the caller
// degrades to the holdings-weighted beta instead of failing.
func BenchmarkReturns(ticker string, rng date.Range) (date.History[float64], error) {
	apiKey := eodhdKey()
	if apiKey == "" {
		return NeutralBenchmark(), nil
	}
	closes, err := benchmarkCloses(apiKey, ticker, rng)
	if err != nil {
		return NeutralBenchmark(), fmt.Errorf("cannot fetch benchmark %s: %w", ticker, err)
	}
	return Returns(closes), nil
}

// NeutralBenchmark is the empty benchmark series: every regression against it
// reports not-ok, which routes beta to the holdings-weighted estimate.
func NeutralBenchmark() date.History[float64] {
	return date.History[float64]{}
}
