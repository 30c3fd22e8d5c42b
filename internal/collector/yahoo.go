package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"FearIndex/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// FetchOptions tunes the outbound HTTP behaviour of a fetcher.
type FetchOptions struct {
	Timeout time.Duration
	RPS     float64
	Burst   int
}

// DefaultFetchOptions returns conservative limits for the public Yahoo API.
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{Timeout: 30 * time.Second, RPS: 2, Burst: 4}
}

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	Client    *http.Client
	BaseURL   string
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewYahooFetcher creates a Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string, opts FetchOptions) *YahooFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultFetchOptions().Timeout
	}
	if opts.RPS <= 0 {
		opts.RPS = DefaultFetchOptions().RPS
	}
	if opts.Burst <= 0 {
		opts.Burst = DefaultFetchOptions().Burst
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		BaseURL: yahooBaseURL,
		SymbolMap: map[string]string{
			"VIX":    "^VIX",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
			"SPX500": "^GSPC",
		},
		limiter: rate.NewLimiter(rate.Limit(opts.RPS), opts.Burst),
		breaker: newBreaker("yahoo"),
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				GMTOffset int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// columns flattens the first chart result into PriceColumns, shifting
// timestamps by the exchange offset so they land on the session date.
func (c *yahooChart) columns() (PriceColumns, error) {
	if len(c.Chart.Result) == 0 || len(c.Chart.Result[0].Timestamp) == 0 {
		return PriceColumns{}, fmt.Errorf("yahoo: %w", errNoData)
	}
	result := c.Chart.Result[0]
	cols := PriceColumns{Times: make([]time.Time, len(result.Timestamp))}
	for i, ts := range result.Timestamp {
		cols.Times[i] = model.Date(time.Unix(ts+result.Meta.GMTOffset, 0).UTC())
	}
	if len(result.Indicators.Quote) > 0 {
		cols.Close = result.Indicators.Quote[0].Close
	}
	if len(result.Indicators.AdjClose) > 0 {
		cols.AdjClose = result.Indicators.AdjClose[0].AdjClose
	}
	return cols, nil
}

// Fetch returns daily closes for [start, end]. The end date is inclusive.
func (f *YahooFetcher) Fetch(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: rate limit wait: %w", model.ErrDataUnavailable, symbol, err)
	}
	points, err := guarded(ctx, f.breaker, func() ([]model.PricePoint, error) {
		return f.fetchChart(ctx, symbol, start, end)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", model.ErrDataUnavailable, symbol, err)
	}
	points = clip(points, start, end)
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s: no rows between %s and %s", model.ErrDataUnavailable, symbol,
			start.Format(model.DateLayout), end.Format(model.DateLayout))
	}
	return points, nil
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	period1 := model.Date(start).Unix()
	period2 := model.Date(end).AddDate(0, 0, 1).Unix()
	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&includeAdjustedClose=true&events=history",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), period1, period2)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	began := time.Now()
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, truncate(body, 256))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	cols, err := chart.columns()
	if err != nil {
		return nil, err
	}
	points, field, err := Normalize(cols)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, err)
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
	log.Debug().
		Str("symbol", symbol).
		Str("field", string(field)).
		Int("rows", len(points)).
		Dur("took", time.Since(began)).
		Msg("yahoo chart fetched")
	return points, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
