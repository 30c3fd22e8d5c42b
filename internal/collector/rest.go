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

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"FearIndex/internal/model"
)

// RESTFetcher implements Fetcher against a self-hosted daily bars API:
//
//	GET {base}/api/v1/bars/daily?symbol=X&from=YYYY-MM-DD&to=YYYY-MM-DD
//
// returning a JSON array of bars with a unix timestamp and close and/or
// adj_close fields.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string, opts FetchOptions) *RESTFetcher {
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
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		limiter: rate.NewLimiter(rate.Limit(opts.RPS), opts.Burst),
		breaker: newBreaker("rest"),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape from the bars API.
type restBar struct {
	Timestamp int64    `json:"timestamp"`
	Close     *float64 `json:"close"`
	AdjClose  *float64 `json:"adj_close"`
}

// columns treats a field as present only if at least one bar carries it.
func columns(bars []restBar) PriceColumns {
	cols := PriceColumns{Times: make([]time.Time, len(bars))}
	closes := make([]*float64, len(bars))
	adj := make([]*float64, len(bars))
	var hasClose, hasAdj bool
	for i, b := range bars {
		cols.Times[i] = model.Date(time.Unix(b.Timestamp, 0).UTC())
		closes[i], adj[i] = b.Close, b.AdjClose
		hasClose = hasClose || b.Close != nil
		hasAdj = hasAdj || b.AdjClose != nil
	}
	if hasClose {
		cols.Close = closes
	}
	if hasAdj {
		cols.AdjClose = adj
	}
	return cols
}

func (f *RESTFetcher) Fetch(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("from", start.Format(model.DateLayout))
	q.Set("to", end.Format(model.DateLayout))
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?%s", f.BaseURL, q.Encode())

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: rate limit wait: %w", model.ErrDataUnavailable, symbol, err)
	}
	points, err := guarded(ctx, f.breaker, func() ([]model.PricePoint, error) {
		bars, err := f.fetchBars(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		points, _, err := Normalize(columns(bars))
		return points, err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", model.ErrDataUnavailable, symbol, err)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
	points = clip(points, start, end)
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s: no rows returned", model.ErrDataUnavailable, symbol)
	}
	return points, nil
}

func (f *RESTFetcher) fetchBars(ctx context.Context, endpoint string) ([]restBar, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, truncate(body, 256))
	}
	var bars []restBar
	if err := json.NewDecoder(resp.Body).Decode(&bars); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	return bars, nil
}
