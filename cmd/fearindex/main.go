package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"FearIndex/internal/cache"
	"FearIndex/internal/calculator"
	"FearIndex/internal/collector"
	"FearIndex/internal/config"
	"FearIndex/internal/metrics"
	"FearIndex/internal/model"
)

var configPath string

// rootCmd is the base command for the FearIndex CLI
var rootCmd = &cobra.Command{
	Use:   "fearindex",
	Short: "VIX to S&P 500 ratio dashboard",
	Long: `FearIndex fetches a volatility index and an equity index, derives their
scaled ratio and reports its moving average, Bollinger bands and percentiles.`,
	SilenceUsage: true,
}

func init() {
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultPath, "Path to YAML configuration file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the components shared by every command.
type app struct {
	cfg       *config.Config
	metrics   *metrics.Registry
	store     cache.Store
	collector *collector.Collector
}

func loadApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	setupLogging(cfg)

	opts := collector.FetchOptions{Timeout: cfg.Fetch.Timeout, RPS: cfg.Fetch.RPS, Burst: cfg.Fetch.Burst}
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, opts)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy, opts)
	}
	log.Info().Str("source", fetcher.Name()).Msg("data source selected")

	var store cache.Store
	if cfg.Cache.SQLitePath != "" {
		ss, err := cache.NewSQLiteStore(cfg.Cache.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite cache failed, using memory")
			store = cache.NewMemoryStore()
		} else {
			store = ss
		}
	} else {
		store = cache.NewMemoryStore()
	}

	reg := metrics.NewRegistry()
	cached := cache.NewCachingFetcher(fetcher, store, cfg.Cache.TTL)
	cached.Metrics = reg

	col := collector.NewCollector(cached, cfg.DataSource.SymbolA, cfg.DataSource.SymbolB, calculator.RollingOptions{
		MAWindow:   cfg.Analysis.MAWindow,
		BandPeriod: cfg.Analysis.BandPeriod,
		BandK:      cfg.Analysis.BandK,
	})
	col.LabelA = cfg.DataSource.LabelA
	col.LabelB = cfg.DataSource.LabelB
	col.Metrics = reg

	return &app{cfg: cfg, metrics: reg, store: store, collector: col}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		log.Warn().Err(err).Msg("close cache")
	}
}

// params resolves --start/--end flags against the configured default range.
func (a *app) params(start, end string) (model.Params, error) {
	p := model.DefaultParams(time.Now(), a.cfg.Analysis.DefaultYears)
	if start != "" {
		t, err := model.ParseDate(start)
		if err != nil {
			return p, err
		}
		p.Start = t
	}
	if end != "" {
		t, err := model.ParseDate(end)
		if err != nil {
			return p, err
		}
		p.End = t
	}
	return p, nil
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Logging.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Logging.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
