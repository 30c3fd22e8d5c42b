package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultBandK = 2.0

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		SymbolA string `yaml:"symbol_a"`
		SymbolB string `yaml:"symbol_b"`
		LabelA  string `yaml:"label_a"`
		LabelB  string `yaml:"label_b"`
	} `yaml:"data_source"`
	Analysis struct {
		MAWindow     int     `yaml:"ma_window"`
		BandPeriod   int     `yaml:"band_period"`
		BandK        float64 `yaml:"band_k"`
		DefaultYears int     `yaml:"default_years"`
	} `yaml:"analysis"`
	Cache struct {
		TTL        time.Duration `yaml:"ttl"`
		SQLitePath string        `yaml:"sqlite_path"`
		SweepCron  string        `yaml:"sweep_cron"`
	} `yaml:"cache"`
	Fetch struct {
		Timeout time.Duration `yaml:"timeout"`
		RPS     float64       `yaml:"rps"`
		Burst   int           `yaml:"burst"`
	} `yaml:"fetch"`
	Server struct {
		Addr         string        `yaml:"addr"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // console or json
	} `yaml:"logging"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// set before decoding: an explicit band_k of 0 is valid
	cfg.Analysis.BandK = defaultBandK

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("FEARINDEX_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("FEARINDEX_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("FEARINDEX_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("FEARINDEX_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FEARINDEX_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = d
		}
	}
	if v := os.Getenv("FEARINDEX_BAND_K"); v != "" {
		if k, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.BandK = k
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Cache.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.SymbolA == "" {
		c.DataSource.SymbolA = "^VIX"
	}
	if c.DataSource.SymbolB == "" {
		c.DataSource.SymbolB = "^GSPC"
	}
	if c.DataSource.LabelA == "" {
		c.DataSource.LabelA = "VIX"
	}
	if c.DataSource.LabelB == "" {
		c.DataSource.LabelB = "SP500"
	}
	if c.Analysis.MAWindow == 0 {
		c.Analysis.MAWindow = 20
	}
	if c.Analysis.BandPeriod == 0 {
		c.Analysis.BandPeriod = 20
	}
	if c.Analysis.DefaultYears == 0 {
		c.Analysis.DefaultYears = 5
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = time.Hour
	}
	if c.Cache.SweepCron == "" {
		c.Cache.SweepCron = "0 */10 * * * *"
	}
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 30 * time.Second
	}
	if c.Fetch.RPS == 0 {
		c.Fetch.RPS = 2
	}
	if c.Fetch.Burst == 0 {
		c.Fetch.Burst = 4
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8501"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}

// Validate checks that values are usable.
func (c *Config) Validate() error {
	if c.DataSource.SymbolA == c.DataSource.SymbolB {
		return fmt.Errorf("data_source.symbol_a and symbol_b must differ")
	}
	if c.Analysis.MAWindow < 2 {
		return fmt.Errorf("analysis.ma_window must be at least 2")
	}
	if c.Analysis.BandPeriod < 2 {
		return fmt.Errorf("analysis.band_period must be at least 2")
	}
	if c.Analysis.BandK < 0 {
		return fmt.Errorf("analysis.band_k must be non-negative")
	}
	if c.Analysis.DefaultYears < 0 {
		return fmt.Errorf("analysis.default_years must be non-negative")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must be non-negative")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
