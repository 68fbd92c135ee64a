package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration. Model thresholds live here
// with documented defaults; they are resolved into typed model parameters at
// assembly time and never read from inside an evaluation.
type Config struct {
	Environment string `yaml:"environment" default:"development"`

	Server struct {
		Port            int           `yaml:"port" default:"8080" validate:"gt=0,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`

	Cache struct {
		Backend string        `yaml:"backend" default:"memory" validate:"oneof=memory redis none"`
		TTL     time.Duration `yaml:"ttl" default:"5m"`
		Redis   struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Engine struct {
		Workers int `yaml:"workers" default:"4" validate:"gte=1"`

		DividendFX struct {
			MinSpreadBPS float64 `yaml:"min_spread_bps" default:"0"`
			DayCount     float64 `yaml:"day_count" default:"365" validate:"gt=0"`
		} `yaml:"dividend_fx"`

		ADRParity struct {
			DeadBandBPS     float64       `yaml:"dead_band_bps" default:"50" validate:"gte=0"`
			StalenessWindow time.Duration `yaml:"staleness_window" default:"15m"`
		} `yaml:"adr_parity"`

		Scrip struct {
			WholeShares bool `yaml:"whole_shares" default:"true"`
		} `yaml:"scrip"`

		Valuation struct {
			Mode     string  `yaml:"mode" default:"absolute" validate:"oneof=absolute zscore"`
			MinPeers int     `yaml:"min_peers" default:"3" validate:"gte=2"`
			Weights  struct {
				PE            float64 `yaml:"pe" default:"0.3"`
				ForwardPE     float64 `yaml:"forward_pe" default:"0.1"`
				PriceToBook   float64 `yaml:"price_to_book" default:"0.3"`
				DividendYield float64 `yaml:"dividend_yield" default:"0.2"`
				Returns       float64 `yaml:"returns" default:"0.1"`
			} `yaml:"weights"`
		} `yaml:"valuation"`

		Regime struct {
			ShortTenorMonths int `yaml:"short_tenor_months" default:"3" validate:"gt=0"`
			LongTenorMonths  int `yaml:"long_tenor_months" default:"120" validate:"gt=0"`
			LookbackMonths   int `yaml:"lookback_months" default:"12" validate:"gt=0"`
		} `yaml:"regime"`

		Sim struct {
			InitialCash        float64 `yaml:"initial_cash" default:"30000" validate:"gt=0"`
			MarginPct          float64 `yaml:"margin_pct" default:"0.25" validate:"gt=0,lte=1"`
			MaintenancePct     float64 `yaml:"maintenance_pct" default:"0.75" validate:"gt=0,lte=1"`
			RollMonths         int     `yaml:"roll_months" default:"6" validate:"gt=0"`
			DividendDragAnnual float64 `yaml:"dividend_drag_annual" default:"0.012" validate:"gte=0"`
			FinancingAnnualPct float64 `yaml:"financing_annual_pct" default:"4.5"`
			AltLeverage        float64 `yaml:"alt_leverage" default:"2" validate:"gt=0"`
			MinPeriods         int     `yaml:"min_periods" default:"30" validate:"gte=2"`
		} `yaml:"sim"`
	} `yaml:"engine"`
}

// Load reads, defaults, and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config and applies environment overrides.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Backend = "redis"
		c.Cache.Redis.Addr = v
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks structural rules plus the cross-field weight constraint.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	w := c.Engine.Valuation.Weights
	sum := w.PE + w.ForwardPE + w.PriceToBook + w.DividendYield + w.Returns
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("valuation weights must sum to 1, got %.4f", sum)
	}
	return nil
}
