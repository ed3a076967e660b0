// Package config loads and saves fintrack.yaml (or fintrack.toml).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/fintrack-dev/fintrack/internal/budget"
	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/tax"
)

// File names searched in a data root, in order.
const (
	FileName     = "fintrack.yaml"
	TOMLFileName = "fintrack.toml"
)

// Storage backends.
const (
	BackendCSV      = "csv"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config represents the top-level fintrack configuration.
type Config struct {
	Profile ProfileConfig `yaml:"profile" toml:"profile"`
	Storage StorageConfig `yaml:"storage" toml:"storage"`
	Tax     TaxConfig     `yaml:"tax" toml:"tax"`
	Budget  BudgetConfig  `yaml:"budget" toml:"budget"`
	Report  ReportConfig  `yaml:"report" toml:"report"`
	Prices  PricesConfig  `yaml:"prices" toml:"prices"`
	Import  ImportConfig  `yaml:"import" toml:"import"`
	Git     GitConfig     `yaml:"git" toml:"git"`
	Log     LogConfig     `yaml:"log" toml:"log"`
}

// ProfileConfig identifies whose finances these are.
type ProfileConfig struct {
	Name     string `yaml:"name" toml:"name"`
	Currency string `yaml:"currency" toml:"currency"`
}

// StorageConfig selects the repository backend.
type StorageConfig struct {
	Backend    string `yaml:"backend" toml:"backend"`
	SQLitePath string `yaml:"sqlite_path,omitempty" toml:"sqlite_path,omitempty"` // relative to the data root
	DSNEnv     string `yaml:"dsn_env,omitempty" toml:"dsn_env,omitempty"`
	EnvFile    string `yaml:"env_file,omitempty" toml:"env_file,omitempty"`
}

// SlabConfig is one tax bracket. A nil Upper is unbounded.
type SlabConfig struct {
	Lower int64   `yaml:"lower" toml:"lower"`
	Upper *int64  `yaml:"upper,omitempty" toml:"upper,omitempty"`
	Rate  float64 `yaml:"rate" toml:"rate"`
}

// TaxConfig holds the slab table and the flat-rate rules.
type TaxConfig struct {
	Slabs           []SlabConfig `yaml:"slabs" toml:"slabs"`
	CryptoRate      float64      `yaml:"crypto_rate" toml:"crypto_rate"`
	LTCGRate        float64      `yaml:"ltcg_rate" toml:"ltcg_rate"`
	LTCGExemption   int64        `yaml:"ltcg_exemption" toml:"ltcg_exemption"`
	Section80CLimit int64        `yaml:"section_80c_limit" toml:"section_80c_limit"`
}

// BudgetConfig holds the alert thresholds, in percent of the limit.
type BudgetConfig struct {
	Near float64 `yaml:"near" toml:"near"`
	Over float64 `yaml:"over" toml:"over"`
}

// ReportConfig controls trend reports.
type ReportConfig struct {
	WindowMonths int `yaml:"window_months" toml:"window_months"`
}

// PricesConfig points at the crypto price snapshot.
type PricesConfig struct {
	File string `yaml:"file" toml:"file"`
}

// ImportConfig sets the default bank format for import.
type ImportConfig struct {
	Format string `yaml:"format" toml:"format"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit" toml:"auto_commit"`
	AuthorName  string `yaml:"author_name" toml:"author_name"`
	AuthorEmail string `yaml:"author_email" toml:"author_email"`
}

// LogConfig controls the stderr logger.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // console or json
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a config file from disk. The format follows the extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadDir loads fintrack.yaml or fintrack.toml from root, returning the
// path it read. Without either file it returns the defaults and "".
func LoadDir(root string) (*Config, string, error) {
	for _, name := range []string{FileName, TOMLFileName} {
		path := filepath.Join(root, name)
		cfg, err := Load(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}
	return Default(""), "", nil
}

// Save writes a Config to a YAML or TOML file.
func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		var b strings.Builder
		err = toml.NewEncoder(&b).Encode(cfg)
		data = []byte(b.String())
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func slabsFromModel(slabs []model.TaxSlab) []SlabConfig {
	out := make([]SlabConfig, len(slabs))
	for i, s := range slabs {
		out[i] = SlabConfig{Lower: s.Lower.IntPart(), Rate: s.RatePercent.InexactFloat64()}
		if !s.Unbounded() {
			upper := s.Upper.Decimal.IntPart()
			out[i].Upper = &upper
		}
	}
	return out
}

// Default returns a Config with sensible defaults for a new data directory.
func Default(name string) *Config {
	rules := tax.DefaultRules()
	th := budget.DefaultThresholds()
	return &Config{
		Profile: ProfileConfig{
			Name:     name,
			Currency: "INR",
		},
		Storage: StorageConfig{
			Backend:    BackendCSV,
			SQLitePath: "fintrack.db",
			DSNEnv:     "FINTRACK_DATABASE_URL",
			EnvFile:    ".env",
		},
		Tax: TaxConfig{
			Slabs:           slabsFromModel(tax.DefaultSlabs()),
			CryptoRate:      rules.CryptoRatePercent.InexactFloat64(),
			LTCGRate:        rules.LTCGRatePercent.InexactFloat64(),
			LTCGExemption:   rules.LTCGExemption.IntPart(),
			Section80CLimit: rules.Section80CLimit.IntPart(),
		},
		Budget: BudgetConfig{
			Near: th.NearPercent.InexactFloat64(),
			Over: th.OverPercent.InexactFloat64(),
		},
		Report: ReportConfig{WindowMonths: 6},
		Prices: PricesConfig{File: "prices.yaml"},
		Import: ImportConfig{Format: "chase"},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "fintrack",
			AuthorEmail: "fintrack@localhost",
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

var logLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true, "disabled": true,
}

// Validate reports every problem with cfg at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Backend {
	case BackendCSV, BackendSQLite, BackendPostgres:
	default:
		errs = append(errs, fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend))
	}
	if c.Storage.Backend == BackendSQLite && c.Storage.SQLitePath == "" {
		errs = append(errs, errors.New("storage.sqlite_path: required for sqlite backend"))
	}
	if _, err := c.TaxSchedule(); err != nil {
		errs = append(errs, fmt.Errorf("tax.slabs: %w", err))
	}
	if c.Tax.CryptoRate < 0 || c.Tax.LTCGRate < 0 || c.Tax.LTCGExemption < 0 || c.Tax.Section80CLimit < 0 {
		errs = append(errs, errors.New("tax: rates and limits must be non-negative"))
	}
	if c.Budget.Near <= 0 || c.Budget.Over < c.Budget.Near {
		errs = append(errs, fmt.Errorf("budget: need 0 < near <= over, got near=%v over=%v", c.Budget.Near, c.Budget.Over))
	}
	if c.Report.WindowMonths <= 0 {
		errs = append(errs, fmt.Errorf("report.window_months: must be positive, got %d", c.Report.WindowMonths))
	}
	if !logLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format: must be console or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// TaxSchedule builds the validated slab table.
func (c *Config) TaxSchedule() (*tax.Schedule, error) {
	slabs := make([]model.TaxSlab, len(c.Tax.Slabs))
	for i, s := range c.Tax.Slabs {
		slabs[i] = model.TaxSlab{
			Lower:       decimal.NewFromInt(s.Lower),
			RatePercent: decimal.NewFromFloat(s.Rate),
		}
		if s.Upper != nil {
			slabs[i].Upper = decimal.NullDecimal{Decimal: decimal.NewFromInt(*s.Upper), Valid: true}
		}
	}
	return tax.NewSchedule(slabs)
}

// TaxRules returns the flat-rate rules.
func (c *Config) TaxRules() tax.Rules {
	return tax.Rules{
		CryptoRatePercent: decimal.NewFromFloat(c.Tax.CryptoRate),
		LTCGRatePercent:   decimal.NewFromFloat(c.Tax.LTCGRate),
		LTCGExemption:     decimal.NewFromInt(c.Tax.LTCGExemption),
		Section80CLimit:   decimal.NewFromInt(c.Tax.Section80CLimit),
	}
}

// Thresholds returns the budget alert thresholds.
func (c *Config) Thresholds() budget.Thresholds {
	return budget.Thresholds{
		NearPercent: decimal.NewFromFloat(c.Budget.Near),
		OverPercent: decimal.NewFromFloat(c.Budget.Over),
	}
}
