package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/andy/gstbill/internal/logger"
)

type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database"`

	// Invoice numbering and document output
	Invoice InvoiceConfig `yaml:"invoice"`

	// Period report output
	Reports ReportsConfig `yaml:"reports"`

	// Seller identity printed on every invoice
	Seller SellerConfig `yaml:"seller"`

	Logging logger.LogConfig `yaml:"logging"`
}

type DatabaseConfig struct {
	Path    string `yaml:"path"`     // Path to SQLite database
	KeyFile string `yaml:"key_file"` // dotenv file holding GSTBILL_DB_KEY where no OS keychain exists
}

type InvoiceConfig struct {
	NumberPrefix string `yaml:"number_prefix"` // e.g. "INV" gives INV-2026-00001
	OutputDir    string `yaml:"output_dir"`    // Directory for generated PDFs
}

type ReportsConfig struct {
	OutputDir string `yaml:"output_dir"`
}

type SellerConfig struct {
	Name    string `yaml:"name"`
	GSTIN   string `yaml:"gstin"`
	Address string `yaml:"address"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
}

func baseDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".config", "gstbill")
}

// DefaultConfigPath returns ~/.config/gstbill/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(baseDir(), "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := baseDir()
	logging := logger.DefaultConfig()
	logging.Output = filepath.Join(dir, "gstbill.log")

	return &Config{
		Database: DatabaseConfig{
			Path:    filepath.Join(dir, "gstbill.db"),
			KeyFile: filepath.Join(dir, ".env"),
		},
		Invoice: InvoiceConfig{
			NumberPrefix: "INV",
			OutputDir:    filepath.Join(dir, "invoices"),
		},
		Reports: ReportsConfig{
			OutputDir: filepath.Join(dir, "reports"),
		},
		Logging: logging,
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Validate rejects settings that would produce unusable invoice numbers
func (c *Config) Validate() error {
	p := c.Invoice.NumberPrefix
	if strings.TrimSpace(p) == "" {
		return errors.New("invoice.number_prefix must not be empty")
	}
	if strings.ContainsAny(p, `/\ `) {
		return fmt.Errorf("invoice.number_prefix %q must not contain spaces or path separators", p)
	}
	return nil
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates the database, invoice and report directories
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{
		filepath.Dir(c.Database.Path),
		c.Invoice.OutputDir,
		c.Reports.OutputDir,
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
