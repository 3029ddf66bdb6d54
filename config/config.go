package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultStorage  = "json:./data/portfolio.json"
	DefaultWebAddr  = ":8080"
	DefaultCurrency = money.USD
	DefaultLogLevel = "info"

	EnvStorage = "STOCKER_STORAGE"
	EnvWebAddr = "STOCKER_WEB_ADDR"
)

type Config struct {
	Storage   string
	WebAddr   string
	Currency  string
	LogLevel  string
	AssumeYes bool
}

type ConfigTmp struct {
	Storage   string `yaml:"storage,omitempty"`
	WebAddr   string `yaml:"web_addr,omitempty"`
	Currency  string `yaml:"currency,omitempty"`
	LogLevel  string `yaml:"log_level,omitempty"`
	AssumeYes bool   `yaml:"assume_yes,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Storage:  DefaultStorage,
		WebAddr:  DefaultWebAddr,
		Currency: DefaultCurrency,
		LogLevel: DefaultLogLevel,
	}
}

// Load reads .env, then the yaml file at path (if any), then applies the
// environment overrides.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		var err error
		cfg, err = getYaml(path)
		if err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)

	return cfg, nil
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var c ConfigTmp
	if err := yaml.Unmarshal(f, &c); err != nil {
		return Config{}, fmt.Errorf("incorrect yaml config %s, error: %w", path, err)
	}

	return c.toConfig()
}

func (c ConfigTmp) toConfig() (Config, error) {
	cfg := Default()

	if c.Storage != "" {
		cfg.Storage = c.Storage
	}
	if c.WebAddr != "" {
		cfg.WebAddr = c.WebAddr
	}

	if c.Currency != "" {
		code, err := ParseCurrency(c.Currency)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'currency' param in yaml config: %w", err)
		}
		cfg.Currency = code
	}

	if c.LogLevel != "" {
		level := strings.ToLower(c.LogLevel)
		switch level {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = level
		default:
			return Config{}, fmt.Errorf("incorrect 'log_level' param in yaml config: %q (use debug, info, warn or error)", c.LogLevel)
		}
	}

	cfg.AssumeYes = c.AssumeYes

	return cfg, nil
}

// ParseCurrency normalizes an ISO 4217 code and rejects unknown ones.
func ParseCurrency(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if money.GetCurrency(code) == nil {
		return "", fmt.Errorf("unknown currency code %q", raw)
	}
	return code, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvStorage); v != "" {
		cfg.Storage = v
	}
	if v := os.Getenv(EnvWebAddr); v != "" {
		cfg.WebAddr = v
	}
}
