package config

import (
	"flag"
	"fmt"
)

// Flags are the global command line overrides. Empty values leave the loaded
// configuration untouched.
type Flags struct {
	Path     string
	Storage  string
	WebAddr  string
	Currency string
	Yes      bool
}

// Register binds the flags to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Path, "config", "", "path to yaml config")
	fs.StringVar(&f.Storage, "storage", "", "storage backend, example: json:./data/portfolio.json, wal:./data/journal, memory")
	fs.StringVar(&f.WebAddr, "addr", "", "web dashboard listen address, example: :8080")
	fs.StringVar(&f.Currency, "currency", "", "display currency code, example: USD")
	fs.BoolVar(&f.Yes, "yes", false, "answer yes to every confirmation")
}

// Get loads the config file named by the flags and applies the flag overrides.
func (f *Flags) Get() (Config, error) {
	cfg, err := Load(f.Path)
	if err != nil {
		return Config{}, err
	}

	if f.Storage != "" {
		cfg.Storage = f.Storage
	}
	if f.WebAddr != "" {
		cfg.WebAddr = f.WebAddr
	}
	if f.Currency != "" {
		code, err := ParseCurrency(f.Currency)
		if err != nil {
			return Config{}, fmt.Errorf("invalid -currency flag: %w", err)
		}
		cfg.Currency = code
	}
	if f.Yes {
		cfg.AssumeYes = true
	}

	return cfg, nil
}
