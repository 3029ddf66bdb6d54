package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/stocker/config"
	"github.com/vadiminshakov/stocker/internal/chart"
	"github.com/vadiminshakov/stocker/internal/ledger"
	"github.com/vadiminshakov/stocker/internal/storage/snapshot"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the process logger. Replaced in tests.
var newLogger = func(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// session is one hydrated ledger over the configured store.
type session struct {
	cfg    config.Config
	l      *zap.Logger
	store  *snapshot.Opened
	chart  *chart.State
	ledger *ledger.Ledger
}

// openSession loads the configuration, opens the store and hydrates a ledger.
// A nil confirmer asks in the terminal unless the config assumes yes.
func openSession(ctx context.Context, globals *config.Flags, confirm ledger.Confirmer, renderers ...chart.Renderer) (*session, error) {
	cfg, err := globals.Get()
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	l, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "create logger")
	}

	store, err := snapshot.Open(ctx, cfg.Storage, l)
	if err != nil {
		_ = l.Sync()
		return nil, errors.Wrapf(err, "open storage %q", cfg.Storage)
	}

	if confirm == nil {
		confirm = terminalConfirmer(cfg)
	}

	ch := chart.NewState(renderers...)
	lg := ledger.New(store.Store, ch, confirm, l)
	if _, err := lg.Hydrate(ctx); err != nil {
		_ = store.Close()
		_ = l.Sync()
		return nil, err
	}

	return &session{cfg: cfg, l: l, store: store, chart: ch, ledger: lg}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.l.Warn("failed to close storage", zap.Error(err))
	}
	_ = s.l.Sync()
}
