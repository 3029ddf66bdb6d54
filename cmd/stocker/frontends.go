package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"
	"github.com/vadiminshakov/stocker/config"
	"github.com/vadiminshakov/stocker/internal/chart"
	"github.com/vadiminshakov/stocker/internal/ledger"
	"github.com/vadiminshakov/stocker/internal/tui"
	"github.com/vadiminshakov/stocker/internal/web"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type serveCmd struct {
	globals *config.Flags
	buffer  int
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the web dashboard" }
func (*serveCmd) Usage() string {
	return `stocker [-addr :8080] serve

  Serves the dashboard with a live allocation chart. Destructive actions are
  confirmed in the browser.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.buffer, "buffer", 16, "frames buffered per chart subscriber")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	frames := chart.NewBroadcaster(c.buffer, nil)
	s, err := openSession(ctx, c.globals, ledger.AlwaysConfirm, frames)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	server := web.NewServer(s.cfg.WebAddr, s.ledger, s.chart, frames, s.cfg.Currency, s.l.Named("web"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		s.l.Info("shutting down", zap.Int("subscribers", frames.Subscribers()))
		return nil
	})

	if err := g.Wait(); err != nil {
		return fail(err)
	}

	return subcommands.ExitSuccess
}

type tuiCmd struct {
	globals *config.Flags
}

func (*tuiCmd) Name() string     { return "tui" }
func (*tuiCmd) Synopsis() string { return "manage the portfolio interactively" }
func (*tuiCmd) Usage() string {
	return `stocker tui
`
}
func (*tuiCmd) SetFlags(*flag.FlagSet) {}

func (c *tuiCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, c.globals, nil)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if err := tui.New(s.ledger, s.chart, s.cfg.Currency, stdout, s.l.Named("tui")).Run(ctx); err != nil {
		return fail(err)
	}

	return subcommands.ExitSuccess
}
