package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/stocker/internal/chart"
	"github.com/vadiminshakov/stocker/internal/ledger"
	"github.com/vadiminshakov/stocker/internal/storage/snapshot"
	"github.com/vadiminshakov/stocker/internal/web"
	"go.uber.org/zap"
)

func TestLoader_CountsChartFrames(t *testing.T) {
	frames := chart.NewBroadcaster(8, zap.NewNop())
	ch := chart.NewState(frames)
	ch.Append("AAPL", decimal.NewFromInt(1500))
	lg := ledger.New(snapshot.NewMemoryStore(), ch, ledger.AlwaysConfirm, zap.NewNop())

	ts := httptest.NewServer(web.NewServer("", lg, ch, frames, "USD", zap.NewNop()).Handler())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ld := newLoader(ts.URL+"/chart/stream", 3, 0, zap.NewNop())

	done := make(chan Stats)
	go func() { done <- ld.Run(ctx) }()

	require.Eventually(t, func() bool { return ld.Stats().Frames == 3 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	s := <-done
	assert.EqualValues(t, 3, s.Connected)
	assert.Zero(t, s.ConnectErrs)
	assert.Zero(t, s.StreamErrs)
	assert.Zero(t, s.BadFrames)
}

func TestLoader_ConnectErrors(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	s := newLoader(ts.URL, 2, 0, zap.NewNop()).Run(context.Background())

	assert.EqualValues(t, 2, s.ConnectErrs)
	assert.Zero(t, s.Connected)
}
