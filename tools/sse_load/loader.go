package main

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vadiminshakov/stocker/internal/chart"
	"go.uber.org/zap"
)

// Stats counts what the chart stream clients saw.
type Stats struct {
	Connected   int64
	ConnectErrs int64
	StreamErrs  int64
	Frames      int64
	BadFrames   int64
}

type loader struct {
	url    string
	conns  int
	rampUp time.Duration
	client *http.Client
	l      *zap.Logger

	connected   atomic.Int64
	connectErrs atomic.Int64
	streamErrs  atomic.Int64
	frames      atomic.Int64
	badFrames   atomic.Int64
}

func newLoader(url string, conns int, rampUp time.Duration, l *zap.Logger) *loader {
	transport := &http.Transport{
		MaxConnsPerHost:     conns + 100,
		MaxIdleConns:        conns + 100,
		MaxIdleConnsPerHost: conns + 100,
		DisableCompression:  true,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	return &loader{
		url:    url,
		conns:  conns,
		rampUp: rampUp,
		client: &http.Client{Transport: transport}, // no timeout, streaming
		l:      l,
	}
}

// Run opens the connections, spreading them over the ramp-up window, and
// reads frames until ctx is done.
func (ld *loader) Run(ctx context.Context) Stats {
	var wg sync.WaitGroup

	var interval time.Duration
	if ld.rampUp > 0 && ld.conns > 0 {
		interval = ld.rampUp / time.Duration(ld.conns)
	}

	for i := 0; i < ld.conns; i++ {
		if i > 0 && interval > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(interval):
			}
		}
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			ld.stream(ctx)
		}()
	}

	wg.Wait()
	return ld.Stats()
}

func (ld *loader) stream(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ld.url, nil)
	if err != nil {
		ld.connectErrs.Add(1)
		return
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := ld.client.Do(req)
	if err != nil {
		ld.connectErrs.Add(1)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		ld.connectErrs.Add(1)
		return
	}
	ld.connected.Add(1)

	reader := bufio.NewReader(resp.Body)
	inChart := false
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if ctx.Err() == nil {
				ld.streamErrs.Add(1)
			}
			return
		}
		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == "event: chart":
			inChart = true
		case inChart && strings.HasPrefix(line, "data: "):
			var f chart.Frame
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &f); err != nil || len(f.Labels) != len(f.Series) {
				ld.badFrames.Add(1)
			} else {
				ld.frames.Add(1)
			}
			inChart = false
		case line == "":
			inChart = false
		}
	}
}

func (ld *loader) Stats() Stats {
	return Stats{
		Connected:   ld.connected.Load(),
		ConnectErrs: ld.connectErrs.Load(),
		StreamErrs:  ld.streamErrs.Load(),
		Frames:      ld.frames.Load(),
		BadFrames:   ld.badFrames.Load(),
	}
}

// report logs the counters every interval until ctx is done.
func (ld *loader) report(ctx context.Context, every time.Duration, start time.Time) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s := ld.Stats()
			ld.l.Info("status",
				zap.Int64("connected", s.Connected),
				zap.Int64("connect_errs", s.ConnectErrs),
				zap.Int64("stream_errs", s.StreamErrs),
				zap.Int64("frames", s.Frames),
				zap.Int64("bad_frames", s.BadFrames),
				zap.Duration("elapsed", time.Since(start).Truncate(time.Second)))
		}
	}
}
