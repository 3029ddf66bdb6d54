// Command sse_load opens many concurrent clients on the dashboard's chart
// stream and reports how many frames they received.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	var (
		targetURL    string
		connections  int
		testDuration time.Duration
		rampUp       time.Duration
	)

	flag.StringVar(&targetURL, "url", "http://localhost:8080/chart/stream", "chart stream URL")
	flag.IntVar(&connections, "conns", 1000, "number of concurrent connections to open")
	flag.DurationVar(&testDuration, "dur", 60*time.Second, "test duration (0 for until interrupted)")
	flag.DurationVar(&rampUp, "ramp", 0, "ramp-up duration (spread connection starts across this window)")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if connections <= 0 {
		logger.Fatal("invalid conns", zap.Int("conns", connections))
	}

	if rampUp == 0 && connections > 100 {
		// default ramp-up: 1 second per 500 connections
		rampUp = max(time.Duration(connections/500)*time.Second, time.Second)
		logger.Info("using default ramp-up", zap.Duration("ramp", rampUp))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if testDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, testDuration)
		defer cancel()
	}

	logger.Info("starting chart stream load",
		zap.String("url", targetURL),
		zap.Int("conns", connections),
		zap.Duration("duration", testDuration),
		zap.Duration("ramp", rampUp))

	ld := newLoader(targetURL, connections, rampUp, logger)
	start := time.Now()
	go ld.report(ctx, 5*time.Second, start)

	s := ld.Run(ctx)

	elapsed := max(time.Since(start), time.Millisecond)
	fmt.Fprintf(os.Stdout, "done: connected=%d connect_errs=%d stream_errs=%d frames=%d bad_frames=%d elapsed=%s frames/s=%.2f\n",
		s.Connected, s.ConnectErrs, s.StreamErrs, s.Frames, s.BadFrames,
		elapsed.Truncate(time.Millisecond), float64(s.Frames)/elapsed.Seconds())
}
