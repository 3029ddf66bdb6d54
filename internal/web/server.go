package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/stocker/internal/chart"
	"github.com/vadiminshakov/stocker/internal/ledger"
	"github.com/vadiminshakov/stocker/internal/view"
	"go.uber.org/zap"
)

const (
	heartbeatInterval = 30 * time.Second
	shutdownTimeout   = 5 * time.Second
	maxBodyBytes      = 1 << 16
)

// Server exposes the dashboard, a JSON API over the ledger and an SSE stream
// of chart frames. The ledger it is given should confirm unconditionally: the
// browser asks the user before sending destructive requests.
type Server struct {
	Addr string

	mu       sync.Mutex
	ledger   *ledger.Ledger
	chart    *chart.State
	frames   *chart.Broadcaster
	currency string
	l        *zap.Logger
}

// NewServer creates a new web server instance. frames must be attached to ch.
func NewServer(addr string, lg *ledger.Ledger, ch *chart.State, frames *chart.Broadcaster, currency string, l *zap.Logger) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{
		Addr:     addr,
		ledger:   lg,
		chart:    ch,
		frames:   frames,
		currency: currency,
		l:        l,
	}
}

// Handler returns the routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /chart/stream", s.handleChartStream)
	mux.HandleFunc("GET /api/positions", s.handleList)
	mux.HandleFunc("POST /api/positions", s.handleAdd)
	mux.HandleFunc("DELETE /api/positions", s.handleReset)
	mux.HandleFunc("PATCH /api/positions/{ticker}", s.handleEdit)
	mux.HandleFunc("DELETE /api/positions/{ticker}", s.handleRemove)
	return mux
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.l.Info("dashboard listening", zap.String("addr", s.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type positionsResponse struct {
	Table    view.Table  `json:"table"`
	Chart    chart.Frame `json:"chart"`
	Currency string      `json:"currency"`
}

type addRequest struct {
	Ticker string `json:"ticker"`
	Quote  string `json:"quote"`
	Amount string `json:"amount"`
}

type editRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, s.positionsLocked())
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Add(r.Context(), req.Ticker, req.Quote, req.Amount); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, s.positionsLocked())
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if !s.decode(w, r, &req) {
		return
	}

	field, err := ledger.ParseField(req.Field)
	if err != nil {
		s.writeError(w, errors.Wrap(ledger.ErrInvalidInput, err.Error()))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Edit(r.Context(), r.PathValue("ticker"), field, req.Value); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.positionsLocked())
}

// handleRemove expects the quote and amount the client displayed as query
// parameters so a stale row is not removed.
func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Remove(r.Context(), r.PathValue("ticker"), q.Get("quote"), q.Get("amount")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.positionsLocked())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Reset(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.positionsLocked())
}

func (s *Server) handleChartStream(w http.ResponseWriter, r *http.Request) {
	if s.frames == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "chart stream not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := s.frames.Subscribe()
	defer s.frames.Unsubscribe(sub)

	// send a comment heartbeat so proxies keep the connection
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	send := func(f chart.Frame) error {
		payload, err := json.Marshal(f)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "event: chart\n")
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
		return nil
	}

	// a replayed frame arrives through the subscription
	if !sub.Replayed {
		if err := send(s.chart.Frame()); err != nil {
			s.l.Error("chart stream initial frame", zap.Error(err))
			return
		}
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case f, ok := <-sub.Frames:
			if !ok {
				return
			}
			if err := send(f); err != nil {
				s.l.Error("chart stream send", zap.String("subscriber", sub.ID), zap.Error(err))
			}
		}
	}
}

func (s *Server) positionsLocked() positionsResponse {
	return positionsResponse{
		Table:    view.Build(s.ledger.Positions(), s.ledger.Total()),
		Chart:    s.chart.Frame(),
		Currency: s.currency,
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		s.writeError(w, errors.Wrap(ledger.ErrInvalidInput, "malformed request body"))
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.l.Error("request failed", zap.Error(err))
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrDuplicateTicker), errors.Is(err, ledger.ErrCancelled):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrStale):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.l.Error("write response", zap.Error(err))
	}
}
