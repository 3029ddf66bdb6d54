// Package chart keeps the label/series view of the portfolio that feeds the allocation chart.
package chart

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Frame is a copy of the chart data handed to a renderer on redraw.
type Frame struct {
	Labels []string  `json:"labels"`
	Series []float64 `json:"series"`
}

// Renderer draws a frame. Implementations must not retain the frame's slices
// beyond the call unless they copy them.
type Renderer interface {
	Render(Frame)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Frame)

func (f RendererFunc) Render(fr Frame) { f(fr) }

// State holds ordered labels with one parallel series. Mutations only touch
// memory; nothing is drawn until Redraw.
type State struct {
	mu        sync.RWMutex
	labels    []string
	series    []decimal.Decimal
	renderers []Renderer
	redraws   int
}

// NewState returns an empty chart that redraws through the given renderers.
func NewState(renderers ...Renderer) *State {
	return &State{renderers: renderers}
}

// Attach adds a renderer for subsequent redraws.
func (s *State) Attach(r Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.renderers = append(s.renderers, r)
}

// Append adds a trailing label/value pair.
func (s *State) Append(label string, value decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.labels = append(s.labels, label)
	s.series = append(s.series, value)
}

// Increment adjusts the value at index in place. Out of range is a no-op.
func (s *State) Increment(index int, delta decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.series) {
		return
	}
	s.series[index] = s.series[index].Add(delta)
}

// RemoveAt deletes one label/value pair, shifting later entries down.
func (s *State) RemoveAt(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.labels) {
		return
	}
	s.labels = append(s.labels[:index], s.labels[index+1:]...)
	s.series = append(s.series[:index], s.series[index+1:]...)
}

// FindIndexByLabel returns the index of label or -1.
func (s *State) FindIndexByLabel(label string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, l := range s.labels {
		if l == label {
			return i
		}
	}
	return -1
}

// Redraw pushes the current labels and series to every renderer.
func (s *State) Redraw() {
	s.mu.Lock()
	s.redraws++
	frame := s.frameLocked()
	renderers := append([]Renderer(nil), s.renderers...)
	s.mu.Unlock()

	for _, r := range renderers {
		r.Render(frame)
	}
}

// Labels returns a copy of the labels.
func (s *State) Labels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string{}, s.labels...)
}

// Series returns a copy of the exact series values.
func (s *State) Series() []decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]decimal.Decimal{}, s.series...)
}

// Value returns the series value at index.
func (s *State) Value(index int) (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.series) {
		return decimal.Zero, false
	}
	return s.series[index], true
}

// Len returns the number of entries.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.labels)
}

// Redraws reports how many times Redraw ran.
func (s *State) Redraws() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.redraws
}

// Frame returns the current data without redrawing.
func (s *State) Frame() Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.frameLocked()
}

func (s *State) frameLocked() Frame {
	f := Frame{
		Labels: append([]string{}, s.labels...),
		Series: make([]float64, len(s.series)),
	}
	for i, v := range s.series {
		f.Series[i] = v.InexactFloat64()
	}
	return f
}
