package chart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestState_Mutations(t *testing.T) {
	var frames []Frame
	s := NewState(RendererFunc(func(f Frame) { frames = append(frames, f) }))

	s.Append("AAPL", decimal.NewFromInt(1500))
	s.Append("MSFT", decimal.NewFromInt(600))
	s.Append("TSLA", decimal.NewFromInt(200))
	assert.Empty(t, frames, "nothing is drawn before redraw")

	s.Increment(s.FindIndexByLabel("MSFT"), decimal.NewFromInt(-100))
	s.RemoveAt(s.FindIndexByLabel("AAPL"))
	s.Redraw()

	require.Len(t, frames, 1)
	assert.Equal(t, []string{"MSFT", "TSLA"}, frames[0].Labels)
	assert.Equal(t, []float64{500, 200}, frames[0].Series)
	assert.Equal(t, 1, s.Redraws())

	v, ok := s.Value(0)
	require.True(t, ok)
	assert.True(t, v.Equal(decimal.NewFromInt(500)))
}

func TestState_OutOfRangeIsNoop(t *testing.T) {
	s := NewState()
	s.Append("AAPL", decimal.NewFromInt(10))

	s.Increment(5, decimal.NewFromInt(1))
	s.Increment(-1, decimal.NewFromInt(1))
	s.RemoveAt(3)
	s.RemoveAt(-1)

	assert.Equal(t, []string{"AAPL"}, s.Labels())
	assert.True(t, s.Series()[0].Equal(decimal.NewFromInt(10)))
	assert.Equal(t, -1, s.FindIndexByLabel("MSFT"))

	_, ok := s.Value(1)
	assert.False(t, ok)
}

func TestState_FrameIsACopy(t *testing.T) {
	s := NewState()
	s.Append("AAPL", decimal.NewFromInt(10))

	f := s.Frame()
	f.Labels[0] = "X"
	f.Series[0] = 99

	assert.Equal(t, []string{"AAPL"}, s.Labels())
	assert.Equal(t, 0, s.Redraws())
}

func TestBroadcaster(t *testing.T) {
	b := NewBroadcaster(1, zap.NewNop())

	early := b.Subscribe()
	assert.Equal(t, 1, b.Subscribers())
	assert.False(t, early.Replayed, "nothing published yet")

	b.Render(Frame{Labels: []string{"AAPL"}, Series: []float64{1500}})
	got := <-early.Frames
	assert.Equal(t, []string{"AAPL"}, got.Labels)

	// buffer of one: the second frame is dropped for a reader that never reads
	b.Render(Frame{Labels: []string{"A"}, Series: []float64{1}})
	b.Render(Frame{Labels: []string{"B"}, Series: []float64{2}})
	got = <-early.Frames
	assert.Equal(t, []string{"A"}, got.Labels)

	late := b.Subscribe()
	assert.True(t, late.Replayed)
	got = <-late.Frames
	assert.Equal(t, []string{"B"}, got.Labels, "late subscriber gets the last frame")

	b.Unsubscribe(early)
	_, open := <-early.Frames
	assert.False(t, open)
	assert.Equal(t, 1, b.Subscribers())

	b.Unsubscribe(early)
	b.Unsubscribe(late)
	assert.Equal(t, 0, b.Subscribers())
}
