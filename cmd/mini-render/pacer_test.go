package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances when slept on and by step on every reading. The pacer
// polls near its deadline, so step must be positive when it waits.
type fakeClock struct {
	t     time.Time
	step  time.Duration
	slept time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func (c *fakeClock) sleep(d time.Duration) {
	c.slept += d
	c.t = c.t.Add(d)
}

func newTestPacer(c *fakeClock) *framePacer {
	return &framePacer{now: c.now, sleep: c.sleep}
}

func TestPacerUncapped(t *testing.T) {
	c := &fakeClock{t: time.Unix(0, 0)}
	p := newTestPacer(c)
	p.Wait(0)
	assert.Zero(t, c.slept)
	assert.True(t, p.deadline.IsZero())
}

func TestPacerHoldsRate(t *testing.T) {
	c := &fakeClock{t: time.Unix(0, 0), step: 10 * time.Microsecond}
	p := newTestPacer(c)
	start := c.t

	for i := 0; i < 10; i++ {
		p.Wait(100)
	}
	elapsed := c.t.Sub(start)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, 101*time.Millisecond)
	assert.Positive(t, c.slept)
}

func TestPacerMovesScheduleAfterStall(t *testing.T) {
	c := &fakeClock{t: time.Unix(0, 0), step: time.Microsecond}
	p := newTestPacer(c)
	p.Wait(100)

	// a one second stall must not be paid back with a burst of short frames
	c.t = c.t.Add(time.Second)
	for i := 0; i < 3; i++ {
		before := c.t
		p.Wait(100)
		assert.GreaterOrEqual(t, c.t.Sub(before), 9*time.Millisecond, "frame %d", i)
	}
}

func TestPacerFrameDelta(t *testing.T) {
	c := &fakeClock{t: time.Unix(0, 0)}
	p := newTestPacer(c)
	assert.Zero(t, p.Begin())

	c.t = c.t.Add(16 * time.Millisecond)
	assert.InDelta(t, 0.016, p.Begin(), 1e-6)
}

func TestPacerReportsRateOncePerSecond(t *testing.T) {
	c := &fakeClock{t: time.Unix(0, 0)}
	p := newTestPacer(c)

	var reports []int
	for i := 0; i < 125; i++ {
		p.Begin()
		if fps, ok := p.Tick(); ok {
			reports = append(reports, fps)
		}
		c.t = c.t.Add(20 * time.Millisecond)
	}
	// 50 frames per second over two and a half seconds
	require.Len(t, reports, 2)
	assert.Equal(t, []int{51, 50}, reports)
}
