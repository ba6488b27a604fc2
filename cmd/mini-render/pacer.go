package main

import "time"

// spinWindow is the tail of a frame wait spent polling the clock instead of
// sleeping, since sleeps overshoot by about that much.
const spinWindow = 200 * time.Microsecond

// framePacer measures frame deltas and the frame rate and holds frames to a
// rate cap.
type framePacer struct {
	// now and sleep are replaced in tests
	now   func() time.Time
	sleep func(time.Duration)

	last     time.Time
	deadline time.Time

	frames      int
	windowStart time.Time
}

func newFramePacer() *framePacer {
	return &framePacer{now: time.Now, sleep: time.Sleep}
}

// Begin starts a frame and returns the seconds since the previous one. The
// first frame reports 0.
func (p *framePacer) Begin() float32 {
	now := p.now()
	if p.last.IsZero() {
		p.last, p.windowStart = now, now
		return 0
	}
	dt := now.Sub(p.last)
	p.last = now
	return float32(dt.Seconds())
}

// Wait holds the frame until its slot at limit frames per second. limit <= 0
// runs uncapped. A frame that misses its slot by more than a whole slot moves
// the schedule instead of bursting to catch up.
func (p *framePacer) Wait(limit int) {
	if limit <= 0 {
		p.deadline = time.Time{}
		return
	}
	slot := time.Second / time.Duration(limit)
	if now := p.now(); p.deadline.IsZero() || now.Sub(p.deadline) > slot {
		p.deadline = now
	}
	p.deadline = p.deadline.Add(slot)

	for {
		left := p.deadline.Sub(p.now())
		if left <= 0 {
			return
		}
		if left > spinWindow {
			p.sleep(left - spinWindow)
		}
	}
}

// Tick counts a finished frame. About once a second it reports how many
// frames ran since the last report.
func (p *framePacer) Tick() (int, bool) {
	p.frames++
	if p.last.Sub(p.windowStart) < time.Second {
		return 0, false
	}
	fps := p.frames
	p.frames = 0
	p.windowStart = p.last
	return fps, true
}
