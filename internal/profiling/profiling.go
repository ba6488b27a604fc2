package profiling

import (
	"cmp"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Lightweight per-frame CPU profiler for pass-level timings.

// Entry is the accumulated time of one tracked name.
type Entry struct {
	Name string
	Dur  time.Duration
}

// Profiler accumulates durations per name until the next ResetFrame.
type Profiler struct {
	mu     sync.Mutex
	totals map[string]time.Duration
	frames int
}

func New() *Profiler {
	return &Profiler{totals: make(map[string]time.Duration)}
}

// Default is the profiler behind the package level functions.
var Default = New()

// Track returns a stop function that records the elapsed time under name.
// Usage: defer profiling.Track("render.ssao")()
func (p *Profiler) Track(name string) func() {
	start := time.Now()
	return func() { p.Add(name, time.Since(start)) }
}

// Add records d under name.
func (p *Profiler) Add(name string, d time.Duration) {
	p.mu.Lock()
	p.totals[name] += d
	p.mu.Unlock()
}

// ResetFrame clears the current totals. Call at the start of each frame.
func (p *Profiler) ResetFrame() {
	p.mu.Lock()
	clear(p.totals)
	p.frames++
	p.mu.Unlock()
}

// Frames is the number of ResetFrame calls so far.
func (p *Profiler) Frames() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// Snapshot returns a copy of the current totals.
func (p *Profiler) Snapshot() map[string]time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return maps.Clone(p.totals)
}

// Top returns the n slowest entries, slowest first. Equal durations sort by
// name.
func (p *Profiler) Top(n int) []Entry {
	ss := p.Snapshot()
	list := make([]Entry, 0, len(ss))
	for k, v := range ss {
		list = append(list, Entry{Name: k, Dur: v})
	}
	slices.SortFunc(list, func(a, b Entry) int {
		if c := cmp.Compare(b.Dur, a.Dur); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return list[:min(max(n, 0), len(list))]
}

// TopN formats the n slowest entries.
// Example: "render.ssao:4.2ms, render.geometry:2.1ms"
func (p *Profiler) TopN(n int) string {
	top := p.Top(n)
	parts := make([]string, 0, len(top))
	for _, e := range top {
		parts = append(parts, e.Name+":"+FormatMs(e.Dur))
	}
	return strings.Join(parts, ", ")
}

// Fields returns the n slowest entries as zap fields.
func (p *Profiler) Fields(n int) []zap.Field {
	top := p.Top(n)
	fields := make([]zap.Field, 0, len(top))
	for _, e := range top {
		fields = append(fields, zap.Duration(e.Name, e.Dur))
	}
	return fields
}

// FormatMs renders d in milliseconds with one decimal, dropping ".0".
func FormatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	s := strconv.FormatFloat(ms, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0") + "ms"
}

func Track(name string) func() { return Default.Track(name) }

func ResetFrame() { Default.ResetFrame() }

func Snapshot() map[string]time.Duration { return Default.Snapshot() }

func TopN(n int) string { return Default.TopN(n) }
