package app

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler keeps the last CPU duration of each named scope.
type Profiler struct {
	Scopes     map[string]time.Duration
	StartTimes map[string]time.Time
	Counts     map[string]int
	Order      []string

	now func() time.Time
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes:     make(map[string]time.Duration),
		StartTimes: make(map[string]time.Time),
		Counts:     make(map[string]int),
		now:        time.Now,
	}
}

func (p *Profiler) BeginScope(name string) {
	if _, seen := p.Scopes[name]; !seen {
		p.Order = append(p.Order, name)
		p.Scopes[name] = 0
	}
	p.StartTimes[name] = p.now()
}

func (p *Profiler) EndScope(name string) {
	if start, ok := p.StartTimes[name]; ok {
		p.Scopes[name] = p.now().Sub(start)
		delete(p.StartTimes, name)
	}
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

func (p *Profiler) GetStatsString() string {
	var sb strings.Builder

	sb.WriteString("Timings (CPU):\n")
	for _, name := range p.Order {
		ms := float64(p.Scopes[name].Microseconds()) / 1000.0
		fmt.Fprintf(&sb, "  %-15s: %.2f ms\n", name, ms)
	}

	sb.WriteString("\nStats:\n")
	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %-15s: %d\n", k, p.Counts[k])
	}
	return sb.String()
}

const (
	titleInterval    = 1.0 / 30.0
	initialFrameTime = 0.0001
)

// FrameTimer counts frames between title refreshes and keeps the smoothed
// frame time the camera integrates with.
type FrameTimer struct {
	Title string

	prev      float64
	frames    int
	frameTime float64
	fps       float64
}

func NewFrameTimer(title string, now float64) *FrameTimer {
	return &FrameTimer{Title: title, prev: now, frameTime: initialFrameTime}
}

// Tick registers one frame at time now (seconds). When at least 1/30 s has
// passed since the last refresh it returns the new window title.
func (t *FrameTimer) Tick(now float64) (string, bool) {
	t.frames++
	diff := now - t.prev
	if diff < titleInterval {
		return "", false
	}
	t.frameTime = diff / float64(t.frames)
	t.fps = float64(t.frames) / diff
	t.prev = now
	t.frames = 0
	return fmt.Sprintf("%s - %f FPS / %f ms", t.Title, t.fps, t.frameTime*1000), true
}

// FrameTime is the smoothed seconds per frame.
func (t *FrameTimer) FrameTime() float32 {
	return float32(t.frameTime)
}

func (t *FrameTimer) FPS() float64 {
	return t.fps
}
