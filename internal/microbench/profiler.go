package microbench

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// EventStats aggregates every recorded call of one named event.
type EventStats struct {
	Name  string
	Calls int
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

// Avg is the mean duration per call.
func (s EventStats) Avg() time.Duration {
	if s.Calls == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Calls)
}

// Profiler times named sections of a benchmark loop.
type Profiler struct {
	events map[string]*EventStats
	clock  func() time.Time
}

func NewProfiler() *Profiler {
	return &Profiler{events: make(map[string]*EventStats), clock: time.Now}
}

// Record runs fn and charges its wall time to name.
func (p *Profiler) Record(name string, fn func()) {
	start := p.clock()
	fn()
	p.add(name, p.clock().Sub(start))
}

func (p *Profiler) add(name string, d time.Duration) {
	ev, ok := p.events[name]
	if !ok {
		ev = &EventStats{Name: name, Min: d, Max: d}
		p.events[name] = ev
	}
	ev.Calls++
	ev.Total += d
	if d < ev.Min {
		ev.Min = d
	}
	if d > ev.Max {
		ev.Max = d
	}
}

// KeyAverages returns one entry per event, largest total first.
func (p *Profiler) KeyAverages() []EventStats {
	out := make([]EventStats, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, *ev)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

var profileHeader = []string{"Name", "Self CPU %", "CPU total", "CPU time avg", "CPU min", "CPU max", "# of Calls"}

// Table renders KeyAverages like a profiler key-averages table.
func (p *Profiler) Table() string {
	stats := p.KeyAverages()
	var grand time.Duration
	for _, s := range stats {
		grand += s.Total
	}
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		pct := 0.0
		if grand > 0 {
			pct = 100 * float64(s.Total) / float64(grand)
		}
		rows = append(rows, []string{
			s.Name,
			fmt.Sprintf("%.2f%%", pct),
			formatDuration(s.Total),
			formatDuration(s.Avg()),
			formatDuration(s.Min),
			formatDuration(s.Max),
			fmt.Sprintf("%d", s.Calls),
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(profileHeader...).
		Rows(rows...)
	return t.Render() + fmt.Sprintf("\nSelf CPU time total: %s\n", formatDuration(grand))
}

func formatDuration(d time.Duration) string {
	us := float64(d) / float64(time.Microsecond)
	switch {
	case us >= 1e6:
		return fmt.Sprintf("%.3fs", us/1e6)
	case us >= 1e3:
		return fmt.Sprintf("%.3fms", us/1e3)
	default:
		return fmt.Sprintf("%.3fus", us)
	}
}
