package stats

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// MaxStatistics bounds the number of distinct names a Statistics keeps
const MaxStatistics = 64

// Statistic is a named, filtered measurement with a display format and unit
type Statistic struct {
	Name        string
	ValueFormat string // fmt verb for the value, "%.2f" by default
	Unit        string

	hysteresis *Hysteresis
	smoother   *Smoother
}

// NewStatistic creates an empty statistic
func NewStatistic(name, valueFormat, unit string) *Statistic {
	if valueFormat == "" {
		valueFormat = "%.2f"
	}
	return &Statistic{
		Name:        name,
		ValueFormat: valueFormat,
		Unit:        unit,
		hysteresis:  NewHysteresis(DefaultWindow),
		smoother:    NewSmoother(30),
	}
}

// AddValue records a measurement
func (s *Statistic) AddValue(v float64) {
	s.hysteresis.AddValue(v)
	s.smoother.Update(s.hysteresis.Value())
}

// Value returns the mean of the recent measurements
func (s *Statistic) Value() float64 { return s.hysteresis.Value() }

// Smoothed returns the spring-eased value for display
func (s *Statistic) Smoothed() float64 { return s.smoother.Value() }

// Count returns the number of measurements in the window
func (s *Statistic) Count() int { return s.hysteresis.Count() }

// Reset drops every measurement
func (s *Statistic) Reset() {
	s.hysteresis.Reset()
	s.smoother = NewSmoother(30)
}

// String formats the filtered value with its unit
func (s *Statistic) String() string {
	value := fmt.Sprintf(s.ValueFormat, s.Value())
	if s.Unit == "" {
		return fmt.Sprintf("%s: %s", s.Name, value)
	}
	return fmt.Sprintf("%s: %s %s", s.Name, value, s.Unit)
}

// Statistics is an ordered set of statistics merged by name. Safe for
// concurrent use.
type Statistics struct {
	mu    sync.Mutex
	stats []*Statistic
}

// NewStatistics creates an empty set
func NewStatistics() *Statistics {
	return &Statistics{}
}

// AddValue records v under name, creating the statistic on first use. Values
// for new names are dropped once MaxStatistics names exist.
func (s *Statistics) AddValue(name string, v float64, valueFormat, unit string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stat := range s.stats {
		if stat.Name == name {
			stat.ValueFormat, stat.Unit = orDefault(valueFormat, stat.ValueFormat), unit
			stat.AddValue(v)
			return
		}
	}
	if len(s.stats) >= MaxStatistics {
		return
	}
	stat := NewStatistic(name, valueFormat, unit)
	stat.AddValue(v)
	s.stats = append(s.stats, stat)
}

// AddDuration records a duration in milliseconds
func (s *Statistics) AddDuration(name string, d time.Duration) {
	s.AddValue(name, float64(d.Microseconds())/1000, "%.2f", "ms")
}

// Snapshot is the state of a statistic at one point in time
type Snapshot struct {
	Name     string
	Value    float64
	Smoothed float64
	Count    int
	Text     string
}

// Get returns a snapshot of the named statistic
func (s *Statistics) Get(name string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stat := range s.stats {
		if stat.Name == name {
			return Snapshot{
				Name:     stat.Name,
				Value:    stat.Value(),
				Smoothed: stat.Smoothed(),
				Count:    stat.Count(),
				Text:     stat.String(),
			}, true
		}
	}
	return Snapshot{}, false
}

// Len returns the number of distinct statistics
func (s *Statistics) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stats)
}

// Reset removes every statistic
func (s *Statistics) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = nil
}

// String lists every statistic on its own line in insertion order
func (s *Statistics) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	for i, stat := range s.stats {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(stat.String())
	}
	return b.String()
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
