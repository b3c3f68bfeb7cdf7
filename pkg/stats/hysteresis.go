package stats

// DefaultWindow is the number of recent values a Hysteresis averages
const DefaultWindow = 64

// Hysteresis is the mean of the most recent values, up to a fixed window
type Hysteresis struct {
	values []float64 // Ring buffer
	next   int
	count  int
	sum    float64
}

// NewHysteresis creates a filter over the last window values
func NewHysteresis(window int) *Hysteresis {
	return &Hysteresis{values: make([]float64, max(window, 1))}
}

// AddValue pushes v, evicting the oldest value once the window is full
func (h *Hysteresis) AddValue(v float64) {
	if h.count == len(h.values) {
		h.sum -= h.values[h.next]
	} else {
		h.count++
	}
	h.values[h.next] = v
	h.sum += v
	h.next = (h.next + 1) % len(h.values)
}

// Value returns the mean of the values in the window, or 0 when empty
func (h *Hysteresis) Value() float64 {
	if h.count == 0 {
		return 0
	}
	return h.sum / float64(h.count)
}

// Count returns the number of values in the window
func (h *Hysteresis) Count() int { return h.count }

// Reset empties the window
func (h *Hysteresis) Reset() {
	clear(h.values)
	h.next, h.count, h.sum = 0, 0, 0
}
