package stats

import "github.com/charmbracelet/harmonica"

// Smoother eases a displayed value toward its latest target with a critically
// damped spring, so readouts glide instead of jumping between frames
type Smoother struct {
	spring   harmonica.Spring
	position float64
	velocity float64
	started  bool
}

// NewSmoother creates a smoother stepped fps times per second
func NewSmoother(fps int) *Smoother {
	return &Smoother{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
}

// Update advances the spring one step toward target and returns the new value.
// The first update jumps straight to the target.
func (s *Smoother) Update(target float64) float64 {
	if !s.started {
		s.position, s.started = target, true
		return s.position
	}
	s.position, s.velocity = s.spring.Update(s.position, s.velocity, target)
	return s.position
}

// Value returns the current smoothed value
func (s *Smoother) Value() float64 { return s.position }
