package scene

import (
	"github.com/df07/go-exposure-render/pkg/core"
	"github.com/df07/go-exposure-render/pkg/lights"
	"github.com/df07/go-exposure-render/pkg/volume"
)

// Scene is an immutable snapshot of bound entities. Frames read it
// concurrently; rebinding produces a new Scene.
type Scene struct {
	Property *volume.Property
	Media    []volume.Medium
	Lights   []*lights.Light
	Objects  []*Object // Hit-testable objects
	Clippers []*Object // Objects carving space out of the volumes
}

// EventType tells which kind of entity produced a ScatterEvent
type EventType int

const (
	VolumeEvent EventType = iota
	LightEvent
	ObjectEvent
)

func (t EventType) String() string {
	switch t {
	case VolumeEvent:
		return "volume"
	case LightEvent:
		return "light"
	case ObjectEvent:
		return "object"
	default:
		return "unknown"
	}
}

// ScatterEvent is the nearest interaction found along a ray
type ScatterEvent struct {
	Type      EventType
	Valid     bool
	T         float64
	P         core.Vec3
	N         core.Vec3
	Wo        core.Vec3
	UV        core.Vec2
	Front     bool
	Le        core.ColorXYZ // Emitted radiance towards the ray origin
	Intensity float64       // Volume intensity, volume events only
	ID        int           // Index into Media, Lights or Objects
}

// NearestIntersection finds the closest volume scattering event, visible
// light or visible object along a camera ray. Ties keep the first in the order
// volume, light, object.
func (s *Scene) NearestIntersection(ray core.Ray, rng core.Sampler) ScatterEvent {
	var nearest ScatterEvent
	wo := ray.Direction.Normalize().Negate()

	for i, m := range s.Media {
		e, ok := volume.IntersectVolume(m, ray, rng)
		if !ok || (nearest.Valid && e.T >= nearest.T) {
			continue
		}
		nearest = ScatterEvent{
			Type:      VolumeEvent,
			Valid:     true,
			T:         e.T,
			P:         e.P,
			N:         e.N,
			Wo:        wo,
			Intensity: e.Intensity,
			ID:        i,
		}
	}

	if hit, ok := lights.IntersectLights(s.Lights, ray, true); ok {
		isect := hit.Intersection
		if !nearest.Valid || isect.T < nearest.T {
			nearest = ScatterEvent{
				Type:  LightEvent,
				Valid: true,
				T:     isect.T,
				P:     isect.P,
				N:     isect.N,
				Wo:    wo,
				UV:    isect.UV,
				Front: isect.Front,
				Le:    hit.Le,
				ID:    hit.Index,
			}
		}
	}

	if hit, ok := IntersectObjects(s.Objects, ray, true); ok {
		isect := hit.Intersection
		if !nearest.Valid || isect.T < nearest.T {
			nearest = ScatterEvent{
				Type:  ObjectEvent,
				Valid: true,
				T:     isect.T,
				P:     isect.P,
				N:     isect.N,
				Wo:    wo,
				UV:    isect.UV,
				Front: isect.Front,
				Le:    s.Objects[hit.Index].Le(isect.UV, isect.Front),
				ID:    hit.Index,
			}
		}
	}

	return nearest
}

// Occluded reports whether a shadow ray is blocked before its MaxT. Lights
// block whether or not they are visible to the camera.
func (s *Scene) Occluded(ray core.Ray, rng core.Sampler) bool {
	if IntersectsObject(s.Objects, ray) {
		return true
	}
	if lights.IntersectsLight(s.Lights, ray, false) {
		return true
	}
	for _, m := range s.Media {
		if volume.IntersectsVolume(m, ray, rng) {
			return true
		}
	}
	return false
}

// Empty reports whether the scene has nothing that could be seen
func (s *Scene) Empty() bool {
	return len(s.Media) == 0 && len(s.Lights) == 0 && len(s.Objects) == 0
}
