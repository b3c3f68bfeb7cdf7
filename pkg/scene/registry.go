package scene

import (
	"fmt"
	"image"
	"sync"

	"github.com/df07/go-exposure-render/pkg/core"
	"github.com/df07/go-exposure-render/pkg/geometry"
	"github.com/df07/go-exposure-render/pkg/lights"
	"github.com/df07/go-exposure-render/pkg/material"
	"github.com/df07/go-exposure-render/pkg/volume"
)

// MaxHandles is the largest number of handles of one kind a binding may name
const MaxHandles = 64

// Handles identify entities stored in a Registry. The zero handle never
// refers to an entity and means "none" where a handle is optional.
type (
	VolumeHandle  int
	LightHandle   int
	ObjectHandle  int
	TextureHandle int
	BitmapHandle  int
)

// TextureKind selects how a texture produces its colors
type TextureKind int

const (
	UniformTexture TextureKind = iota
	CheckerTexture
	GradientTexture
	BitmapTexture
)

// TextureDesc describes a procedural or bitmap-backed texture
type TextureDesc struct {
	Kind    TextureKind
	Color1  core.ColorXYZ // Uniform color, first checker color or gradient start
	Color2  core.ColorXYZ // Second checker color or gradient end
	Bitmap  BitmapHandle  // Image used by BitmapTexture
	Mapping material.Mapping
}

// LightDesc describes a light. A zero EmissionTexture emits Color.
type LightDesc struct {
	Visible         bool
	Shape           geometry.Shape
	Multiplier      float64
	Unit            lights.EmissionUnit
	Color           core.ColorXYZ
	EmissionTexture TextureHandle
}

// ObjectDesc describes an object. Zero texture handles select the defaults:
// a light gray diffuse, no specular, medium glossiness and white emission.
type ObjectDesc struct {
	Visible bool
	Shape   geometry.Shape

	DiffuseTexture    TextureHandle
	SpecularTexture   TextureHandle
	GlossinessTexture TextureHandle
	EmissionTexture   TextureHandle

	Emitter    bool
	Multiplier float64
	Unit       lights.EmissionUnit

	Clip  bool
	Model material.SurfaceModel
	IOR   float64
}

// Binding lists the entities a frame renders
type Binding struct {
	Volumes         []VolumeHandle
	Lights          []LightHandle
	Objects         []ObjectHandle
	ClippingObjects []ObjectHandle // Bound as clippers whatever their Clip flag says
}

// store keeps entities of one kind under increasing handles starting at 1
type store[H ~int, T any] struct {
	items map[H]T
	next  H
}

func (s *store[H, T]) add(v T) H {
	if s.items == nil {
		s.items = make(map[H]T)
	}
	s.next++
	s.items[s.next] = v
	return s.next
}

func (s *store[H, T]) get(h H) (T, bool) {
	v, ok := s.items[h]
	return v, ok
}

func (s *store[H, T]) set(h H, v T) bool {
	if _, ok := s.items[h]; !ok {
		return false
	}
	s.items[h] = v
	return true
}

func (s *store[H, T]) remove(h H) bool {
	if _, ok := s.items[h]; !ok {
		return false
	}
	delete(s.items, h)
	return true
}

// Registry owns the host-side scene entities and hands out typed handles for
// them. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	volumes  store[VolumeHandle, *volume.Volume]
	lights   store[LightHandle, LightDesc]
	objects  store[ObjectHandle, ObjectDesc]
	textures store[TextureHandle, TextureDesc]
	bitmaps  store[BitmapHandle, *material.Bitmap]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// AddVolume builds a volume from its description and stores it
func (r *Registry) AddVolume(desc volume.Description) (VolumeHandle, error) {
	v, err := volume.New(desc)
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.volumes.add(v), nil
}

// AddLight stores a light description
func (r *Registry) AddLight(desc LightDesc) LightHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lights.add(desc)
}

// UpdateLight replaces a stored light description
func (r *Registry) UpdateLight(h LightHandle, desc LightDesc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.lights.set(h, desc) {
		return missing("light", int(h))
	}
	return nil
}

// AddObject stores an object description
func (r *Registry) AddObject(desc ObjectDesc) ObjectHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.objects.add(desc)
}

// UpdateObject replaces a stored object description
func (r *Registry) UpdateObject(h ObjectHandle, desc ObjectDesc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.objects.set(h, desc) {
		return missing("object", int(h))
	}
	return nil
}

// AddTexture stores a texture description
func (r *Registry) AddTexture(desc TextureDesc) TextureHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.textures.add(desc)
}

// AddBitmap converts a host image into a bitmap and stores it
func (r *Registry) AddBitmap(img image.Image) BitmapHandle {
	bitmap := material.NewBitmap(img, material.DefaultMaxBitmapSize)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bitmaps.add(bitmap)
}

// RemoveVolume deletes a volume. Scenes already bound keep their copy.
func (r *Registry) RemoveVolume(h VolumeHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.volumes.remove(h) {
		return missing("volume", int(h))
	}
	return nil
}

// RemoveLight deletes a light
func (r *Registry) RemoveLight(h LightHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.lights.remove(h) {
		return missing("light", int(h))
	}
	return nil
}

// RemoveObject deletes an object
func (r *Registry) RemoveObject(h ObjectHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.objects.remove(h) {
		return missing("object", int(h))
	}
	return nil
}

// RemoveTexture deletes a texture
func (r *Registry) RemoveTexture(h TextureHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.textures.remove(h) {
		return missing("texture", int(h))
	}
	return nil
}

// RemoveBitmap deletes a bitmap
func (r *Registry) RemoveBitmap(h BitmapHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.bitmaps.remove(h) {
		return missing("bitmap", int(h))
	}
	return nil
}

// Volume returns a stored volume
func (r *Registry) Volume(h VolumeHandle) (*volume.Volume, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.volumes.get(h)
	if !ok {
		return nil, missing("volume", int(h))
	}
	return v, nil
}

// Bind resolves the binding into an immutable scene rendered with property.
// A handle that names nothing aborts the bind with a Fatal exception.
func (r *Registry) Bind(b Binding, property *volume.Property) (*Scene, error) {
	if property == nil {
		property = volume.DefaultProperty()
	}
	if err := checkCount("volume", len(b.Volumes)); err != nil {
		return nil, err
	}
	if err := checkCount("light", len(b.Lights)); err != nil {
		return nil, err
	}
	if err := checkCount("object", len(b.Objects)); err != nil {
		return nil, err
	}
	if err := checkCount("clipping object", len(b.ClippingObjects)); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s := &Scene{Property: property}

	for _, h := range b.Lights {
		light, err := r.bindLight(h)
		if err != nil {
			return nil, err
		}
		s.Lights = append(s.Lights, light)
	}

	for _, h := range b.Objects {
		o, err := r.bindObject(h)
		if err != nil {
			return nil, err
		}
		if o.Clip {
			s.Clippers = append(s.Clippers, o)
			continue
		}
		s.Objects = append(s.Objects, o)
	}
	for _, h := range b.ClippingObjects {
		o, err := r.bindObject(h)
		if err != nil {
			return nil, err
		}
		o.Clip = true
		s.Clippers = append(s.Clippers, o)
	}

	clippers := make([]volume.Clipper, len(s.Clippers))
	for i, o := range s.Clippers {
		clippers[i] = o.Shape
	}

	for _, h := range b.Volumes {
		v, ok := r.volumes.get(h)
		if !ok {
			return nil, missing("volume", int(h))
		}
		s.Media = append(s.Media, volume.NewMedium(v, property, clippers))
	}

	core.Logger().Info("scene bound",
		"volumes", len(s.Media),
		"lights", len(s.Lights),
		"objects", len(s.Objects),
		"clippers", len(s.Clippers))
	return s, nil
}

func (r *Registry) bindLight(h LightHandle) (*lights.Light, error) {
	desc, ok := r.lights.get(h)
	if !ok {
		return nil, missing("light", int(h))
	}

	var emission material.Texture = material.NewUniform(desc.Color)
	if desc.EmissionTexture != 0 {
		tex, err := r.bindTexture(desc.EmissionTexture)
		if err != nil {
			return nil, fmt.Errorf("light %d emission: %w", h, err)
		}
		emission = tex
	}

	return &lights.Light{
		Visible:    desc.Visible,
		Shape:      desc.Shape,
		Multiplier: desc.Multiplier,
		Unit:       desc.Unit,
		Emission:   emission,
	}, nil
}

func (r *Registry) bindObject(h ObjectHandle) (*Object, error) {
	desc, ok := r.objects.get(h)
	if !ok {
		return nil, missing("object", int(h))
	}

	o := &Object{
		Visible:    desc.Visible,
		Shape:      desc.Shape,
		Emitter:    desc.Emitter,
		Multiplier: desc.Multiplier,
		Unit:       desc.Unit,
		Clip:       desc.Clip,
		Model:      desc.Model,
		IOR:        desc.IOR,
	}

	textures := []struct {
		role     string
		handle   TextureHandle
		fallback core.ColorXYZ
		dst      *material.Texture
	}{
		{"diffuse", desc.DiffuseTexture, core.GrayXYZ(0.8), &o.Diffuse},
		{"specular", desc.SpecularTexture, core.Black, &o.Specular},
		{"glossiness", desc.GlossinessTexture, core.GrayXYZ(0.5), &o.Glossiness},
		{"emission", desc.EmissionTexture, core.GrayXYZ(1), &o.Emission},
	}
	for _, tex := range textures {
		if tex.handle == 0 {
			*tex.dst = material.NewUniform(tex.fallback)
			continue
		}
		t, err := r.bindTexture(tex.handle)
		if err != nil {
			return nil, fmt.Errorf("object %d %s: %w", h, tex.role, err)
		}
		*tex.dst = t
	}
	return o, nil
}

func (r *Registry) bindTexture(h TextureHandle) (material.Texture, error) {
	desc, ok := r.textures.get(h)
	if !ok {
		return nil, missing("texture", int(h))
	}

	switch desc.Kind {
	case CheckerTexture:
		return &material.Checker{Color1: desc.Color1, Color2: desc.Color2, Mapping: desc.Mapping}, nil
	case GradientTexture:
		g := material.NewGradient(desc.Color1, desc.Color2)
		g.Mapping = desc.Mapping
		return g, nil
	case BitmapTexture:
		bitmap, ok := r.bitmaps.get(desc.Bitmap)
		if !ok {
			return nil, missing("bitmap", int(desc.Bitmap))
		}
		bound := *bitmap
		bound.Mapping = desc.Mapping
		return &bound, nil
	default:
		return &material.Uniform{Color: desc.Color1, Mapping: desc.Mapping}, nil
	}
}

func missing(role string, id int) error {
	return core.NewException(core.Fatal, "%s %d", role, id).Wrap(core.ErrNotFound)
}

func checkCount(role string, n int) error {
	if n > MaxHandles {
		return core.NewException(core.Error, "too many %s handles: %d, limit %d", role, n, MaxHandles)
	}
	return nil
}
