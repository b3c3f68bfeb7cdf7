package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-exposure-render/pkg/core"
)

// ApertureShape selects how lens positions are sampled for depth of field
type ApertureShape int

const (
	CircularAperture ApertureShape = iota
	PolygonAperture
)

// FocusMode selects how the focal distance is chosen
type FocusMode int

const (
	// AutoFocus focuses on whatever is seen through FocusUV
	AutoFocus FocusMode = iota
	// ManualFocus uses FocalDistance as given
	ManualFocus
)

// CameraConfig contains all camera parameters
type CameraConfig struct {
	Width, Height int // Film size in pixels

	Pos    core.Vec3
	Target core.Vec3
	Up     core.Vec3
	FOV    float64 // Degrees, across the shorter film side

	ClipNear float64
	ClipFar  float64
	Exposure float64
	Gamma    float64

	ApertureShape  ApertureShape
	ApertureSize   float64 // Lens radius, 0 disables depth of field
	ApertureBlades int
	ApertureAngle  float64 // Radians

	FocalDistance float64   // -1 focuses at the target
	FocusMode     FocusMode
	FocusUV       core.Vec2 // Film position traced for auto focus, in [0,1]²
}

// DefaultCameraConfig returns a pinhole camera looking down -z at the origin
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Width:          640,
		Height:         480,
		Pos:            core.NewVec3(0, 0, 3),
		Target:         core.NewVec3(0, 0, 0),
		Up:             core.NewVec3(0, 1, 0),
		FOV:            35,
		ClipNear:       0,
		ClipFar:        10000,
		Exposure:       1,
		Gamma:          2.2,
		ApertureShape:  PolygonAperture,
		ApertureSize:   0,
		ApertureBlades: 6,
		ApertureAngle:  0,
		FocalDistance:  -1,
		FocusMode:      AutoFocus,
		FocusUV:        core.NewVec2(0.5, 0.5),
	}
}

// Camera generates primary rays. It is immutable; change parameters by
// building a new camera from an updated config.
type Camera struct {
	config CameraConfig

	n, u, v core.Vec3 // Forward, right and down
	focal   float64

	screenMin core.Vec2 // Screen window on the plane one unit ahead
	screenMax core.Vec2
	invScreen core.Vec2 // Screen units per pixel
}

// NewCamera creates a camera from a config
func NewCamera(config CameraConfig) (*Camera, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("invalid film size %dx%d", config.Width, config.Height)
	}
	if config.FOV <= 0 || config.FOV >= 180 {
		return nil, fmt.Errorf("field of view %g outside (0, 180)", config.FOV)
	}
	if config.ApertureShape == PolygonAperture && config.ApertureSize != 0 && config.ApertureBlades < 3 {
		return nil, fmt.Errorf("polygon aperture needs at least 3 blades, got %d", config.ApertureBlades)
	}

	n := config.Target.Subtract(config.Pos).Normalize()
	if n.IsZero() {
		return nil, fmt.Errorf("camera position and target coincide at %v", config.Pos)
	}
	u := n.Cross(config.Up).Normalize()
	if u.IsZero() {
		return nil, fmt.Errorf("up vector %v is parallel to the view direction", config.Up)
	}
	v := n.Cross(u)

	c := &Camera{config: config, n: n, u: u, v: v}

	c.focal = config.FocalDistance
	if c.focal < 0 {
		c.focal = config.Target.Subtract(config.Pos).Length()
	}

	scale := math.Tan(core.Radians(config.FOV) / 2)
	aspect := float64(config.Height) / float64(config.Width)
	if aspect > 1 {
		c.screenMin = core.NewVec2(-scale, -scale*aspect)
		c.screenMax = core.NewVec2(scale, scale*aspect)
	} else {
		c.screenMin = core.NewVec2(-scale/aspect, -scale)
		c.screenMax = core.NewVec2(scale/aspect, scale)
	}
	c.invScreen = core.NewVec2(
		(c.screenMax.X-c.screenMin.X)/float64(config.Width),
		(c.screenMax.Y-c.screenMin.Y)/float64(config.Height),
	)
	return c, nil
}

// Config returns the parameters the camera was built from, with the resolved
// focal distance
func (c *Camera) Config() CameraConfig {
	config := c.config
	config.FocalDistance = c.focal
	return config
}

// WithFocalDistance returns a copy of the camera focused at distance d
func (c *Camera) WithFocalDistance(d float64) *Camera {
	cp := *c
	cp.focal = d
	return &cp
}

// WithFilm returns a camera with the same view over a new film size
func (c *Camera) WithFilm(width, height int) (*Camera, error) {
	config := c.Config()
	config.Width, config.Height = width, height
	return NewCamera(config)
}

func (c *Camera) Width() int  { return c.config.Width }
func (c *Camera) Height() int { return c.config.Height }

// FocalDistance returns the distance along the view direction that is in focus
func (c *Camera) FocalDistance() float64 { return c.focal }

// Forward returns the unit view direction
func (c *Camera) Forward() core.Vec3 { return c.n }

// Sample generates a ray through pixel (x, y), jittered inside the pixel and
// across the lens. Row 0 is the top of the image.
func (c *Camera) Sample(x, y int, rng core.Sampler) core.Ray {
	jitter := rng.Get2D()
	uv := core.NewVec2(float64(x)+jitter.X, float64(y)+jitter.Y)
	ray := c.RayThrough(uv)

	if c.config.ApertureSize == 0 {
		return ray
	}

	// Aim the lens ray at the point the pinhole ray hits on the focal plane
	focus := ray.Direction.Multiply(c.focal / ray.Direction.Dot(c.n))
	lens := c.sampleLens(rng)
	offset := c.u.Multiply(lens.X).Add(c.v.Multiply(lens.Y))
	ray.Origin = ray.Origin.Add(offset)
	ray.Direction = focus.Subtract(offset).Normalize()
	return ray
}

// RayThrough returns the pinhole ray through a film position in pixels
func (c *Camera) RayThrough(imageUV core.Vec2) core.Ray {
	sx := c.screenMin.X + c.invScreen.X*imageUV.X
	sy := c.screenMin.Y + c.invScreen.Y*imageUV.Y
	d := c.n.Add(c.u.Multiply(sx)).Add(c.v.Multiply(sy)).Normalize()

	ray := core.NewRaySegment(c.config.Pos, d, c.config.ClipNear, c.config.ClipFar)
	ray.ImageUV = imageUV
	return ray
}

func (c *Camera) sampleLens(rng core.Sampler) core.Vec2 {
	size := c.config.ApertureSize
	if c.config.ApertureShape == CircularAperture {
		return core.ConcentricSampleDisk(rng.Get2D()).Multiply(size)
	}

	// Pick a blade, then a point in its triangle with the lens center
	blades := float64(c.config.ApertureBlades)
	s := rng.Get2D()
	lensY := s.X * blades
	side := math.Floor(lensY)
	offset := lensY - side
	distance := math.Sqrt(s.Y)
	a0 := side*2*math.Pi/blades + c.config.ApertureAngle
	a1 := (side+1)*2*math.Pi/blades + c.config.ApertureAngle

	return core.NewVec2(
		(math.Cos(a0)*(1-offset)+math.Cos(a1)*offset)*distance*size,
		(math.Sin(a0)*(1-offset)+math.Sin(a1)*offset)*distance*size,
	)
}

// ProjectPointToFilmPlane returns the film position in pixels that sees p
// through the pinhole. It fails for points behind the camera or off screen.
func (c *Camera) ProjectPointToFilmPlane(p core.Vec3) (core.Vec2, bool) {
	d := p.Subtract(c.config.Pos).Normalize()
	l := d.Dot(c.n)
	if l <= 0 {
		return core.Vec2{}, false
	}

	film := d.Multiply(1 / l)
	sx, sy := film.Dot(c.u), film.Dot(c.v)
	if sx < c.screenMin.X || sx > c.screenMax.X || sy < c.screenMin.Y || sy > c.screenMax.Y {
		return core.Vec2{}, false
	}

	return core.NewVec2(
		(sx-c.screenMin.X)/c.invScreen.X,
		(sy-c.screenMin.Y)/c.invScreen.Y,
	), true
}

// Exposure and Gamma feed tone mapping of the display estimate
func (c *Camera) Exposure() float64 { return c.config.Exposure }
func (c *Camera) Gamma() float64    { return c.config.Gamma }
