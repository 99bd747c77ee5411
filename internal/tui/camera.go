package tui

import (
	"math"

	"github.com/dm/sysmap-go/internal/model"
)

const (
	fieldOfView = math.Pi / 3 // vertical, 60°
	nearPlane   = 1.0
	minDistance = 10.0
	maxDistance = 20000.0
	maxPitch    = 1.45
	// Terminal cells are roughly twice as tall as they are wide.
	cellAspect = 2.0
)

// orbitCamera orbits a target point, like the trackball controls of a 3D
// graph view. Its state is exactly what gets persisted: eye and target.
type orbitCamera struct {
	pos    model.Vec3
	target model.Vec3
}

func newOrbitCamera(c model.Camera) *orbitCamera {
	cam := &orbitCamera{pos: c.Position, target: c.Target}
	if length(sub(cam.pos, cam.target)) < 1e-6 {
		cam.pos = add(cam.target, model.Vec3{Z: model.DefaultCamera().Position.Z})
	}
	return cam
}

// Snapshot returns the persisted form of the camera.
func (c *orbitCamera) Snapshot() model.Camera {
	return model.Camera{Position: c.pos, Target: c.target}
}

// Set jumps to a camera state with no transition.
func (c *orbitCamera) Set(s model.Camera) {
	*c = *newOrbitCamera(s)
}

func (c *orbitCamera) spherical() (r, yaw, pitch float64) {
	off := sub(c.pos, c.target)
	r = length(off)
	yaw = math.Atan2(off.X, off.Z)
	pitch = math.Asin(clamp(off.Y/r, -1, 1))
	return r, yaw, pitch
}

func (c *orbitCamera) place(r, yaw, pitch float64) {
	c.pos = add(c.target, model.Vec3{
		X: r * math.Cos(pitch) * math.Sin(yaw),
		Y: r * math.Sin(pitch),
		Z: r * math.Cos(pitch) * math.Cos(yaw),
	})
}

// Orbit rotates the eye around the target by the given angles in radians.
func (c *orbitCamera) Orbit(dYaw, dPitch float64) {
	r, yaw, pitch := c.spherical()
	c.place(r, yaw+dYaw, clamp(pitch+dPitch, -maxPitch, maxPitch))
}

// Zoom scales the eye's distance to the target. factor < 1 moves closer.
func (c *orbitCamera) Zoom(factor float64) {
	r, yaw, pitch := c.spherical()
	c.place(clamp(r*factor, minDistance, maxDistance), yaw, pitch)
}

// Fit re-targets the centroid of points and backs off until they all fit,
// keeping the current viewing direction.
func (c *orbitCamera) Fit(points []model.Vec3) {
	if len(points) == 0 {
		return
	}
	var centre model.Vec3
	for _, p := range points {
		centre = add(centre, p)
	}
	centre = scale(centre, 1/float64(len(points)))

	radius := minDistance
	for _, p := range points {
		radius = math.Max(radius, length(sub(p, centre)))
	}
	_, yaw, pitch := c.spherical()
	c.target = centre
	dist := radius/math.Tan(fieldOfView/2)*1.15 + nearPlane
	c.place(clamp(dist, minDistance, maxDistance), yaw, pitch)
}

// Project maps a world point onto a w×h cell grid. ok is false when the
// point is behind the eye or outside the grid.
func (c *orbitCamera) Project(p model.Vec3, w, h int) (x, y int, depth float64, ok bool) {
	if w <= 0 || h <= 0 {
		return 0, 0, 0, false
	}
	forward := normalize(sub(c.target, c.pos))
	right := cross(forward, model.Vec3{Y: 1})
	if length(right) < 1e-9 {
		right = model.Vec3{X: 1}
	}
	right = normalize(right)
	up := cross(right, forward)

	d := sub(p, c.pos)
	depth = dot(d, forward)
	if depth < nearPlane {
		return 0, 0, depth, false
	}
	focal := float64(h) / (2 * math.Tan(fieldOfView/2))
	fx := float64(w)/2 + dot(d, right)/depth*focal*cellAspect
	fy := float64(h)/2 - dot(d, up)/depth*focal
	x, y = int(math.Floor(fx)), int(math.Floor(fy))
	if x < 0 || x >= w || y < 0 || y >= h {
		return x, y, depth, false
	}
	return x, y, depth, true
}

func add(a, b model.Vec3) model.Vec3 { return model.Vec3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z} }
func sub(a, b model.Vec3) model.Vec3 { return model.Vec3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z} }
func scale(a model.Vec3, k float64) model.Vec3 {
	return model.Vec3{X: a.X * k, Y: a.Y * k, Z: a.Z * k}
}
func dot(a, b model.Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func cross(a, b model.Vec3) model.Vec3 {
	return model.Vec3{X: a.Y*b.Z - a.Z*b.Y, Y: a.Z*b.X - a.X*b.Z, Z: a.X*b.Y - a.Y*b.X}
}
func length(a model.Vec3) float64 { return math.Sqrt(dot(a, a)) }
func normalize(a model.Vec3) model.Vec3 {
	l := length(a)
	if l == 0 {
		return a
	}
	return scale(a, 1/l)
}
func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }
