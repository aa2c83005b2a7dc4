package model

// Epsilon is the tolerance used for all geometric comparisons. Corner
// positions are produced by repeated additions of package extents, so exact
// float equality cannot be relied upon.
const Epsilon = 1e-6

// Dims is the number of spatial dimensions used throughout the engine.
const Dims = 3

// Vec3 is a point or extent in container space, in the container's units.
// X runs along the container length, Y along the width, Z along the height.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// At returns the coordinate for the given axis index (0=X, 1=Y, 2=Z).
func (v Vec3) At(axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// WithOffset returns a copy of v with delta added to the given axis.
func (v Vec3) WithOffset(axis int, delta float64) Vec3 {
	switch axis {
	case 0:
		v.X += delta
	case 1:
		v.Y += delta
	default:
		v.Z += delta
	}
	return v
}

// Equals reports whether two positions coincide within Epsilon on every axis.
func (v Vec3) Equals(other Vec3) bool {
	for i := 0; i < Dims; i++ {
		d := v.At(i) - other.At(i)
		if d > Epsilon || d < -Epsilon {
			return false
		}
	}
	return true
}

// Box is an axis-aligned rectangular volume identified by its minimum and
// maximum corners.
type Box struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// NewBox builds a Box from its minimum corner and its extents along each axis.
func NewBox(min Vec3, extents [Dims]float64) Box {
	return Box{
		Min: min,
		Max: Vec3{
			X: min.X + extents[0],
			Y: min.Y + extents[1],
			Z: min.Z + extents[2],
		},
	}
}

// Extent returns the box's length along the given axis.
func (b Box) Extent(axis int) float64 {
	return b.Max.At(axis) - b.Min.At(axis)
}

// Volume returns the enclosed volume.
func (b Box) Volume() float64 {
	return b.Extent(0) * b.Extent(1) * b.Extent(2)
}

// Overlaps reports whether the open interiors of two boxes intersect.
// Touching faces or edges do not count as overlap. The intervals must
// overlap on all three axes for the boxes to overlap in 3D.
func (b Box) Overlaps(other Box) bool {
	for i := 0; i < Dims; i++ {
		if b.Max.At(i) <= other.Min.At(i)+Epsilon || other.Max.At(i) <= b.Min.At(i)+Epsilon {
			return false
		}
	}
	return true
}

// ContainsInterior reports whether the point lies strictly inside the box.
// Points on a face or edge are not interior.
func (b Box) ContainsInterior(p Vec3) bool {
	for i := 0; i < Dims; i++ {
		if p.At(i) <= b.Min.At(i)+Epsilon || p.At(i) >= b.Max.At(i)-Epsilon {
			return false
		}
	}
	return true
}

// InsideBounds reports whether the box lies entirely within a container of
// the given dimensions whose minimum corner sits at the origin.
func (b Box) InsideBounds(bounds Vec3) bool {
	for i := 0; i < Dims; i++ {
		if b.Min.At(i) < -Epsilon || b.Max.At(i) > bounds.At(i)+Epsilon {
			return false
		}
	}
	return true
}
