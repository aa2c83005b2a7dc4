package model

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// StackingTolerance is the vertical gap, in container units, within which a
// corner is still considered to rest on the top face of a placed package.
const StackingTolerance = 0.1

// Dimensions holds the extents of a rectangular volume. Length maps onto the
// container's X axis, Width onto Y, and Height onto Z.
type Dimensions struct {
	Length float64 `json:"length" yaml:"length"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Vec returns the dimensions as a Vec3.
func (d Dimensions) Vec() Vec3 {
	return Vec3{X: d.Length, Y: d.Width, Z: d.Height}
}

// Array returns the dimensions as an axis-indexed array.
func (d Dimensions) Array() [Dims]float64 {
	return [Dims]float64{d.Length, d.Width, d.Height}
}

// Volume returns Length * Width * Height.
func (d Dimensions) Volume() float64 {
	return d.Length * d.Width * d.Height
}

// Positive reports whether all three extents are strictly positive.
func (d Dimensions) Positive() bool {
	return d.Length > 0 && d.Width > 0 && d.Height > 0
}

// Orientation maps a package's stored dimensions onto the container axes.
// Orientation{1, 0, 2} places the package's width along the container's X
// axis and its length along Y, leaving the height upright.
type Orientation [Dims]int

// Orientations lists all six axis permutations, in the order they are tried
// during fit testing.
var Orientations = [...]Orientation{
	{0, 1, 2},
	{0, 2, 1},
	{1, 0, 2},
	{1, 2, 0},
	{2, 0, 1},
	{2, 1, 0},
}

// Apply rotates the given extents into this orientation.
func (o Orientation) Apply(extents [Dims]float64) [Dims]float64 {
	return [Dims]float64{extents[o[0]], extents[o[1]], extents[o[2]]}
}

// Upright reports whether the orientation keeps the package's height axis
// vertical.
func (o Orientation) Upright() bool {
	return o[2] == 2
}

func (o Orientation) String() string {
	axes := [Dims]byte{'L', 'W', 'H'}
	return string([]byte{axes[o[0]], axes[o[1]], axes[o[2]]})
}

// PackageType describes one entry of the package catalog: a box shape and
// how many identical units of it must be loaded. Dimensions are immutable;
// the remaining quantity is tracked per run, never on the catalog itself.
type PackageType struct {
	ID          string     `json:"id" yaml:"id"`
	Label       string     `json:"label" yaml:"label"`
	Dimensions  Dimensions `json:"dimensions" yaml:"dimensions"`
	Quantity    int        `json:"quantity" yaml:"quantity"`
	KeepUpright bool       `json:"keep_upright,omitempty" yaml:"keep_upright,omitempty"`
	// MaxStackHeight caps the top of any unit of this type, measured from the
	// container floor. Zero means unrestricted.
	MaxStackHeight float64 `json:"max_stack_height,omitempty" yaml:"max_stack_height,omitempty"`
}

// NewPackageType creates a catalog entry with a generated short ID.
func NewPackageType(label string, length, width, height float64, qty int) PackageType {
	return PackageType{
		ID:         uuid.New().String()[:8],
		Label:      label,
		Dimensions: Dimensions{Length: length, Width: width, Height: height},
		Quantity:   qty,
	}
}

// Volume returns the volume of a single unit of this type.
func (p PackageType) Volume() float64 {
	return p.Dimensions.Volume()
}

// LargerThan reports whether this type's sorted extents dominate the given
// extents on every axis. A type that is larger in this sense cannot fit
// anywhere a smaller one already failed to.
func (p PackageType) LargerThan(extents [Dims]float64) bool {
	mine := p.Dimensions.Array()
	theirs := extents
	sort.Float64s(mine[:])
	sort.Float64s(theirs[:])
	for i := 0; i < Dims; i++ {
		if mine[i] < theirs[i] {
			return false
		}
	}
	return true
}

func (p PackageType) String() string {
	return fmt.Sprintf("%s (%gx%gx%g x%d)", p.Label, p.Dimensions.Length, p.Dimensions.Width, p.Dimensions.Height, p.Quantity)
}

// PlacedPackage records one unit placed inside a container. It is created by
// the placement engine and never mutated afterwards.
type PlacedPackage struct {
	TypeID      string      `json:"type_id"`
	Label       string      `json:"label"`
	Box         Box         `json:"box"`
	Orientation Orientation `json:"orientation"`
	// Step is the zero-based placement order within the run; the ordered
	// placement list doubles as a replay record for visual front ends.
	Step int `json:"step"`
}

// Volume returns the placed unit's volume.
func (p PlacedPackage) Volume() float64 {
	return p.Box.Volume()
}

// OriginCorner marks a Corner seeded from the container origin rather than a
// placed package.
const OriginCorner = -1

// Corner is a candidate insertion point for a future package's minimum
// corner. Corners are ephemeral: consumed when a package is placed on them,
// dropped when a later placement covers them.
type Corner struct {
	Pos Vec3 `json:"pos"`
	// Seq is a monotonically increasing generation index used for
	// deterministic tie-breaking between corners that compare equal under a
	// sorting heuristic.
	Seq int `json:"seq"`
	// Source is the index of the placed package whose far vertex produced
	// this corner, or OriginCorner for the container origin seed.
	Source int `json:"source"`
}

// Container owns the placement state of a single run: its fixed bounds, the
// ordered list of placed packages, and the active corner set.
type Container struct {
	Dimensions Dimensions
	Placed     []PlacedPackage
	Corners    []Corner

	nextSeq int
}

// NewContainer creates an empty container seeded with the origin corner.
func NewContainer(dims Dimensions) *Container {
	c := &Container{Dimensions: dims}
	c.Reset()
	return c
}

// Reset discards all placements and restores the origin corner seed.
func (c *Container) Reset() {
	c.Placed = c.Placed[:0]
	c.Corners = c.Corners[:0]
	c.nextSeq = 0
	c.addCorner(Vec3{}, OriginCorner)
}

// Volume returns the container's capacity.
func (c *Container) Volume() float64 {
	return c.Dimensions.Volume()
}

// PlacedVolume returns the summed volume of all placed packages.
func (c *Container) PlacedVolume() float64 {
	var total float64
	for _, p := range c.Placed {
		total += p.Volume()
	}
	return total
}

// FillRatio returns the fraction of container capacity currently occupied.
func (c *Container) FillRatio() float64 {
	v := c.Volume()
	if v <= 0 {
		return 0
	}
	return c.PlacedVolume() / v
}

// CanPlace reports whether the box fits: fully within bounds and with no
// interior intersection against any placed package.
func (c *Container) CanPlace(b Box) bool {
	if !b.InsideBounds(c.Dimensions.Vec()) {
		return false
	}
	for _, p := range c.Placed {
		if b.Overlaps(p.Box) {
			return false
		}
	}
	return true
}

// InsideAnyPlaced reports whether the point lies strictly inside any placed
// package.
func (c *Container) InsideAnyPlaced(p Vec3) bool {
	for _, placed := range c.Placed {
		if placed.Box.ContainsInterior(p) {
			return true
		}
	}
	return false
}

// SupportsAt reports whether some placed package's top face (or the
// container floor) can carry a package whose minimum corner sits at pos.
func (c *Container) SupportsAt(pos Vec3) bool {
	if pos.Z <= StackingTolerance {
		return true
	}
	for _, p := range c.Placed {
		top := p.Box.Max.Z
		if pos.Z < top-StackingTolerance || pos.Z > top+StackingTolerance {
			continue
		}
		if pos.X >= p.Box.Min.X-Epsilon && pos.X < p.Box.Max.X-Epsilon &&
			pos.Y >= p.Box.Min.Y-Epsilon && pos.Y < p.Box.Max.Y-Epsilon {
			return true
		}
	}
	return false
}

// HasCornerAt reports whether the active set already holds a corner at pos.
func (c *Container) HasCornerAt(pos Vec3) bool {
	for _, corner := range c.Corners {
		if corner.Pos.Equals(pos) {
			return true
		}
	}
	return false
}

// AddCorner appends a corner to the active set unless one already exists at
// the same position. Returns whether the corner was added.
func (c *Container) AddCorner(pos Vec3, source int) bool {
	if c.HasCornerAt(pos) {
		return false
	}
	c.addCorner(pos, source)
	return true
}

func (c *Container) addCorner(pos Vec3, source int) {
	c.Corners = append(c.Corners, Corner{Pos: pos, Seq: c.nextSeq, Source: source})
	c.nextSeq++
}

// RemoveCorner deletes the corner with the given sequence number from the
// active set. Order within the slice is not preserved; ordering decisions
// always go through the Seq field.
func (c *Container) RemoveCorner(seq int) {
	for i, corner := range c.Corners {
		if corner.Seq == seq {
			last := len(c.Corners) - 1
			c.Corners[i] = c.Corners[last]
			c.Corners = c.Corners[:last]
			return
		}
	}
}

// PruneCoveredCorners drops active corners that ended up strictly inside the
// given box. Called after each placement so the active set only ever holds
// free positions.
func (c *Container) PruneCoveredCorners(b Box) {
	kept := c.Corners[:0]
	for _, corner := range c.Corners {
		if !b.ContainsInterior(corner.Pos) {
			kept = append(kept, corner)
		}
	}
	c.Corners = kept
}

// Scenario bundles one container specification with the catalog of package
// types to load into it. Scenarios are immutable during a search; every run
// works on its own expansion of the catalog.
type Scenario struct {
	Name      string        `json:"name" yaml:"name"`
	Container Dimensions    `json:"container" yaml:"container"`
	Catalog   []PackageType `json:"catalog" yaml:"catalog"`
}

// TotalUnits returns the number of individual package instances across the
// catalog.
func (s Scenario) TotalUnits() int {
	var n int
	for _, t := range s.Catalog {
		n += t.Quantity
	}
	return n
}

// CatalogVolume returns the summed volume of every unit in the catalog.
func (s Scenario) CatalogVolume() float64 {
	var total float64
	for _, t := range s.Catalog {
		total += t.Volume() * float64(t.Quantity)
	}
	return total
}

// Validate checks the scenario against the configuration error taxonomy.
// A scenario that fails validation must not start any run.
func (s Scenario) Validate() error {
	if !s.Container.Positive() {
		return fmt.Errorf("container %gx%gx%g: %w",
			s.Container.Length, s.Container.Width, s.Container.Height, ErrNonPositiveDimension)
	}
	if len(s.Catalog) == 0 {
		return ErrEmptyCatalog
	}
	for i, t := range s.Catalog {
		if !t.Dimensions.Positive() {
			return fmt.Errorf("catalog entry %d (%s): %w", i, t.Label, ErrNonPositiveDimension)
		}
		if t.Quantity <= 0 {
			return fmt.Errorf("catalog entry %d (%s): %w", i, t.Label, ErrNonPositiveQuantity)
		}
		if t.MaxStackHeight < 0 {
			return fmt.Errorf("catalog entry %d (%s): %w", i, t.Label, ErrNonPositiveDimension)
		}
	}
	return nil
}
