// Package engine implements the Three Corners Heuristic placement engine
// and the cross-product search over its ordering strategies.
package engine

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// ErrUnknownHeuristic is returned when a heuristic name does not match any
// registered ordering strategy.
var ErrUnknownHeuristic = errors.New("unknown heuristic name")

// InitSorting determines the order in which package units are offered to the
// placement loop.
type InitSorting string

const (
	// InitNone keeps the original catalog order.
	InitNone InitSorting = "none"
	// InitRandom shuffles units with the run's seeded PRNG.
	InitRandom InitSorting = "random"
	// InitVolumeDesc offers the largest-volume types first.
	InitVolumeDesc InitSorting = "volume_desc"
	// InitVolumeAsc offers the smallest-volume types first.
	InitVolumeAsc InitSorting = "volume_asc"
	// InitMaxDims orders by the largest single extent, ascending.
	InitMaxDims InitSorting = "max_dims"
	// InitMinDims orders by the smallest single extent, ascending.
	InitMinDims InitSorting = "min_dims"
)

// AllInitSortings lists every package-ordering strategy, in enumeration order.
func AllInitSortings() []InitSorting {
	return []InitSorting{InitNone, InitRandom, InitVolumeDesc, InitVolumeAsc, InitMaxDims, InitMinDims}
}

// ParseInitSorting resolves a strategy name.
func ParseInitSorting(name string) (InitSorting, error) {
	for _, s := range AllInitSortings() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("init sorting %q: %w", name, ErrUnknownHeuristic)
}

// key returns the sort key for a package type. Ties keep catalog order
// because unit ordering always uses a stable sort.
func (s InitSorting) key(t model.PackageType, rng *rand.Rand) float64 {
	switch s {
	case InitRandom:
		return rng.Float64()
	case InitVolumeDesc:
		return -t.Volume()
	case InitVolumeAsc:
		return t.Volume()
	case InitMaxDims:
		d := t.Dimensions
		return math.Max(d.Length, math.Max(d.Width, d.Height))
	case InitMinDims:
		d := t.Dimensions
		return math.Min(d.Length, math.Min(d.Width, d.Height))
	default:
		return 0
	}
}

// CornerSorting determines the priority order in which active corners are
// tried for a package unit. The axis_* strategies sort lexicographically by
// the named axes; axis_xzy tries low X first, then low Z, then low Y.
type CornerSorting string

const (
	// CornerNone tries corners in generation order.
	CornerNone   CornerSorting = "none"
	CornerRandom CornerSorting = "random"

	CornerAxisX CornerSorting = "axis_x"
	CornerAxisY CornerSorting = "axis_y"
	CornerAxisZ CornerSorting = "axis_z"

	CornerAxisXY CornerSorting = "axis_xy"
	CornerAxisXZ CornerSorting = "axis_xz"
	CornerAxisYX CornerSorting = "axis_yx"
	CornerAxisYZ CornerSorting = "axis_yz"
	CornerAxisZX CornerSorting = "axis_zx"
	CornerAxisZY CornerSorting = "axis_zy"

	CornerAxisXYZ CornerSorting = "axis_xyz"
	CornerAxisXZY CornerSorting = "axis_xzy"
	CornerAxisYXZ CornerSorting = "axis_yxz"
	CornerAxisYZX CornerSorting = "axis_yzx"
	CornerAxisZXY CornerSorting = "axis_zxy"
	CornerAxisZYX CornerSorting = "axis_zyx"

	// CornerMinAxis orders by the smallest coordinate of the corner.
	CornerMinAxis CornerSorting = "min_axis"
	// CornerMaxAxis orders by the largest coordinate of the corner.
	CornerMaxAxis CornerSorting = "max_axis"
)

// cornerAxes maps each axis strategy to the axis indices it compares, in
// priority order.
var cornerAxes = map[CornerSorting][]int{
	CornerAxisX:   {0},
	CornerAxisY:   {1},
	CornerAxisZ:   {2},
	CornerAxisXY:  {0, 1},
	CornerAxisXZ:  {0, 2},
	CornerAxisYX:  {1, 0},
	CornerAxisYZ:  {1, 2},
	CornerAxisZX:  {2, 0},
	CornerAxisZY:  {2, 1},
	CornerAxisXYZ: {0, 1, 2},
	CornerAxisXZY: {0, 2, 1},
	CornerAxisYXZ: {1, 0, 2},
	CornerAxisYZX: {1, 2, 0},
	CornerAxisZXY: {2, 0, 1},
	CornerAxisZYX: {2, 1, 0},
}

// AllCornerSortings lists every corner-ordering strategy, in enumeration order.
func AllCornerSortings() []CornerSorting {
	return []CornerSorting{
		CornerNone, CornerRandom,
		CornerAxisX, CornerAxisY, CornerAxisZ,
		CornerAxisXY, CornerAxisXZ, CornerAxisYX, CornerAxisYZ, CornerAxisZX, CornerAxisZY,
		CornerAxisXYZ, CornerAxisXZY, CornerAxisYXZ, CornerAxisYZX, CornerAxisZXY, CornerAxisZYX,
		CornerMinAxis, CornerMaxAxis,
	}
}

// ParseCornerSorting resolves a strategy name.
func ParseCornerSorting(name string) (CornerSorting, error) {
	for _, s := range AllCornerSortings() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("corner sorting %q: %w", name, ErrUnknownHeuristic)
}

// key returns the lexicographic sort key for a corner position. Unused key
// slots stay zero so shorter axis strategies fall through to the generation
// order tie-break.
func (s CornerSorting) key(pos model.Vec3, rng *rand.Rand) [model.Dims]float64 {
	var k [model.Dims]float64
	switch s {
	case CornerRandom:
		k[0] = rng.Float64()
	case CornerMinAxis:
		k[0] = math.Min(pos.X, math.Min(pos.Y, pos.Z))
	case CornerMaxAxis:
		k[0] = math.Max(pos.X, math.Max(pos.Y, pos.Z))
	default:
		for i, axis := range cornerAxes[s] {
			k[i] = pos.At(axis)
		}
	}
	return k
}

// Order returns a copy of the active corner set sorted by this strategy.
// Equal keys fall back to generation order, keeping every strategy fully
// deterministic.
func (s CornerSorting) Order(corners []model.Corner, rng *rand.Rand) []model.Corner {
	ordered := make([]model.Corner, len(corners))
	copy(ordered, corners)

	keys := make(map[int][model.Dims]float64, len(ordered))
	for _, c := range ordered {
		keys[c.Seq] = s.key(c.Pos, rng)
	}

	sort.Slice(ordered, func(i, j int) bool {
		ki, kj := keys[ordered[i].Seq], keys[ordered[j].Seq]
		for a := 0; a < model.Dims; a++ {
			if ki[a] != kj[a] {
				return ki[a] < kj[a]
			}
		}
		return ordered[i].Seq < ordered[j].Seq
	})
	return ordered
}
