package engine

import (
	"math/rand"
	"sort"
	"time"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// unit is a single package instance awaiting placement. Units are expanded
// from the catalog in order, so ord doubles as the catalog-order tie-break.
type unit struct {
	typ model.PackageType
	ord int
}

// Filler runs the Three Corners Heuristic greedy loop for one scenario.
// A Filler is cheap; every Run works on a fresh container and a fresh
// expansion of the catalog, so a single Filler may serve many combinations
// sequentially. It must not be shared between goroutines.
type Filler struct {
	Settings model.LoadSettings
	Scenario model.Scenario
}

// NewFiller creates a placement engine for the given scenario.
func NewFiller(scenario model.Scenario, settings model.LoadSettings) *Filler {
	return &Filler{Settings: settings, Scenario: scenario}
}

// Run executes the greedy placement loop to completion for one heuristic
// combination and reports the resulting placement and ratios. The scenario
// must have been validated beforehand; Run itself never fails.
func (f *Filler) Run(combo Combination) RunResult {
	start := time.Now()
	rng := rand.New(rand.NewSource(f.Settings.Seed))

	container := model.NewContainer(f.Scenario.Container)
	units := f.orderedUnits(combo, rng)
	constraints := f.Settings.ActiveConstraints()

	skipped := make([]bool, len(units))
	var unplaced []unit
	var trace [][]model.Vec3

	for i, u := range units {
		if skipped[u.ord] {
			unplaced = append(unplaced, u)
			continue
		}
		if len(container.Corners) == 0 {
			// Corner exhaustion: nothing can ever be placed again, the rest
			// of the sequence is unplaced wholesale.
			unplaced = append(unplaced, units[i:]...)
			break
		}

		if f.placeUnit(container, u, combo.Corner, rng, constraints) {
			if f.Settings.CaptureCornerTrace {
				trace = append(trace, cornerSnapshot(container))
			}
			continue
		}

		unplaced = append(unplaced, u)
		if f.Settings.SkipLargerAfterReject {
			failed := u.typ.Dimensions.Array()
			for _, later := range units[i+1:] {
				if !skipped[later.ord] && later.typ.LargerThan(failed) {
					skipped[later.ord] = true
				}
			}
		}
	}

	return f.buildResult(combo, container, unplaced, trace, time.Since(start))
}

// placeUnit tries every corner (in heuristic priority order) and every
// allowed orientation for one unit. On the first valid fit it commits the
// placement, consumes the corner, and generates the unit's extension
// corners. Returns whether the unit was placed.
func (f *Filler) placeUnit(c *model.Container, u unit, sorting CornerSorting, rng *rand.Rand, constraints []model.FitConstraint) bool {
	extents := u.typ.Dimensions.Array()
	for _, corner := range sorting.Order(c.Corners, rng) {
		for _, orient := range model.Orientations {
			box := model.NewBox(corner.Pos, orient.Apply(extents))
			if !f.allowed(u.typ, orient, box, constraints) {
				continue
			}
			if !c.CanPlace(box) {
				continue
			}

			placed := model.PlacedPackage{
				TypeID:      u.typ.ID,
				Label:       u.typ.Label,
				Box:         box,
				Orientation: orient,
				Step:        len(c.Placed),
			}
			c.Placed = append(c.Placed, placed)
			c.RemoveCorner(corner.Seq)
			c.PruneCoveredCorners(box)
			f.addCorners(c, len(c.Placed)-1)
			return true
		}
	}
	return false
}

func (f *Filler) allowed(t model.PackageType, orient model.Orientation, box model.Box, constraints []model.FitConstraint) bool {
	for _, constraint := range constraints {
		if !constraint(t, orient, box) {
			return false
		}
	}
	return true
}

// addCorners generates the three extension corners of a just-placed package:
// its far vertex advanced along each axis independently, with the other two
// coordinates held at the package's minimum corner. Corners outside the
// container, inside a placed package, or duplicating an active corner are
// discarded.
func (f *Filler) addCorners(c *model.Container, placedIdx int) {
	box := c.Placed[placedIdx].Box
	bounds := c.Dimensions.Vec()

	for axis := 0; axis < model.Dims; axis++ {
		pos := box.Min.WithOffset(axis, box.Extent(axis))
		if outOfBounds(pos, bounds) {
			continue
		}
		if c.InsideAnyPlaced(pos) {
			continue
		}
		// The vertical extension lands on the generating package's own top
		// face and is always supported.
		if f.Settings.RequireSupport && axis != 2 && !c.SupportsAt(pos) {
			continue
		}
		c.AddCorner(pos, placedIdx)
	}
}

// outOfBounds reports whether a corner position leaves no usable space:
// at or beyond the container's far face on any axis.
func outOfBounds(pos model.Vec3, bounds model.Vec3) bool {
	for i := 0; i < model.Dims; i++ {
		if pos.At(i) < -model.Epsilon || pos.At(i) > bounds.At(i)-model.Epsilon {
			return true
		}
	}
	return false
}

// orderedUnits expands the catalog into individual units and sorts them by
// the combination's package-ordering strategy. Sorting is stable, so equal
// keys keep catalog order.
func (f *Filler) orderedUnits(combo Combination, rng *rand.Rand) []unit {
	var units []unit
	for _, t := range f.Scenario.Catalog {
		for i := 0; i < t.Quantity; i++ {
			units = append(units, unit{typ: t, ord: len(units)})
		}
	}

	if len(combo.TypeOrder) > 0 {
		rank := make(map[string]int, len(combo.TypeOrder))
		for i, id := range combo.TypeOrder {
			rank[id] = i
		}
		sort.SliceStable(units, func(i, j int) bool {
			ri, iOK := rank[units[i].typ.ID]
			rj, jOK := rank[units[j].typ.ID]
			if !iOK {
				ri = len(combo.TypeOrder)
			}
			if !jOK {
				rj = len(combo.TypeOrder)
			}
			if ri != rj {
				return ri < rj
			}
			return units[i].typ.Volume() > units[j].typ.Volume()
		})
		return units
	}

	keys := make([]float64, len(units))
	for i, u := range units {
		keys[i] = combo.Init.key(u.typ, rng)
	}
	sort.SliceStable(units, func(i, j int) bool {
		return keys[units[i].ord] < keys[units[j].ord]
	})
	return units
}

func (f *Filler) buildResult(combo Combination, c *model.Container, unplaced []unit, trace [][]model.Vec3, elapsed time.Duration) RunResult {
	placed := make([]model.PlacedPackage, len(c.Placed))
	copy(placed, c.Placed)

	var unplacedVolume float64
	unplacedCounts := make(map[string]int)
	for _, u := range unplaced {
		unplacedCounts[u.typ.ID]++
		unplacedVolume += u.typ.Volume()
	}
	var unplacedTypes []model.PackageType
	for _, t := range f.Scenario.Catalog {
		if n := unplacedCounts[t.ID]; n > 0 {
			left := t
			left.Quantity = n
			unplacedTypes = append(unplacedTypes, left)
		}
	}

	placedVolume := c.PlacedVolume()
	placedRatio := 0.0
	if placedVolume+unplacedVolume > 0 {
		placedRatio = placedVolume / (placedVolume + unplacedVolume)
	}

	return RunResult{
		Combination:    combo,
		Placed:         placed,
		Unplaced:       unplacedTypes,
		PlacedVolume:   placedVolume,
		UnplacedVolume: unplacedVolume,
		FillRatio:      c.FillRatio(),
		PlacedRatio:    placedRatio,
		Duration:       elapsed,
		CornerTrace:    trace,
	}
}

// cornerSnapshot captures the active corner positions in generation order.
func cornerSnapshot(c *model.Container) []model.Vec3 {
	corners := make([]model.Corner, len(c.Corners))
	copy(corners, c.Corners)
	sort.Slice(corners, func(i, j int) bool { return corners[i].Seq < corners[j].Seq })

	positions := make([]model.Vec3, len(corners))
	for i, corner := range corners {
		positions[i] = corner.Pos
	}
	return positions
}
