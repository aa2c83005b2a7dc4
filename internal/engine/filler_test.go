package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/LoadPlan/internal/model"
)

func testScenario(length, width, height float64, types ...model.PackageType) model.Scenario {
	return model.Scenario{
		Name:      "test",
		Container: model.Dimensions{Length: length, Width: width, Height: height},
		Catalog:   types,
	}
}

func defaultCombo() Combination {
	return Combination{Init: InitNone, Corner: CornerNone}
}

func TestFill_SinglePackageFillsContainer(t *testing.T) {
	scenario := testScenario(10, 10, 10, model.NewPackageType("cube", 10, 10, 10, 1))
	settings := model.DefaultSettings()
	settings.CaptureCornerTrace = true

	result := NewFiller(scenario, settings).Run(defaultCombo())

	require.Len(t, result.Placed, 1)
	assert.Empty(t, result.Unplaced)
	assert.InDelta(t, 1.0, result.FillRatio, 1e-9)
	assert.InDelta(t, 1.0, result.PlacedRatio, 1e-9)
	assert.Equal(t, model.Vec3{}, result.Placed[0].Box.Min)

	// Every extension corner lands on the container boundary, so the active
	// set drains completely.
	require.Len(t, result.CornerTrace, 1)
	assert.Empty(t, result.CornerTrace[0])
}

func TestFill_ExactTiling(t *testing.T) {
	scenario := testScenario(10, 10, 10, model.NewPackageType("cube", 5, 5, 5, 8))

	result := NewFiller(scenario, model.DefaultSettings()).Run(defaultCombo())

	require.Len(t, result.Placed, 8)
	assert.Empty(t, result.Unplaced)
	assert.InDelta(t, 1.0, result.FillRatio, 1e-9)
}

func TestFill_OversizedPackageRejected(t *testing.T) {
	scenario := testScenario(10, 10, 10, model.NewPackageType("beam", 20, 5, 5, 1))

	result := NewFiller(scenario, model.DefaultSettings()).Run(defaultCombo())

	assert.Empty(t, result.Placed)
	require.Len(t, result.Unplaced, 1)
	assert.Equal(t, 1, result.Unplaced[0].Quantity)
	assert.Zero(t, result.FillRatio)
	assert.Zero(t, result.PlacedRatio)
}

func TestFill_StacksAlongZ(t *testing.T) {
	// Two full-footprint boxes can only stack; the second must land on the
	// first one's vertical extension corner.
	scenario := testScenario(10, 10, 20, model.NewPackageType("crate", 10, 10, 10, 2))

	result := NewFiller(scenario, model.DefaultSettings()).Run(defaultCombo())

	require.Len(t, result.Placed, 2)
	assert.Equal(t, 0.0, result.Placed[0].Box.Min.Z)
	assert.Equal(t, 10.0, result.Placed[1].Box.Min.Z)
	assert.InDelta(t, 1.0, result.FillRatio, 1e-9)
}

func TestFill_UnplacedAggregatedPerType(t *testing.T) {
	// Only one 6-cube fits in a 10-cube container; the remaining two come
	// back as a single catalog entry with the leftover quantity.
	scenario := testScenario(10, 10, 10, model.NewPackageType("box", 6, 6, 6, 3))

	result := NewFiller(scenario, model.DefaultSettings()).Run(defaultCombo())

	require.Len(t, result.Placed, 1)
	require.Len(t, result.Unplaced, 1)
	assert.Equal(t, 2, result.Unplaced[0].Quantity)
	assert.InDelta(t, 216.0/1000.0, result.FillRatio, 1e-9)
	assert.InDelta(t, 1.0/3.0, result.PlacedRatio, 1e-9)
}

func TestFill_PlacementsNeverOverlap(t *testing.T) {
	scenario := testScenario(12, 10, 8,
		model.NewPackageType("a", 4, 3, 2, 6),
		model.NewPackageType("b", 5, 5, 5, 3),
		model.NewPackageType("c", 2, 2, 8, 4),
	)
	bounds := scenario.Container.Vec()

	for _, corner := range AllCornerSortings() {
		result := NewFiller(scenario, model.DefaultSettings()).Run(Combination{Init: InitVolumeDesc, Corner: corner})

		for i, p := range result.Placed {
			assert.True(t, p.Box.InsideBounds(bounds), "placement %d of %s leaves the container", i, corner)
			for j := i + 1; j < len(result.Placed); j++ {
				assert.False(t, p.Box.Overlaps(result.Placed[j].Box),
					"placements %d and %d overlap for %s", i, j, corner)
			}
		}
	}
}

func TestFill_RandomHeuristicsAreSeedDeterministic(t *testing.T) {
	scenario := testScenario(12, 10, 8,
		model.NewPackageType("a", 4, 3, 2, 6),
		model.NewPackageType("b", 5, 5, 5, 3),
	)
	combo := Combination{Init: InitRandom, Corner: CornerRandom}
	settings := model.DefaultSettings()
	settings.Seed = 99

	first := NewFiller(scenario, settings).Run(combo)
	second := NewFiller(scenario, settings).Run(combo)

	assert.Equal(t, first.Placed, second.Placed)
	assert.Equal(t, first.FillRatio, second.FillRatio)
}

func TestFill_KeepUprightBlocksRotation(t *testing.T) {
	// The beam only fits lying on its side; with KeepUpright it stays unplaced.
	beam := model.NewPackageType("beam", 10, 5, 5, 1)
	beam.KeepUpright = true
	scenario := testScenario(5, 5, 10, beam)

	result := NewFiller(scenario, model.DefaultSettings()).Run(defaultCombo())

	assert.Empty(t, result.Placed)
	require.Len(t, result.Unplaced, 1)

	beam.KeepUpright = false
	scenario = testScenario(5, 5, 10, beam)

	result = NewFiller(scenario, model.DefaultSettings()).Run(defaultCombo())

	require.Len(t, result.Placed, 1)
	assert.Equal(t, 10.0, result.Placed[0].Box.Extent(2))
}

func TestFill_MaxStackHeightHonored(t *testing.T) {
	crate := model.NewPackageType("crate", 10, 10, 10, 2)
	crate.MaxStackHeight = 10
	scenario := testScenario(10, 10, 20, crate)

	result := NewFiller(scenario, model.DefaultSettings()).Run(defaultCombo())

	// The second crate would top out at 20, above its stacking limit.
	require.Len(t, result.Placed, 1)
	require.Len(t, result.Unplaced, 1)
	assert.Equal(t, 1, result.Unplaced[0].Quantity)
}

func TestFill_TypeOrderOverridesInitSorting(t *testing.T) {
	tiny := model.NewPackageType("tiny", 1, 1, 1, 1)
	big := model.NewPackageType("big", 10, 10, 10, 1)
	scenario := testScenario(10, 10, 10, tiny, big)

	combo := Combination{Corner: CornerNone, TypeOrder: []string{big.ID, tiny.ID}}
	result := NewFiller(scenario, model.DefaultSettings()).Run(combo)

	// The big crate goes first and fills the container; the tiny one is out.
	require.Len(t, result.Placed, 1)
	assert.Equal(t, big.ID, result.Placed[0].TypeID)
	assert.InDelta(t, 1.0, result.FillRatio, 1e-9)
}

func TestAddCorners_SupportRuleDropsFloatingCorner(t *testing.T) {
	scenario := testScenario(10, 5, 10)
	settings := model.DefaultSettings()
	settings.RequireSupport = true
	filler := NewFiller(scenario, settings)

	c := model.NewContainer(scenario.Container)
	c.Placed = append(c.Placed,
		model.PlacedPackage{Box: model.NewBox(model.Vec3{}, [3]float64{4, 5, 6}), Step: 0},
		model.PlacedPackage{Box: model.NewBox(model.Vec3{Z: 6}, [3]float64{7, 5, 4}), Step: 1},
	)

	// The second box overhangs the first; its x extension at (7,0,6) hovers
	// above empty space.
	filler.addCorners(c, 1)
	assert.False(t, c.HasCornerAt(model.Vec3{X: 7, Z: 6}))

	settings.RequireSupport = false
	filler = NewFiller(scenario, settings)
	filler.addCorners(c, 1)
	assert.True(t, c.HasCornerAt(model.Vec3{X: 7, Z: 6}))
}

func TestFill_CornerTraceFollowsPlacements(t *testing.T) {
	scenario := testScenario(10, 10, 10, model.NewPackageType("cube", 5, 5, 5, 8))
	settings := model.DefaultSettings()
	settings.CaptureCornerTrace = true

	result := NewFiller(scenario, settings).Run(defaultCombo())

	require.Len(t, result.CornerTrace, len(result.Placed))
	// First placement at the origin yields the three extension corners.
	assert.ElementsMatch(t, []model.Vec3{
		{X: 5}, {Y: 5}, {Z: 5},
	}, result.CornerTrace[0])
}
