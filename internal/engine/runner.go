package engine

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// maxPermutationTypes caps the exhaustive type-permutation search. Beyond
// this the factorial blowup makes the cross product unreasonable.
const maxPermutationTypes = 8

// Combination is one point in the heuristic search space: a package
// ordering, a corner ordering, and optionally an explicit type-priority
// permutation that overrides the init sorting.
type Combination struct {
	Init      InitSorting   `json:"init"`
	Corner    CornerSorting `json:"corner"`
	TypeOrder []string      `json:"type_order,omitempty"`
}

// Name returns a human readable identifier for log lines and reports.
func (c Combination) Name() string {
	if len(c.TypeOrder) > 0 {
		return fmt.Sprintf("perm[%s]/%s", strings.Join(c.TypeOrder, ","), c.Corner)
	}
	return fmt.Sprintf("%s/%s", c.Init, c.Corner)
}

// RunResult holds the outcome of a single combination run.
type RunResult struct {
	Combination    Combination           `json:"combination"`
	Placed         []model.PlacedPackage `json:"placed"`
	Unplaced       []model.PackageType   `json:"unplaced,omitempty"`
	PlacedVolume   float64               `json:"placed_volume"`
	UnplacedVolume float64               `json:"unplaced_volume"`
	FillRatio      float64               `json:"fill_ratio"`
	PlacedRatio    float64               `json:"placed_ratio"`
	Duration       time.Duration         `json:"duration"`
	CornerTrace    [][]model.Vec3        `json:"corner_trace,omitempty"`
}

// Report aggregates all combination runs for one scenario. BestIndex points
// into Results at the run with the strictly highest fill ratio; ties go to
// the earliest combination.
type Report struct {
	ID          string         `json:"id"`
	Scenario    model.Scenario `json:"scenario"`
	Results     []RunResult    `json:"results"`
	BestIndex   int            `json:"best_index"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// Best returns the winning run.
func (r *Report) Best() RunResult {
	return r.Results[r.BestIndex]
}

// Combinations builds the cross product of the given orderings. Empty
// slices default to the full sets.
func Combinations(inits []InitSorting, corners []CornerSorting) []Combination {
	if len(inits) == 0 {
		inits = AllInitSortings()
	}
	if len(corners) == 0 {
		corners = AllCornerSortings()
	}
	combos := make([]Combination, 0, len(inits)*len(corners))
	for _, in := range inits {
		for _, co := range corners {
			combos = append(combos, Combination{Init: in, Corner: co})
		}
	}
	return combos
}

// TypePermutationCombinations crosses every permutation of the catalog's
// package types with the given corner orderings. The catalog may hold at
// most maxPermutationTypes distinct types.
func TypePermutationCombinations(catalog []model.PackageType, corners []CornerSorting) ([]Combination, error) {
	if len(catalog) > maxPermutationTypes {
		return nil, fmt.Errorf("type permutations support at most %d package types, got %d", maxPermutationTypes, len(catalog))
	}
	if len(corners) == 0 {
		corners = AllCornerSortings()
	}

	ids := make([]string, len(catalog))
	for i, t := range catalog {
		ids[i] = t.ID
	}

	var combos []Combination
	permute(ids, 0, func(order []string) {
		for _, co := range corners {
			combos = append(combos, Combination{Init: InitNone, Corner: co, TypeOrder: append([]string(nil), order...)})
		}
	})
	return combos, nil
}

// permute enumerates permutations of ids in place via Heap-style swaps.
func permute(ids []string, k int, visit func([]string)) {
	if k == len(ids) {
		visit(ids)
		return
	}
	for i := k; i < len(ids); i++ {
		ids[k], ids[i] = ids[i], ids[k]
		permute(ids, k+1, visit)
		ids[k], ids[i] = ids[i], ids[k]
	}
}

// Runner evaluates a set of heuristic combinations against one scenario,
// fanning runs out over a worker pool and selecting the best fill ratio.
type Runner struct {
	Settings model.LoadSettings
	Logger   *zap.Logger
}

// NewRunner creates a runner. A nil logger is replaced with a no-op one.
func NewRunner(settings model.LoadSettings, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{Settings: settings, Logger: logger}
}

// Run evaluates every combination for the scenario and returns the
// aggregated report. Results keep the combination order regardless of which
// worker finished first. Run returns the context error when cancelled;
// cancellation is observed at run granularity, a run in flight completes.
func (r *Runner) Run(ctx context.Context, scenario model.Scenario, combos []Combination) (*Report, error) {
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %q: %w", scenario.Name, err)
	}
	if len(combos) == 0 {
		combos = Combinations(nil, nil)
	}

	workers := r.Settings.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(combos) {
		workers = len(combos)
	}

	r.Logger.Info("starting heuristic search",
		zap.String("scenario", scenario.Name),
		zap.Int("combinations", len(combos)),
		zap.Int("workers", workers))

	results := make([]RunResult, len(combos))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			filler := NewFiller(scenario, r.Settings)
			for idx := range jobs {
				res := filler.Run(combos[idx])
				results[idx] = res
				r.Logger.Debug("combination finished",
					zap.String("combination", res.Combination.Name()),
					zap.Int("placed", len(res.Placed)),
					zap.Float64("fill_ratio", res.FillRatio),
					zap.Duration("duration", res.Duration))
			}
		}()
	}

	var ctxErr error
dispatch:
	for i := range combos {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if ctxErr != nil {
		return nil, fmt.Errorf("heuristic search cancelled: %w", ctxErr)
	}

	best := 0
	for i, res := range results {
		if res.FillRatio > results[best].FillRatio {
			best = i
		}
	}

	report := &Report{
		ID:          uuid.New().String()[:8],
		Scenario:    scenario,
		Results:     results,
		BestIndex:   best,
		GeneratedAt: time.Now(),
	}

	winner := report.Best()
	r.Logger.Info("heuristic search complete",
		zap.String("scenario", scenario.Name),
		zap.String("best", winner.Combination.Name()),
		zap.Float64("fill_ratio", winner.FillRatio),
		zap.Float64("placed_ratio", winner.PlacedRatio),
		zap.Int("placed", len(winner.Placed)))

	return report, nil
}
