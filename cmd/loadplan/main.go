// LoadPlan — Container Load Planner
//
// A command-line tool that searches heuristic combinations of the three
// corners placement algorithm to fit a package catalog into a shipping
// container, then exports the best load plan.
//
// Build:
//   go build -o loadplan ./cmd/loadplan
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/piwi3910/LoadPlan/internal/config"
	"github.com/piwi3910/LoadPlan/internal/engine"
	"github.com/piwi3910/LoadPlan/internal/export"
	"github.com/piwi3910/LoadPlan/internal/importer"
	"github.com/piwi3910/LoadPlan/internal/logging"
	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/piwi3910/LoadPlan/internal/project"
)

func main() {
	app := kingpin.New("loadplan", "Container Load Planner - searches placement heuristics for the best container fill")

	configFile := app.Flag("config", "Path to YAML configuration file").String()
	scenarioFile := app.Flag("scenario", "Path to a scenario file (JSON or YAML)").String()
	exampleNum := app.Flag("example", "Run a built-in example catalog (1 or 2)").Int()
	containerDims := app.Flag("container", "Container dimensions as LxWxH in cm").String()
	containerName := app.Flag("container-name", "Container preset name from the inventory (e.g. 40ft)").String()
	catalogName := app.Flag("catalog", "Saved catalog name from the inventory").String()
	packageSpecs := app.Flag("package", "Package type as Label:LxWxH:quantity (repeatable)").Strings()
	importFile := app.Flag("import", "Import a package catalog from a CSV or Excel file").String()

	initSortings := app.Flag("init", "Initial package sorting to evaluate (repeatable)").Strings()
	cornerSortings := app.Flag("corner", "Corner sorting to evaluate (repeatable)").Strings()
	typePermutations := app.Flag("type-permutations", "Evaluate every package type permutation instead of initial sortings").Bool()
	workers := app.Flag("workers", "Number of parallel workers (0 = all CPUs)").Default("-1").Int()
	seed := app.Flag("seed", "Seed for the random heuristics").Default("-9223372036854775808").Int64()
	resultsDir := app.Flag("results-dir", "Directory for result report files").String()
	requireSupport := app.Flag("require-support", "Only generate corners resting on the floor or on a placed package").Bool()

	pdfPath := app.Flag("pdf", "Export the best load plan to a PDF file").String()
	labelsPath := app.Flag("labels", "Export package labels with QR codes to a PDF file").String()
	xlsxPath := app.Flag("xlsx", "Export all run results to an Excel file").String()
	dxfPath := app.Flag("dxf", "Export the best load plan wireframe to a DXF file").String()
	threemfPath := app.Flag("3mf", "Export the best load plan to a 3MF model file").String()
	saveScenario := app.Flag("save-scenario", "Save the resolved scenario to a file").String()

	backupPath := app.Flag("backup", "Write inventory and recent scenarios to a backup file, then exit unless a run is requested").String()
	restorePath := app.Flag("restore", "Restore inventory and scenarios from a backup file").String()
	exportInvPath := app.Flag("export-inventory", "Export the inventory to a JSON file").String()
	importInvPath := app.Flag("import-inventory", "Merge containers and catalogs from a JSON inventory file").String()

	verbose := app.Flag("verbose", "Enable debug logging").Short('v').Bool()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	logger, err := logging.New(*verbose)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	overrides := &config.CLIOverrides{
		ConfigFile:     *configFile,
		InitSortings:   *initSortings,
		CornerSortings: *cornerSortings,
	}
	if *typePermutations {
		overrides.TypePermutations = typePermutations
	}
	if *workers >= 0 {
		overrides.Workers = workers
	}
	if *seed != math.MinInt64 {
		overrides.Seed = seed
	}
	if *resultsDir != "" {
		overrides.ResultsDir = resultsDir
	}
	if *requireSupport {
		overrides.RequireSupport = requireSupport
	}

	prefs, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		logger.Warn("failed to load preferences, using defaults", zap.Error(err))
		prefs = model.DefaultAppConfig()
	}

	cfg, err := config.Load(prefs, overrides)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	inv, invPath, err := project.LoadOrCreateInventory()
	if err != nil {
		logger.Fatal("failed to load inventory", zap.Error(err))
	}

	adminDone := runAdminOps(logger, prefs, &inv, invPath, *backupPath, *restorePath, *exportInvPath, *importInvPath)

	if !hasScenarioSource(*scenarioFile, *exampleNum, *catalogName, *packageSpecs, *importFile) {
		if adminDone {
			return
		}
		logger.Fatal("no packages given: use --scenario, --example, --catalog, --import or --package")
	}

	scenario, err := resolveScenario(logger, prefs, inv, *scenarioFile, *exampleNum, *containerDims, *containerName, *catalogName, *packageSpecs, *importFile)
	if err != nil {
		logger.Fatal("failed to build scenario", zap.Error(err))
	}

	if *scenarioFile != "" {
		prefs.RememberScenario(*scenarioFile)
		if err := project.SaveAppConfig(project.DefaultConfigPath(), prefs); err != nil {
			logger.Warn("failed to save preferences", zap.Error(err))
		}
	}

	if *saveScenario != "" {
		if err := project.SaveScenario(*saveScenario, scenario); err != nil {
			logger.Fatal("failed to save scenario", zap.Error(err))
		}
		logger.Info("scenario saved", zap.String("path", *saveScenario))
	}

	combos, err := cfg.Combos(scenario.Catalog)
	if err != nil {
		logger.Fatal("failed to build heuristic combinations", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := engine.NewRunner(cfg.EngineSettings(), logger)
	report, err := runner.Run(ctx, scenario, combos)
	if err != nil {
		logger.Fatal("heuristic search failed", zap.Error(err))
	}

	best := report.Best()
	logger.Info("best result",
		zap.String("combination", best.Combination.Name()),
		zap.Float64("fill_ratio", best.FillRatio),
		zap.Float64("placed_ratio", best.PlacedRatio),
		zap.Int("placed", len(best.Placed)),
		zap.Int("unplaced_types", len(best.Unplaced)))

	resultPath, err := project.SaveReportTimestamped(cfg.ResultsDir, report)
	if err != nil {
		logger.Fatal("failed to save report", zap.Error(err))
	}
	logger.Info("report saved", zap.String("path", resultPath))

	exportAll(logger, report, *pdfPath, *labelsPath, *xlsxPath, *dxfPath, *threemfPath)
}

// hasScenarioSource reports whether any flag names packages to load.
func hasScenarioSource(scenarioFile string, exampleNum int, catalogName string, packageSpecs []string, importFile string) bool {
	return scenarioFile != "" || exampleNum != 0 || catalogName != "" || len(packageSpecs) > 0 || importFile != ""
}

// resolveScenario builds the scenario to run from the various input
// sources, in priority order: scenario file, built-in example, saved
// catalog, then a container plus catalog assembled from flags or an
// import file.
func resolveScenario(logger *zap.Logger, prefs model.AppConfig, inv model.Inventory, scenarioFile string, exampleNum int, containerDims, containerName, catalogName string, packageSpecs []string, importFile string) (model.Scenario, error) {
	if scenarioFile != "" {
		return project.LoadScenario(scenarioFile)
	}
	if exampleNum != 0 {
		return exampleScenario(exampleNum)
	}
	if catalogName != "" {
		scenario, ok := inv.FindCatalog(catalogName)
		if !ok {
			return model.Scenario{}, fmt.Errorf("unknown catalog %q in inventory", catalogName)
		}
		return scenario, nil
	}

	if containerName == "" {
		containerName = prefs.DefaultContainer
	}
	container, err := resolveContainer(inv, containerDims, containerName)
	if err != nil {
		return model.Scenario{}, err
	}

	var catalog []model.PackageType
	name := "loadplan"
	switch {
	case importFile != "":
		result := importCatalog(importFile)
		for _, warning := range result.Warnings {
			logger.Warn("catalog import", zap.String("warning", warning))
		}
		for _, importErr := range result.Errors {
			logger.Warn("catalog import", zap.String("error", importErr))
		}
		if len(result.Types) == 0 {
			return model.Scenario{}, fmt.Errorf("no package types imported from %s", importFile)
		}
		catalog = result.Types
		name = strings.TrimSuffix(importFile, ".csv")
		name = strings.TrimSuffix(name, ".xlsx")
	case len(packageSpecs) > 0:
		catalog, err = parsePackageSpecs(packageSpecs)
		if err != nil {
			return model.Scenario{}, err
		}
	default:
		return model.Scenario{}, fmt.Errorf("no packages given: use --scenario, --example, --catalog, --import or --package")
	}

	scenario := model.Scenario{Name: name, Container: container, Catalog: catalog}
	if err := scenario.Validate(); err != nil {
		return model.Scenario{}, err
	}
	return scenario, nil
}

func resolveContainer(inv model.Inventory, containerDims, containerName string) (model.Dimensions, error) {
	if containerDims != "" {
		return parseDimensions(containerDims)
	}

	preset, ok := inv.FindContainer(containerName)
	if !ok {
		return model.Dimensions{}, fmt.Errorf("unknown container preset %q", containerName)
	}
	return preset.Dimensions, nil
}

// runAdminOps performs the inventory and backup maintenance flags.
// It reports whether any of them ran.
func runAdminOps(logger *zap.Logger, prefs model.AppConfig, inv *model.Inventory, invPath, backupPath, restorePath, exportInvPath, importInvPath string) bool {
	ran := false

	if restorePath != "" {
		ran = true
		backup, err := project.RestoreAllData(restorePath, invPath, "scenarios")
		if err != nil {
			logger.Fatal("restore failed", zap.Error(err))
		}
		*inv = backup.Inventory
		logger.Info("backup restored",
			zap.String("path", restorePath),
			zap.Int("containers", len(backup.Inventory.Containers)),
			zap.Int("scenarios", len(backup.Scenarios)))
	}

	if importInvPath != "" {
		ran = true
		merged, err := project.ImportInventory(importInvPath, *inv)
		if err != nil {
			logger.Fatal("inventory import failed", zap.Error(err))
		}
		if err := project.SaveInventory(invPath, merged); err != nil {
			logger.Fatal("failed to save merged inventory", zap.Error(err))
		}
		*inv = merged
		logger.Info("inventory imported",
			zap.String("path", importInvPath),
			zap.Int("containers", len(merged.Containers)),
			zap.Int("catalogs", len(merged.Catalogs)))
	}

	if exportInvPath != "" {
		ran = true
		if err := project.ExportInventory(exportInvPath, *inv); err != nil {
			logger.Fatal("inventory export failed", zap.Error(err))
		}
		logger.Info("inventory exported", zap.String("path", exportInvPath))
	}

	if backupPath != "" {
		ran = true
		scenarios := collectRecentScenarios(logger, prefs)
		if err := project.ExportAllData(backupPath, *inv, scenarios); err != nil {
			logger.Fatal("backup failed", zap.Error(err))
		}
		logger.Info("backup written",
			zap.String("path", backupPath),
			zap.Int("scenarios", len(scenarios)))
	}

	return ran
}

// collectRecentScenarios loads the scenario files remembered in the
// preferences, skipping any that no longer load.
func collectRecentScenarios(logger *zap.Logger, prefs model.AppConfig) []model.Scenario {
	scenarios := make([]model.Scenario, 0, len(prefs.RecentScenarios))
	for _, path := range prefs.RecentScenarios {
		scenario, err := project.LoadScenario(path)
		if err != nil {
			logger.Warn("skipping recent scenario", zap.String("path", path), zap.Error(err))
			continue
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios
}

func importCatalog(path string) importer.ImportResult {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return importer.ImportExcel(path)
	}
	return importer.ImportCSV(path)
}

// parseDimensions parses "LxWxH" in cm, e.g. "1203x233.5x268.5".
func parseDimensions(s string) (model.Dimensions, error) {
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 3 {
		return model.Dimensions{}, fmt.Errorf("invalid dimensions %q: expected LxWxH", s)
	}
	values := make([]float64, 3)
	for i, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || value <= 0 {
			return model.Dimensions{}, fmt.Errorf("invalid dimension %q in %q", part, s)
		}
		values[i] = value
	}
	return model.Dimensions{Length: values[0], Width: values[1], Height: values[2]}, nil
}

// parsePackageSpecs parses repeated --package flags of the form
// "Label:LxWxH:quantity". The quantity defaults to 1 when omitted.
func parsePackageSpecs(specs []string) ([]model.PackageType, error) {
	catalog := make([]model.PackageType, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("invalid package spec %q: expected Label:LxWxH:quantity", spec)
		}

		dims, err := parseDimensions(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid package spec %q: %w", spec, err)
		}

		qty := 1
		if len(parts) == 3 {
			qty, err = strconv.Atoi(strings.TrimSpace(parts[2]))
			if err != nil || qty <= 0 {
				return nil, fmt.Errorf("invalid quantity in package spec %q", spec)
			}
		}

		catalog = append(catalog, model.NewPackageType(parts[0], dims.Length, dims.Width, dims.Height, qty))
	}
	return catalog, nil
}

func exportAll(logger *zap.Logger, report *engine.Report, pdfPath, labelsPath, xlsxPath, dxfPath, threemfPath string) {
	exports := []struct {
		path string
		kind string
		fn   func(string, *engine.Report) error
	}{
		{pdfPath, "pdf", export.ExportPDF},
		{labelsPath, "labels", export.ExportLabels},
		{xlsxPath, "xlsx", export.ExportXLSX},
		{dxfPath, "dxf", export.ExportDXF},
		{threemfPath, "3mf", export.ExportThreeMF},
	}
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		if err := e.fn(e.path, report); err != nil {
			logger.Error("export failed", zap.String("format", e.kind), zap.Error(err))
			continue
		}
		logger.Info("export written", zap.String("format", e.kind), zap.String("path", e.path))
	}
}
