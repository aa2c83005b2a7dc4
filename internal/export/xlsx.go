package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/LoadPlan/internal/engine"
)

const (
	runsSheet       = "Runs"
	placementsSheet = "Placements"
)

// ExportXLSX writes a workbook with two sheets: one row per evaluated
// heuristic combination, and the best run's placement list in loading order.
func ExportXLSX(path string, report *engine.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeRunsSheet(f, report); err != nil {
		return err
	}
	if err := writePlacementsSheet(f, report); err != nil {
		return err
	}

	// Drop the default sheet created by excelize.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeRunsSheet(f *excelize.File, report *engine.Report) error {
	if _, err := f.NewSheet(runsSheet); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", runsSheet, err)
	}

	headers := []interface{}{"Combination", "Init Sorting", "Corner Sorting", "Fill %", "Placed %", "Packages", "Unplaced Types", "Duration (ms)", "Best"}
	if err := f.SetSheetRow(runsSheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, res := range report.Results {
		row := []interface{}{
			res.Combination.Name(),
			string(res.Combination.Init),
			string(res.Combination.Corner),
			res.FillRatio * 100,
			res.PlacedRatio * 100,
			len(res.Placed),
			len(res.Unplaced),
			float64(res.Duration.Microseconds()) / 1000.0,
			i == report.BestIndex,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(runsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write run row %d: %w", i+1, err)
		}
	}
	return nil
}

func writePlacementsSheet(f *excelize.File, report *engine.Report) error {
	if _, err := f.NewSheet(placementsSheet); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", placementsSheet, err)
	}

	headers := []interface{}{"Step", "Package", "X", "Y", "Z", "Length", "Width", "Height", "Orientation"}
	if err := f.SetSheetRow(placementsSheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, p := range report.Best().Placed {
		row := []interface{}{
			p.Step + 1,
			p.Label,
			p.Box.Min.X,
			p.Box.Min.Y,
			p.Box.Min.Z,
			p.Box.Extent(0),
			p.Box.Extent(1),
			p.Box.Extent(2),
			p.Orientation.String(),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(placementsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write placement row %d: %w", i+1, err)
		}
	}
	return nil
}
