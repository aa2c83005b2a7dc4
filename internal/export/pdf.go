// Package export provides functionality for exporting load plan results
// to various file formats.
package export

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/LoadPlan/internal/engine"
	"github.com/piwi3910/LoadPlan/internal/model"
)

// packageColor represents an RGB color for a placed package type.
type packageColor struct {
	R, G, B int
}

// packageColors is the shared color scheme for placed packages. Colors are
// assigned per package type so every exporter renders a type the same way.
var packageColors = []packageColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// typeColorIndex maps each package type ID to a stable color slot based on
// the catalog order.
func typeColorIndex(catalog []model.PackageType, typeID string) int {
	for i, t := range catalog {
		if t.ID == typeID {
			return i % len(packageColors)
		}
	}
	return 0
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// projection describes one orthographic view of the container.
type projection struct {
	name string
	// horizontal, vertical and depth map view coordinates to box axes.
	horizontal int
	vertical   int
	depth      int
}

var projections = []projection{
	{name: "Top view (X/Y)", horizontal: 0, vertical: 1, depth: 2},
	{name: "Front view (X/Z)", horizontal: 0, vertical: 2, depth: 1},
	{name: "Side view (Y/Z)", horizontal: 1, vertical: 2, depth: 0},
}

// ExportPDF generates a PDF document for a heuristic search report. The best
// run's placement is rendered as three orthographic projections, one per
// page, followed by a summary page comparing all evaluated combinations.
func ExportPDF(path string, report *engine.Report) error {
	best := report.Best()
	if len(best.Placed) == 0 {
		return fmt.Errorf("no placements to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, proj := range projections {
		pdf.AddPage()
		renderProjectionPage(pdf, report, proj)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, report)

	return pdf.OutputFileAndClose(path)
}

// renderProjectionPage draws one orthographic view of the best placement.
func renderProjectionPage(pdf *fpdf.Fpdf, report *engine.Report, proj projection) {
	best := report.Best()
	container := report.Scenario.Container.Vec()

	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s: %s (%.0f x %.0f x %.0f cm)",
		proj.name, report.Scenario.Name,
		report.Scenario.Container.Length, report.Scenario.Container.Width, report.Scenario.Container.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Combination: %s | Packages: %d | Fill: %.1f%% | Placed volume: %.0f cm³",
		best.Combination.Name(), len(best.Placed), best.FillRatio*100, best.PlacedVolume)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Calculate drawing area
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	viewW := container.At(proj.horizontal)
	viewH := container.At(proj.vertical)

	// Scale to fit the container outline within the drawing area
	scale := math.Min(drawWidth/viewW, drawHeight/viewH)

	canvasW := viewW * scale
	canvasH := viewH * scale

	// Center the drawing horizontally
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Container outline (steel gray)
	pdf.SetFillColor(225, 228, 232)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Draw packages back to front so nearer boxes cover farther ones.
	ordered := make([]model.PlacedPackage, len(best.Placed))
	copy(ordered, best.Placed)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Box.Min.At(proj.depth) < ordered[j].Box.Min.At(proj.depth)
	})

	for _, p := range ordered {
		col := packageColors[typeColorIndex(report.Scenario.Catalog, p.TypeID)]
		pw := p.Box.Extent(proj.horizontal) * scale
		ph := p.Box.Extent(proj.vertical) * scale
		px := offsetX + p.Box.Min.At(proj.horizontal)*scale
		// PDF y axis points down; flip the vertical view axis.
		py := offsetY + canvasH - (p.Box.Min.At(proj.vertical)+p.Box.Extent(proj.vertical))*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		// Package label (only if rectangle is large enough)
		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := p.Label
			step := fmt.Sprintf("#%d", p.Step+1)

			labelW := pdf.GetStringWidth(label)
			stepW := pdf.GetStringWidth(step)

			// First line: label
			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}

			// Second line: placement step
			if ph > 14 && stepW < pw-2 {
				pdf.SetXY(px+(pw-stepW)/2, py+ph/2)
				pdf.CellFormat(stepW, 4, step, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, viewW, viewH, offsetX, offsetY, canvasW, canvasH)
	drawCatalogLegend(pdf, report.Scenario.Catalog, offsetY+canvasH+5)
}

// drawDimensionAnnotations adds horizontal and vertical extent labels outside
// the container rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, viewW, viewH, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	// Horizontal extent (below the container)
	widthLabel := fmt.Sprintf("%.0f cm", viewW)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	// Vertical extent (to the left of the container, rotated)
	heightLabel := fmt.Sprintf("%.0f cm", viewH)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	// Reset text color
	pdf.SetTextColor(0, 0, 0)
}

// drawCatalogLegend renders a compact legend of the package types at the
// bottom of a projection page.
func drawCatalogLegend(pdf *fpdf.Fpdf, catalog []model.PackageType, startY float64) {
	if len(catalog) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Package types:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, t := range catalog {
		col := packageColors[i%len(packageColors)]
		label := fmt.Sprintf("%s (%.0fx%.0fx%.0f)", t.Label, t.Dimensions.Length, t.Dimensions.Width, t.Dimensions.Height)
		labelW := pdf.GetStringWidth(label) + 6

		// Wrap to next line if needed
		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		// Color swatch
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		// Label text
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page comparing every evaluated
// heuristic combination.
func renderSummaryPage(pdf *fpdf.Fpdf, report *engine.Report) {
	best := report.Best()

	// Title
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Load Plan Summary", "", 0, "L", false, 0, "")

	// Separator line
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	// Overall statistics
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Best Combination", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Combination", best.Combination.Name()},
		{"Fill Ratio", fmt.Sprintf("%.1f%%", best.FillRatio*100)},
		{"Placed Ratio", fmt.Sprintf("%.1f%%", best.PlacedRatio*100)},
		{"Packages Placed", fmt.Sprintf("%d", len(best.Placed))},
		{"Unplaced Types", fmt.Sprintf("%d", len(best.Unplaced))},
		{"Combinations Evaluated", fmt.Sprintf("%d", len(report.Results))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(80, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	// Top combinations table
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Best Combinations", "", 0, "L", false, 0, "")
	y += 9

	// Table header
	colWidths := []float64{15, 110, 35, 35, 35, 35}
	headers := []string{"Rank", "Combination", "Fill", "Placed", "Packages", "Duration"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	// Table rows: top ten combinations by fill ratio
	ranked := make([]engine.RunResult, len(report.Results))
	copy(ranked, report.Results)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].FillRatio > ranked[j].FillRatio })
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}

	pdf.SetFont("Helvetica", "", 9)
	for i, res := range ranked {
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			res.Combination.Name(),
			fmt.Sprintf("%.1f%%", res.FillRatio*100),
			fmt.Sprintf("%.1f%%", res.PlacedRatio*100),
			fmt.Sprintf("%d", len(res.Placed)),
			res.Duration.Round(time.Millisecond).String(),
		}

		// Alternate row background
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	// Unplaced packages warning
	if len(best.Unplaced) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unplaced Packages", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)

		for _, t := range best.Unplaced {
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- %s: %.0f x %.0f x %.0f cm (qty: %d)",
				t.Label, t.Dimensions.Length, t.Dimensions.Width, t.Dimensions.Height, t.Quantity)
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by LoadPlan - Container Load Planner", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
