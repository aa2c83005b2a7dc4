package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/LoadPlan/internal/engine"
)

// LabelInfo holds the data encoded into each package label's QR code. Loaders
// scan the label to see where and in which order a package goes into the
// container.
type LabelInfo struct {
	PackageLabel string  `json:"label"`
	Step         int     `json:"step"`
	Scenario     string  `json:"scenario"`
	Orientation  string  `json:"orientation"`
	X            float64 `json:"x_cm"`
	Y            float64 `json:"y_cm"`
	Z            float64 `json:"z_cm"`
	Length       float64 `json:"length_cm"`
	Width        float64 `json:"width_cm"`
	Height       float64 `json:"height_cm"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelPageWidth  = 215.9 // US Letter width in mm
	labelPageHeight = 279.4 // US Letter height in mm
	labelMarginTop  = 12.7  // mm
	labelMarginLeft = 4.8   // mm
	labelWidth      = 66.7  // mm per label
	labelHeight     = 25.4  // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels for the best run's placed
// packages, in loading order. Each label contains the package name, loading
// step, target position, and a QR code encoding the placement as JSON.
// Labels are laid out on a standard label sheet format (Avery 5160 /
// 3 columns x 10 rows on US Letter).
func ExportLabels(path string, report *engine.Report) error {
	labels := CollectLabelInfos(report)
	if len(labels) == 0 {
		return fmt.Errorf("no packages placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		// Add new page when needed
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.PackageLabel, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Draw light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	// Generate QR code PNG bytes
	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	// Register QR image with a unique name
	imgName := fmt.Sprintf("qr_%s_%d", info.PackageLabel, info.Step)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	// Place QR code on the right side of the label
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Text area (left side of label)
	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	// Package label (bold, larger)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	// Truncate label if too long
	pkgLabel := info.PackageLabel
	if pdf.GetStringWidth(pkgLabel) > textW {
		for len(pkgLabel) > 0 && pdf.GetStringWidth(pkgLabel+"...") > textW {
			pkgLabel = pkgLabel[:len(pkgLabel)-1]
		}
		pkgLabel += "..."
	}
	pdf.CellFormat(textW, 4.5, pkgLabel, "", 1, "L", false, 0, "")

	// Loading step
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	step := fmt.Sprintf("Load step %d", info.Step+1)
	pdf.CellFormat(textW, 3.5, step, "", 1, "L", false, 0, "")

	// Target position inside the container
	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	posInfo := fmt.Sprintf("@ (%.0f, %.0f, %.0f) cm", info.X, info.Y, info.Z)
	pdf.CellFormat(textW, 3, posInfo, "", 1, "L", false, 0, "")

	// Orientation indicator
	pdf.SetXY(textX, y+labelPadding+12.5)
	pdf.SetFont("Helvetica", "I", 6)
	pdf.SetTextColor(150, 100, 0)
	pdf.CellFormat(textW, 3, "Orientation "+info.Orientation, "", 0, "L", false, 0, "")

	// Reset text color
	pdf.SetTextColor(0, 0, 0)

	return nil
}

// CollectLabelInfos extracts label information from the best run of a report
// for use in testing or alternative export formats. Labels come back in
// loading order.
func CollectLabelInfos(report *engine.Report) []LabelInfo {
	best := report.Best()

	labels := make([]LabelInfo, 0, len(best.Placed))
	for _, p := range best.Placed {
		labels = append(labels, LabelInfo{
			PackageLabel: p.Label,
			Step:         p.Step,
			Scenario:     report.Scenario.Name,
			Orientation:  p.Orientation.String(),
			X:            p.Box.Min.X,
			Y:            p.Box.Min.Y,
			Z:            p.Box.Min.Z,
			Length:       p.Box.Extent(0),
			Width:        p.Box.Extent(1),
			Height:       p.Box.Extent(2),
		})
	}
	return labels
}
