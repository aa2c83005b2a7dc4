package export

import (
	"fmt"
	"strings"

	"github.com/yofu/dxf"
	dxfcolor "github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"

	"github.com/piwi3910/LoadPlan/internal/engine"
	"github.com/piwi3910/LoadPlan/internal/model"
)

// dxfLayerColors cycles per package type, roughly matching the shared RGB
// palette with AutoCAD color numbers.
var dxfLayerColors = []dxfcolor.ColorNumber{
	dxfcolor.Green,
	dxfcolor.Blue,
	dxfcolor.Yellow,
	dxfcolor.Magenta,
	dxfcolor.Cyan,
	dxfcolor.Red,
}

// ExportDXF writes the best run's placement as a 3D wireframe drawing. The
// container outline goes on its own layer and each package type gets a
// colored layer, so CAD viewers can toggle types individually.
func ExportDXF(path string, report *engine.Report) error {
	best := report.Best()
	if len(best.Placed) == 0 {
		return fmt.Errorf("no placements to export")
	}

	d := dxf.NewDrawing()

	if _, err := d.AddLayer("CONTAINER", dxfcolor.White, table.LT_CONTINUOUS, true); err != nil {
		return fmt.Errorf("failed to add container layer: %w", err)
	}
	container := model.NewBox(model.Vec3{}, report.Scenario.Container.Array())
	if err := drawWireframe(d, container); err != nil {
		return err
	}

	for i, t := range report.Scenario.Catalog {
		color := dxfLayerColors[i%len(dxfLayerColors)]
		if _, err := d.AddLayer(layerName(t.Label), color, table.LT_CONTINUOUS, true); err != nil {
			return fmt.Errorf("failed to add layer for %q: %w", t.Label, err)
		}
		for _, p := range best.Placed {
			if p.TypeID != t.ID {
				continue
			}
			if err := drawWireframe(d, p.Box); err != nil {
				return err
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// drawWireframe adds the 12 edges of a box to the current layer.
func drawWireframe(d *drawing.Drawing, b model.Box) error {
	x0, y0, z0 := b.Min.X, b.Min.Y, b.Min.Z
	x1, y1, z1 := b.Max.X, b.Max.Y, b.Max.Z

	edges := [][6]float64{
		// bottom face
		{x0, y0, z0, x1, y0, z0},
		{x1, y0, z0, x1, y1, z0},
		{x1, y1, z0, x0, y1, z0},
		{x0, y1, z0, x0, y0, z0},
		// top face
		{x0, y0, z1, x1, y0, z1},
		{x1, y0, z1, x1, y1, z1},
		{x1, y1, z1, x0, y1, z1},
		{x0, y1, z1, x0, y0, z1},
		// verticals
		{x0, y0, z0, x0, y0, z1},
		{x1, y0, z0, x1, y0, z1},
		{x1, y1, z0, x1, y1, z1},
		{x0, y1, z0, x0, y1, z1},
	}

	for _, e := range edges {
		if _, err := d.Line(e[0], e[1], e[2], e[3], e[4], e[5]); err != nil {
			return fmt.Errorf("failed to draw edge: %w", err)
		}
	}
	return nil
}

// layerName sanitizes a package label into a DXF layer name.
func layerName(label string) string {
	name := strings.ToUpper(label)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
	if strings.Trim(name, "_") == "" {
		name = "PACKAGE"
	}
	return "PKG_" + name
}
