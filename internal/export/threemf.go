package export

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/piwi3910/LoadPlan/internal/engine"
	"github.com/piwi3910/LoadPlan/internal/model"
)

// 3MF package parts. A 3MF file is an OPC zip archive with a fixed layout:
// content types, a root relationship, and the model XML itself.
const (
	threemfContentTypes = `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
 <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
 <Default Extension="model" ContentType="application/vnd.ms-package.3dmanufacturing-3dmodel+xml"/>
</Types>
`
	threemfRels = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
 <Relationship Target="/3D/3dmodel.model" Id="rel0" Type="http://schemas.microsoft.com/3dmanufacturing/2013/01/3dmodel"/>
</Relationships>
`
)

// ExportThreeMF writes the best run's placement as a 3MF model. Every placed
// package becomes a mesh object (8 vertices, 12 triangles) colored by its
// package type, positioned inside the container's coordinate system, so the
// load plan can be inspected in any 3D model viewer.
func ExportThreeMF(path string, report *engine.Report) error {
	best := report.Best()
	if len(best.Placed) == 0 {
		return fmt.Errorf("no placements to export")
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create 3MF file: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	files := []struct {
		name    string
		content func(io.Writer) error
	}{
		{"[Content_Types].xml", func(w io.Writer) error {
			_, err := io.WriteString(w, threemfContentTypes)
			return err
		}},
		{"_rels/.rels", func(w io.Writer) error {
			_, err := io.WriteString(w, threemfRels)
			return err
		}},
		{"3D/3dmodel.model", func(w io.Writer) error {
			return writeModelXML(w, report)
		}},
	}

	for _, file := range files {
		w, err := zw.Create(file.name)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", file.name, err)
		}
		if err := file.content(w); err != nil {
			return fmt.Errorf("failed to write %s: %w", file.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize 3MF archive: %w", err)
	}
	return nil
}

// writeModelXML emits the 3D/3dmodel.model part: a material per package type
// and one mesh object per placed package.
func writeModelXML(w io.Writer, report *engine.Report) error {
	best := report.Best()

	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>%s`, "\n")
	fmt.Fprintf(w, `<model unit="centimeter" xml:lang="en-US" xmlns="http://schemas.microsoft.com/3dmanufacturing/core/2015/02" xmlns:m="http://schemas.microsoft.com/3dmanufacturing/material/2015/02">%s`, "\n")
	fmt.Fprintf(w, " <resources>\n")

	// Material per package type, in catalog order.
	fmt.Fprintf(w, `  <basematerials id="1">%s`, "\n")
	for i, t := range report.Scenario.Catalog {
		col := packageColors[i%len(packageColors)]
		fmt.Fprintf(w, `   <base name="%s" displaycolor="#%02X%02X%02X"/>%s`, xmlEscape(t.Label), col.R, col.G, col.B, "\n")
	}
	fmt.Fprintf(w, "  </basematerials>\n")

	// One mesh object per placed package. Object IDs start above the
	// materials resource.
	for i, p := range best.Placed {
		objectID := i + 2
		pindex := typeColorIndex(report.Scenario.Catalog, p.TypeID)
		fmt.Fprintf(w, `  <object id="%d" type="model" pid="1" pindex="%d" name="%s #%d">%s`,
			objectID, pindex, xmlEscape(p.Label), p.Step+1, "\n")
		fmt.Fprintf(w, "   <mesh>\n")
		writeBoxMesh(w, p.Box)
		fmt.Fprintf(w, "   </mesh>\n")
		fmt.Fprintf(w, "  </object>\n")
	}

	fmt.Fprintf(w, " </resources>\n")
	fmt.Fprintf(w, " <build>\n")
	for i := range best.Placed {
		fmt.Fprintf(w, `  <item objectid="%d"/>%s`, i+2, "\n")
	}
	fmt.Fprintf(w, " </build>\n")
	_, err := fmt.Fprintf(w, "</model>\n")
	return err
}

// boxTriangles indexes the 8 corner vertices of a box into 12 triangles with
// outward-facing winding.
var boxTriangles = [12][3]int{
	{0, 2, 1}, {0, 3, 2}, // bottom
	{4, 5, 6}, {4, 6, 7}, // top
	{0, 1, 5}, {0, 5, 4}, // front
	{1, 2, 6}, {1, 6, 5}, // right
	{2, 3, 7}, {2, 7, 6}, // back
	{3, 0, 4}, {3, 4, 7}, // left
}

func writeBoxMesh(w io.Writer, b model.Box) {
	x0, y0, z0 := b.Min.X, b.Min.Y, b.Min.Z
	x1, y1, z1 := b.Max.X, b.Max.Y, b.Max.Z

	vertices := [8][3]float64{
		{x0, y0, z0}, {x1, y0, z0}, {x1, y1, z0}, {x0, y1, z0},
		{x0, y0, z1}, {x1, y0, z1}, {x1, y1, z1}, {x0, y1, z1},
	}

	fmt.Fprintf(w, "    <vertices>\n")
	for _, v := range vertices {
		fmt.Fprintf(w, `     <vertex x="%g" y="%g" z="%g"/>%s`, v[0], v[1], v[2], "\n")
	}
	fmt.Fprintf(w, "    </vertices>\n")

	fmt.Fprintf(w, "    <triangles>\n")
	for _, t := range boxTriangles {
		fmt.Fprintf(w, `     <triangle v1="%d" v2="%d" v3="%d"/>%s`, t[0], t[1], t[2], "\n")
	}
	fmt.Fprintf(w, "    </triangles>\n")
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// xmlEscape escapes the characters that may not appear raw in attribute values.
func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}
