package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("Label,Length,Width,Height,Qty\nCrate,120,80,100,2\nDrum,60,60,90,1\n")
	got := DetectCSVDelimiter(data)
	if got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("Label;Length;Width;Height;Qty\nCrate;120;80;100;2\nDrum;60;60;90;1\n")
	got := DetectCSVDelimiter(data)
	if got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("Label\tLength\tWidth\tHeight\tQty\nCrate\t120\t80\t100\t2\nDrum\t60\t60\t90\t1\n")
	got := DetectCSVDelimiter(data)
	if got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Pipe(t *testing.T) {
	data := []byte("Label|Length|Width|Height|Qty\nCrate|120|80|100|2\nDrum|60|60|90|1\n")
	got := DetectCSVDelimiter(data)
	if got != '|' {
		t.Errorf("expected pipe delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	row := []string{"Label", "Length", "Width", "Height", "Quantity", "Upright"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.Label != 0 {
		t.Errorf("expected Label at 0, got %d", mapping.Label)
	}
	if mapping.Length != 1 {
		t.Errorf("expected Length at 1, got %d", mapping.Length)
	}
	if mapping.Width != 2 {
		t.Errorf("expected Width at 2, got %d", mapping.Width)
	}
	if mapping.Height != 3 {
		t.Errorf("expected Height at 3, got %d", mapping.Height)
	}
	if mapping.Quantity != 4 {
		t.Errorf("expected Quantity at 4, got %d", mapping.Quantity)
	}
	if mapping.Upright != 5 {
		t.Errorf("expected Upright at 5, got %d", mapping.Upright)
	}
}

func TestDetectColumns_CaseInsensitive(t *testing.T) {
	row := []string{"NAME", "LENGTH", "WIDTH", "HEIGHT", "QTY"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.Label != 0 {
		t.Errorf("expected Label at 0, got %d", mapping.Label)
	}
	if mapping.Length != 1 {
		t.Errorf("expected Length at 1, got %d", mapping.Length)
	}
}

func TestDetectColumns_AlternativeNames(t *testing.T) {
	row := []string{"Package Name", "L", "W", "H", "Pcs", "This Side Up"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.Label != 0 {
		t.Errorf("expected Label at 0, got %d", mapping.Label)
	}
	if mapping.Length != 1 {
		t.Errorf("expected Length at 1, got %d", mapping.Length)
	}
	if mapping.Width != 2 {
		t.Errorf("expected Width at 2, got %d", mapping.Width)
	}
	if mapping.Height != 3 {
		t.Errorf("expected Height at 3, got %d", mapping.Height)
	}
	if mapping.Quantity != 4 {
		t.Errorf("expected Quantity at 4, got %d", mapping.Quantity)
	}
	if mapping.Upright != 5 {
		t.Errorf("expected Upright at 5, got %d", mapping.Upright)
	}
}

func TestDetectColumns_ReorderedColumns(t *testing.T) {
	row := []string{"Qty", "Height", "Width", "Length", "Label"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.Quantity != 0 {
		t.Errorf("expected Quantity at 0, got %d", mapping.Quantity)
	}
	if mapping.Height != 1 {
		t.Errorf("expected Height at 1, got %d", mapping.Height)
	}
	if mapping.Width != 2 {
		t.Errorf("expected Width at 2, got %d", mapping.Width)
	}
	if mapping.Length != 3 {
		t.Errorf("expected Length at 3, got %d", mapping.Length)
	}
	if mapping.Label != 4 {
		t.Errorf("expected Label at 4, got %d", mapping.Label)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	row := []string{"Crate", "120", "80", "100", "2"}
	mapping, isHeader := DetectColumns(row)

	if isHeader {
		t.Error("expected no header detection for numeric data")
	}
	// Should fall back to positional
	if mapping.Label != 0 || mapping.Length != 1 || mapping.Width != 2 || mapping.Height != 3 || mapping.Quantity != 4 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Label,Length,Width,Height,Quantity,Upright\nCrate,120,80,100,2,yes\nDrum,60,60,90,1,no\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Types) != 2 {
		t.Fatalf("expected 2 types, got %d", len(result.Types))
	}

	if result.Types[0].Label != "Crate" {
		t.Errorf("expected label 'Crate', got '%s'", result.Types[0].Label)
	}
	if result.Types[0].Dimensions.Length != 120 {
		t.Errorf("expected length 120, got %f", result.Types[0].Dimensions.Length)
	}
	if result.Types[0].Dimensions.Width != 80 {
		t.Errorf("expected width 80, got %f", result.Types[0].Dimensions.Width)
	}
	if result.Types[0].Dimensions.Height != 100 {
		t.Errorf("expected height 100, got %f", result.Types[0].Dimensions.Height)
	}
	if result.Types[0].Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", result.Types[0].Quantity)
	}
	if !result.Types[0].KeepUpright {
		t.Error("expected Crate to be marked upright")
	}

	if result.Types[1].KeepUpright {
		t.Error("expected Drum to allow tipping")
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "Crate,120,80,100,2\nDrum,60,60,90,1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Types) != 2 {
		t.Fatalf("expected 2 types, got %d (errors: %v)", len(result.Types), result.Errors)
	}
	if result.Types[0].Label != "Crate" {
		t.Errorf("expected label 'Crate', got '%s'", result.Types[0].Label)
	}
	if result.Types[0].Dimensions.Length != 120 {
		t.Errorf("expected length 120, got %f", result.Types[0].Dimensions.Length)
	}
}

func TestImportCSVFromReader_SemicolonDelimiter(t *testing.T) {
	data := "Label;Length;Width;Height;Quantity\nCrate;120;80;100;2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ';')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Types) != 1 {
		t.Fatalf("expected 1 type, got %d", len(result.Types))
	}
	if result.Types[0].Label != "Crate" {
		t.Errorf("expected label 'Crate', got '%s'", result.Types[0].Label)
	}
}

func TestImportCSVFromReader_ReorderedColumns(t *testing.T) {
	data := "Qty,Height,Width,Length,Name\n2,100,80,120,Crate\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Types) != 1 {
		t.Fatalf("expected 1 type, got %d", len(result.Types))
	}
	if result.Types[0].Label != "Crate" {
		t.Errorf("expected label 'Crate', got '%s'", result.Types[0].Label)
	}
	if result.Types[0].Dimensions.Length != 120 {
		t.Errorf("expected length 120, got %f", result.Types[0].Dimensions.Length)
	}
	if result.Types[0].Dimensions.Height != 100 {
		t.Errorf("expected height 100, got %f", result.Types[0].Dimensions.Height)
	}
	if result.Types[0].Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", result.Types[0].Quantity)
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')

	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

func TestImportCSVFromReader_InvalidLength(t *testing.T) {
	data := "Label,Length,Width,Height,Quantity\nCrate,abc,80,100,2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) == 0 {
		t.Error("expected error for invalid length")
	}
	if len(result.Types) != 0 {
		t.Errorf("expected 0 types, got %d", len(result.Types))
	}
}

func TestImportCSVFromReader_InvalidQuantity(t *testing.T) {
	data := "Label,Length,Width,Height,Quantity\nCrate,120,80,100,abc\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) == 0 {
		t.Error("expected error for invalid quantity")
	}
}

func TestImportCSVFromReader_NegativeValues(t *testing.T) {
	data := "Label,Length,Width,Height,Quantity\nCrate,-120,80,100,2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) == 0 {
		t.Error("expected error for negative length")
	}
}

func TestImportCSVFromReader_ZeroQuantity(t *testing.T) {
	data := "Label,Length,Width,Height,Quantity\nCrate,120,80,100,0\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) == 0 {
		t.Error("expected error for zero quantity")
	}
}

func TestImportCSVFromReader_MixedValidAndInvalid(t *testing.T) {
	data := "Label,Length,Width,Height,Quantity\nGood,120,80,100,2\nBad,abc,80,100,2\nAlsoGood,60,60,90,1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Types) != 2 {
		t.Errorf("expected 2 valid types, got %d", len(result.Types))
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error, got %d", len(result.Errors))
	}
}

func TestImportCSVFromReader_EmptyRows(t *testing.T) {
	data := "Label,Length,Width,Height,Quantity\nCrate,120,80,100,2\n\n\nDrum,60,60,90,1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Types) != 2 {
		t.Errorf("expected 2 types (skipping empty rows), got %d (errors: %v)", len(result.Types), result.Errors)
	}
}

func TestImportCSVFromReader_EmptyLabel(t *testing.T) {
	data := "Label,Length,Width,Height,Quantity\n,120,80,100,2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Types) != 1 {
		t.Fatalf("expected 1 type, got %d", len(result.Types))
	}
	if result.Types[0].Label != "Package 1" {
		t.Errorf("expected auto-generated label 'Package 1', got '%s'", result.Types[0].Label)
	}
}

func TestImportCSVFromReader_UprightParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
		warning  bool
	}{
		{"yes", true, false},
		{"Y", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"upright", true, false},
		{"no", false, false},
		{"n", false, false},
		{"false", false, false},
		{"0", false, false},
		{"-", false, false},
		{"sideways", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			data := "Label,Length,Width,Height,Quantity,Upright\nCrate,120,80,100,1," + tt.input + "\n"
			result := ImportCSVFromReader(strings.NewReader(data), ',')

			if len(result.Types) != 1 {
				t.Fatalf("expected 1 type, got %d (errors: %v)", len(result.Types), result.Errors)
			}
			if result.Types[0].KeepUpright != tt.expected {
				t.Errorf("upright %q: expected %v, got %v", tt.input, tt.expected, result.Types[0].KeepUpright)
			}
			hasWarning := false
			for _, w := range result.Warnings {
				if strings.Contains(w, "Unknown upright flag") {
					hasWarning = true
				}
			}
			if tt.warning != hasWarning {
				t.Errorf("upright %q: warning mismatch, expected %v", tt.input, tt.warning)
			}
		})
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	data := "Label,Length,Upright\nCrate,120,yes\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) == 0 {
		t.Error("expected error for missing Width, Height and Quantity columns")
	}
	foundMissing := false
	for _, e := range result.Errors {
		if strings.Contains(e, "Required columns not found") {
			foundMissing = true
		}
	}
	if !foundMissing {
		t.Errorf("expected 'Required columns not found' error, got: %v", result.Errors)
	}
}

// ─── CSV File Import Tests ──────────────────────────────────

func TestImportCSV_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.csv")
	content := "Label,Length,Width,Height,Quantity\nCrate,120,80,100,2\nDrum,60,60,90,1\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Types) != 2 {
		t.Fatalf("expected 2 types, got %d", len(result.Types))
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.csv")
	content := "Label;Length;Width;Height;Quantity\nCrate;120;80;100;2\nDrum;60;60;90;1\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)

	if len(result.Types) != 2 {
		t.Errorf("expected 2 types, got %d (errors: %v)", len(result.Types), result.Errors)
	}

	// Should have a warning about semicolon delimiter
	hasSemicolonWarning := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			hasSemicolonWarning = true
		}
	}
	if !hasSemicolonWarning {
		t.Error("expected warning about semicolon delimiter detection")
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/path/file.csv")

	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Label", "Length", "Width", "Height", "Quantity", "Upright"},
		{"Crate", 120, 80, 100, 2, "yes"},
		{"Drum", 60, 60, 90, 1, "no"},
	})

	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Types) != 2 {
		t.Fatalf("expected 2 types, got %d", len(result.Types))
	}

	if result.Types[0].Label != "Crate" {
		t.Errorf("expected 'Crate', got '%s'", result.Types[0].Label)
	}
	if result.Types[0].Dimensions.Length != 120 {
		t.Errorf("expected length 120, got %f", result.Types[0].Dimensions.Length)
	}
	if !result.Types[0].KeepUpright {
		t.Error("expected Crate to be marked upright")
	}
}

func TestImportExcel_WithoutHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Crate", 120, 80, 100, 2},
		{"Drum", 60, 60, 90, 1},
	})

	result := ImportExcel(path)

	if len(result.Types) != 2 {
		t.Fatalf("expected 2 types, got %d (errors: %v)", len(result.Types), result.Errors)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/file.xlsx")

	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestImportExcel_InvalidData(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Label", "Length", "Width", "Height", "Quantity"},
		{"Crate", "abc", 80, 100, 2},
	})

	result := ImportExcel(path)

	if len(result.Errors) == 0 {
		t.Error("expected error for invalid length")
	}
}

// ─── Edge Cases ────────────────────────────────────────────

func TestImportCSVFromReader_OnlyHeaders(t *testing.T) {
	data := "Label,Length,Width,Height,Quantity\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Types) != 0 {
		t.Errorf("expected 0 types for header-only file, got %d", len(result.Types))
	}
	// Should not have errors (just no data)
}

func TestImportCSVFromReader_WhitespaceInValues(t *testing.T) {
	data := "Label , Length , Width , Height , Quantity\n Crate , 120 , 80 , 100 , 2 \n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Types) != 1 {
		t.Fatalf("expected 1 type, got %d (errors: %v)", len(result.Types), result.Errors)
	}
	if result.Types[0].Dimensions.Length != 120 {
		t.Errorf("expected length 120, got %f", result.Types[0].Dimensions.Length)
	}
}

func TestImportCSVFromReader_DecimalValues(t *testing.T) {
	data := "Label,Length,Width,Height,Quantity\nCrate,120.5,80.25,100,2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Types) != 1 {
		t.Fatalf("expected 1 type, got %d (errors: %v)", len(result.Types), result.Errors)
	}
	if result.Types[0].Dimensions.Length != 120.5 {
		t.Errorf("expected length 120.5, got %f", result.Types[0].Dimensions.Length)
	}
	if result.Types[0].Dimensions.Width != 80.25 {
		t.Errorf("expected width 80.25, got %f", result.Types[0].Dimensions.Width)
	}
}
