package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/LoadPlan/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")

	inv := model.DefaultInventory()
	scenarios := []model.Scenario{
		{
			Name:      "warehouse-move",
			Container: model.Dimensions{Length: 10, Width: 10, Height: 10},
			Catalog:   []model.PackageType{model.NewPackageType("Crate", 5, 5, 5, 2)},
		},
	}

	if err := ExportAllData(path, inv, scenarios); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}

	if backup.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %s", backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if len(backup.Inventory.Containers) != len(inv.Containers) {
		t.Errorf("expected %d containers, got %d", len(inv.Containers), len(backup.Inventory.Containers))
	}
	if len(backup.Scenarios) != 1 {
		t.Fatalf("expected 1 scenario, got %d", len(backup.Scenarios))
	}
	if backup.Scenarios[0].Name != "warehouse-move" {
		t.Errorf("expected scenario 'warehouse-move', got %q", backup.Scenarios[0].Name)
	}
}

func TestExportAllDataNilScenarios(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")

	if err := ExportAllData(path, model.DefaultInventory(), nil); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Scenarios == nil {
		t.Error("expected Scenarios to be non-nil after import")
	}
}

func TestRestoreAllData(t *testing.T) {
	dir := t.TempDir()
	backupPath := filepath.Join(dir, "backup.json")
	inventoryPath := filepath.Join(dir, "restored", "inventory.json")
	scenariosDir := filepath.Join(dir, "scenarios")

	inv := model.DefaultInventory()
	scenarios := []model.Scenario{
		{
			Name:      "warehouse move",
			Container: model.Dimensions{Length: 10, Width: 10, Height: 10},
			Catalog:   []model.PackageType{model.NewPackageType("Crate", 5, 5, 5, 2)},
		},
	}
	if err := ExportAllData(backupPath, inv, scenarios); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := RestoreAllData(backupPath, inventoryPath, scenariosDir)
	if err != nil {
		t.Fatalf("RestoreAllData failed: %v", err)
	}
	if len(backup.Scenarios) != 1 {
		t.Fatalf("expected 1 scenario in backup, got %d", len(backup.Scenarios))
	}

	restored, err := LoadInventory(inventoryPath)
	if err != nil {
		t.Fatalf("failed to load restored inventory: %v", err)
	}
	if len(restored.Containers) != len(inv.Containers) {
		t.Errorf("expected %d containers after restore, got %d", len(inv.Containers), len(restored.Containers))
	}

	scenario, err := LoadScenario(filepath.Join(scenariosDir, "warehouse-move.json"))
	if err != nil {
		t.Fatalf("failed to load restored scenario: %v", err)
	}
	if scenario.Name != "warehouse move" {
		t.Errorf("expected scenario name preserved, got %q", scenario.Name)
	}
}

func TestRestoreAllDataMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := RestoreAllData(filepath.Join(dir, "nope.json"), filepath.Join(dir, "inv.json"), dir)
	if err == nil {
		t.Fatal("expected error for missing backup file")
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	_, err := ImportAllData(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportAllDataInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noversion.json")
	if err := os.WriteFile(path, []byte(`{"created_at":"now"}`), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for backup without version")
	}
}
