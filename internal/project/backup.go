package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string           `json:"version"`
	CreatedAt string           `json:"created_at"`
	Inventory model.Inventory  `json:"inventory"`
	Scenarios []model.Scenario `json:"scenarios"`
}

// ExportAllData exports all application data (inventory and saved scenarios)
// to a single JSON file at the specified path.
func ExportAllData(exportPath string, inv model.Inventory, scenarios []model.Scenario) error {
	backup := BackupData{
		Version:   "1.0.0",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Inventory: inv,
		Scenarios: scenarios,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for merging the imported inventory.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	// Ensure Scenarios is never nil
	if backup.Scenarios == nil {
		backup.Scenarios = []model.Scenario{}
	}
	return backup, nil
}

// RestoreAllData reads a backup file and writes its contents back to disk:
// the inventory to inventoryPath and each contained scenario as a JSON file
// under scenariosDir. It returns the imported backup.
func RestoreAllData(importPath, inventoryPath, scenariosDir string) (BackupData, error) {
	backup, err := ImportAllData(importPath)
	if err != nil {
		return BackupData{}, err
	}

	if err := SaveInventory(inventoryPath, backup.Inventory); err != nil {
		return BackupData{}, fmt.Errorf("failed to restore inventory: %w", err)
	}

	for _, scenario := range backup.Scenarios {
		path := filepath.Join(scenariosDir, sanitizeFileName(scenario.Name)+".json")
		if err := SaveScenario(path, scenario); err != nil {
			return BackupData{}, fmt.Errorf("failed to restore scenario %q: %w", scenario.Name, err)
		}
	}
	return backup, nil
}
