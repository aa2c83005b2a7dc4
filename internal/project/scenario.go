// Package project handles persistence of scenarios, reports, inventory, and
// full-application backups on disk.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/LoadPlan/internal/engine"
	"github.com/piwi3910/LoadPlan/internal/model"
)

// resultTimestampLayout names result files by generation time so repeated
// runs of the same scenario never overwrite each other.
const resultTimestampLayout = "02012006_15-04-05"

// SaveScenario writes a scenario to disk. The format follows the file
// extension: .yaml/.yml produce YAML, anything else JSON.
func SaveScenario(path string, scenario model.Scenario) error {
	if err := scenario.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid scenario: %w", err)
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(scenario)
	} else {
		data, err = json.MarshalIndent(scenario, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create scenario directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scenario file: %w", err)
	}
	return nil
}

// LoadScenario reads a scenario from a JSON or YAML file and validates it.
func LoadScenario(path string) (model.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Scenario{}, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario model.Scenario
	if isYAML(path) {
		err = yaml.Unmarshal(data, &scenario)
	} else {
		err = json.Unmarshal(data, &scenario)
	}
	if err != nil {
		return model.Scenario{}, fmt.Errorf("failed to parse scenario file: %w", err)
	}

	if scenario.Name == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := scenario.Validate(); err != nil {
		return model.Scenario{}, fmt.Errorf("invalid scenario in %s: %w", path, err)
	}
	return scenario, nil
}

// SaveReport writes a search report to the given JSON file.
func SaveReport(path string, report *engine.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// SaveReportTimestamped writes a report into dir under a generated
// name derived from the scenario and the report's generation time.
// It returns the path of the written file.
func SaveReportTimestamped(dir string, report *engine.Report) (string, error) {
	stamp := report.GeneratedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	name := fmt.Sprintf("%s_%s.json", sanitizeFileName(report.Scenario.Name), stamp.Format(resultTimestampLayout))
	path := filepath.Join(dir, name)
	if err := SaveReport(path, report); err != nil {
		return "", err
	}
	return path, nil
}

// LoadReport reads a previously saved report.
func LoadReport(path string) (*engine.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}
	var report engine.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report file: %w", err)
	}
	if len(report.Results) == 0 {
		return nil, fmt.Errorf("report %s contains no results", path)
	}
	if report.BestIndex < 0 || report.BestIndex >= len(report.Results) {
		return nil, fmt.Errorf("report %s has invalid best index %d", path, report.BestIndex)
	}
	return &report, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// sanitizeFileName keeps scenario names safe as file name components.
func sanitizeFileName(name string) string {
	if name == "" {
		return "scenario"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '-'
		}
	}, name)
}
