package model

import "github.com/google/uuid"

// ContainerPreset represents a reusable container definition, such as a
// standard ISO shipping container. Dimensions are interior dimensions in cm.
type ContainerPreset struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Dimensions Dimensions `json:"dimensions"`
}

// NewContainerPreset creates a new ContainerPreset with a generated ID.
func NewContainerPreset(name string, length, width, height float64) ContainerPreset {
	return ContainerPreset{
		ID:         uuid.New().String()[:8],
		Name:       name,
		Dimensions: Dimensions{Length: length, Width: width, Height: height},
	}
}

// Inventory holds the user's saved container presets and package catalogs.
type Inventory struct {
	Containers []ContainerPreset `json:"containers"`
	Catalogs   []Scenario        `json:"catalogs"`
}

// DefaultInventory returns an inventory pre-populated with common ISO
// shipping container interiors.
func DefaultInventory() Inventory {
	return Inventory{
		Containers: []ContainerPreset{
			NewContainerPreset("20ft", 589.8, 235.2, 239.5),
			NewContainerPreset("40ft", 1203.2, 235.0, 239.2),
			NewContainerPreset("40ft-hc", 1203.2, 235.0, 269.7),
		},
	}
}

// FindContainer looks up a preset by name.
func (inv Inventory) FindContainer(name string) (ContainerPreset, bool) {
	for _, c := range inv.Containers {
		if c.Name == name {
			return c, true
		}
	}
	return ContainerPreset{}, false
}

// FindCatalog looks up a saved scenario by name.
func (inv Inventory) FindCatalog(name string) (Scenario, bool) {
	for _, s := range inv.Catalogs {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}
