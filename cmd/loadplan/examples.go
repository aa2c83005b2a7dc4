package main

import (
	"fmt"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// Built-in example loads: a standard high-cube container with two real
// mixed-cargo catalogs, usable without any input files.

type exampleType struct {
	qty     int
	l, w, h float64
}

var exampleContainer = model.Dimensions{Length: 1203.0, Width: 233.5, Height: 268.5}

var exampleCatalogs = map[int][]exampleType{
	1: {
		{53, 24.5, 29.5, 53.5},
		{22, 24.5, 30.5, 53.5},
		{10, 32.5, 38.5, 35.5},
		{15, 39.5, 39.5, 53.5},
		{132, 35.5, 41.5, 59.5},
		{12, 33.5, 53.5, 58.5},
		{20, 41.5, 50.5, 60.5},
		{375, 43.5, 43.5, 72.5},
	},
	2: {
		{4, 21, 21, 33},
		{21, 23, 40, 47},
		{58, 34, 50, 51},
		{8, 32, 48, 58},
		{97, 38, 43, 56},
		{21, 34, 50, 56},
		{67, 44, 46, 47},
		{159, 36, 46, 58},
		{55, 35, 52, 56},
		{34, 42, 49, 50},
		{17, 45, 47, 55},
		{29, 36, 55, 60},
		{77, 43, 52, 60},
		{60, 40, 58, 59},
		{7, 43, 57, 57},
		{2, 50, 57, 57},
	},
}

func exampleScenario(num int) (model.Scenario, error) {
	types, ok := exampleCatalogs[num]
	if !ok {
		return model.Scenario{}, fmt.Errorf("unknown example %d: available examples are 1 and 2", num)
	}

	catalog := make([]model.PackageType, 0, len(types))
	for i, t := range types {
		catalog = append(catalog, model.NewPackageType(fmt.Sprintf("Type %d", i), t.l, t.w, t.h, t.qty))
	}
	return model.Scenario{
		Name:      fmt.Sprintf("example-%d", num),
		Container: exampleContainer,
		Catalog:   catalog,
	}, nil
}
