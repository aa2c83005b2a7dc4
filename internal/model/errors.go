package model

import "errors"

var (
	// ErrEmptyCatalog is returned when a scenario has no package types at all.
	ErrEmptyCatalog = errors.New("catalog must contain at least one package type")
	// ErrNonPositiveDimension is returned when a container or package extent is zero or negative.
	ErrNonPositiveDimension = errors.New("dimensions must be positive")
	// ErrNonPositiveQuantity is returned when a catalog entry requests zero or fewer units.
	ErrNonPositiveQuantity = errors.New("package quantity must be positive")
)
