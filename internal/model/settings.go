package model

// FitConstraint vetoes candidate placements during fit testing. The engine
// consults every constraint for each corner/orientation attempt; returning
// false rejects that attempt without rejecting the package instance itself.
type FitConstraint func(pkg PackageType, orient Orientation, box Box) bool

// KeepUprightConstraint rejects tipped orientations for catalog entries
// flagged KeepUpright ("this face up" cargo).
func KeepUprightConstraint() FitConstraint {
	return func(pkg PackageType, orient Orientation, _ Box) bool {
		return !pkg.KeepUpright || orient.Upright()
	}
}

// MaxStackConstraint rejects placements whose top would exceed the catalog
// entry's MaxStackHeight.
func MaxStackConstraint() FitConstraint {
	return func(pkg PackageType, _ Orientation, box Box) bool {
		return pkg.MaxStackHeight == 0 || box.Max.Z <= pkg.MaxStackHeight+Epsilon
	}
}

// DefaultConstraints returns the constraints every run applies unless
// configured otherwise.
func DefaultConstraints() []FitConstraint {
	return []FitConstraint{
		KeepUprightConstraint(),
		MaxStackConstraint(),
	}
}

// LoadSettings holds placement engine and search configuration.
type LoadSettings struct {
	// SkipLargerAfterReject marks remaining units whose sorted extents
	// dominate a just-rejected unit as unplaced without trying them. Saves a
	// large amount of corner probing on catalogs with many duplicate units.
	SkipLargerAfterReject bool `json:"skip_larger_after_reject" yaml:"skip_larger_after_reject"`

	// RequireSupport discards generated corners that would leave a package
	// floating: corners above the floor must rest on a placed package's top
	// face (within StackingTolerance), except for a package's own vertical
	// extension corner.
	RequireSupport bool `json:"require_support" yaml:"require_support"`

	// CaptureCornerTrace records a snapshot of the active corner set after
	// every placement, for step-through replay tooling.
	CaptureCornerTrace bool `json:"capture_corner_trace" yaml:"capture_corner_trace"`

	// Seed drives the "random" ordering heuristics. Runs with equal seeds
	// are fully reproducible.
	Seed int64 `json:"seed" yaml:"seed"`

	// Workers is the number of combinations evaluated concurrently.
	// Zero means one worker per CPU.
	Workers int `json:"workers" yaml:"workers"`

	// Constraints are consulted on every fit attempt. Nil means
	// DefaultConstraints.
	Constraints []FitConstraint `json:"-" yaml:"-"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() LoadSettings {
	return LoadSettings{
		SkipLargerAfterReject: true,
		RequireSupport:        false,
		CaptureCornerTrace:    false,
		Seed:                  1,
		Workers:               0,
		Constraints:           DefaultConstraints(),
	}
}

// ActiveConstraints returns the configured constraints, falling back to the
// defaults when none are set.
func (s LoadSettings) ActiveConstraints() []FitConstraint {
	if s.Constraints == nil {
		return DefaultConstraints()
	}
	return s.Constraints
}
