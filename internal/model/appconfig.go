package model

const maxRecentScenarios = 10

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied when no flags or config file override them
	DefaultContainer      string `json:"default_container"`
	DefaultSeed           int64  `json:"default_seed"`
	DefaultWorkers        int    `json:"default_workers"`
	RequireSupport        bool   `json:"require_support"`
	SkipLargerAfterReject bool   `json:"skip_larger_after_reject"`
	ResultsDir            string `json:"results_dir"`

	// Application preferences
	RecentScenarios []string `json:"recent_scenarios"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultContainer:      "40ft",
		DefaultSeed:           defaults.Seed,
		DefaultWorkers:        defaults.Workers,
		RequireSupport:        defaults.RequireSupport,
		SkipLargerAfterReject: defaults.SkipLargerAfterReject,
		ResultsDir:            "results",
		RecentScenarios:       []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a
// LoadSettings struct. This is used when starting a run so it inherits
// the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *LoadSettings) {
	s.Seed = c.DefaultSeed
	s.Workers = c.DefaultWorkers
	s.RequireSupport = c.RequireSupport
	s.SkipLargerAfterReject = c.SkipLargerAfterReject
}

// RememberScenario records a scenario file as most recently used,
// deduplicating and keeping at most maxRecentScenarios entries.
func (c *AppConfig) RememberScenario(path string) {
	recent := make([]string, 0, len(c.RecentScenarios)+1)
	recent = append(recent, path)
	for _, p := range c.RecentScenarios {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > maxRecentScenarios {
		recent = recent[:maxRecentScenarios]
	}
	c.RecentScenarios = recent
}
