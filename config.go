package rt

import "time"

import "github.com/ygrebnov/rt/metrics"

// config holds Runtime configuration assembled from Options.
type config struct {
	// metrics receives runtime instrumentation. Default: metrics.NoopProvider.
	metrics metrics.Provider

	// clock supplies the current time. Overriding it is mainly useful for
	// deterministic tests of the timer wheel. Default: time.Now.
	clock func() time.Time
}

// defaultConfig centralizes default values for config.
func defaultConfig() config {
	return config{
		metrics: metrics.NewNoopProvider(),
		clock:   time.Now,
	}
}

// validateConfig performs lightweight invariant checks on an assembled
// config. Options already reject nil arguments at the point they're applied,
// so this currently has nothing left to check; it exists as a seam for
// validation New will need once Config grows additional fields.
func validateConfig(_ *config) error {
	return nil
}
