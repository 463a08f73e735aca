package driven

// ConfigStore holds the flat, dot-keyed settings docqa reads at startup
// ("embedding.model", "chunking.size", "retrieval.top_k").
// Typed getters return the zero value for a missing key or a value of
// another type; SettingsService supplies the defaults.
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	// GetString returns a string value such as a provider or model name.
	GetString(key string) string

	// GetInt returns an integer value. Whole floats are accepted because
	// TOML and JSON decoders disagree on number types.
	GetInt(key string) int

	// GetFloat returns a float value. Integers are widened.
	GetFloat(key string) float64

	// Set stores a value. File-backed stores persist it immediately.
	Set(key string, value any) error

	// Save flushes all values to storage.
	Save() error

	// Load replaces the in-memory values with those in storage.
	Load() error

	// Path identifies where the settings live.
	Path() string
}
