package driven

// ConfigStore provides persistent application configuration.
// Keys use dot notation (e.g. "embedding.provider").
type ConfigStore interface {
	// Get retrieves a raw configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" if absent.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 if absent.
	GetInt(key string) int

	// GetFloat retrieves a floating-point value, or 0 if absent.
	GetFloat(key string) float64

	// Set stores a value and persists immediately.
	Set(key string, value any) error

	// Load re-reads configuration from the backing store.
	Load() error

	// Path returns the backing file location, for display.
	Path() string
}
