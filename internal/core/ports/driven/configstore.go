package driven

// ConfigStore reads and writes application configuration. Keys are
// dotted paths ("embedding.model"); the file adapter persists them as
// a TOML file under ~/.medvault. Typed getters return the zero value
// on a missing key or a type mismatch.
type ConfigStore interface {
	// Get returns the raw value for key and whether it exists.
	Get(key string) (any, bool)

	// GetString returns the value for key as a string.
	GetString(key string) string

	// GetInt returns the value for key as an int.
	GetInt(key string) int

	// GetBool returns the value for key as a bool.
	GetBool(key string) bool

	// GetStringSlice returns the value for key as a string slice.
	GetStringSlice(key string) []string

	// Set stores a value under key and persists it immediately.
	Set(key string, value any) error

	// Save writes the current configuration to storage.
	Save() error

	// Load reads the configuration from storage.
	Load() error

	// Path identifies where the configuration lives, for display.
	Path() string
}
