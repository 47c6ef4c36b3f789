package driven

// ConfigStore provides access to application configuration stored under
// flattened dot keys such as "llm.provider".
type ConfigStore interface {
	// Get retrieves a raw value and whether the key exists.
	Get(key string) (any, bool)

	// GetString returns the value as a string, or "" when absent or mistyped.
	GetString(key string) string

	// GetInt returns the value as an int, or 0 when absent or mistyped.
	GetInt(key string) int

	// GetBool returns the value as a bool, or false when absent or mistyped.
	GetBool(key string) bool

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Unset removes a key and persists the change. Missing keys are ignored.
	Unset(key string) error

	// Keys returns every stored key in sorted order.
	Keys() []string

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
