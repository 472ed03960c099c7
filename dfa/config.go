package dfa

// Config configures determinization.
type Config struct {
	// MaxStates is the maximum number of DFA states, including the three
	// reserved states KILL, FAIL and START. Exceeding it aborts the build.
	//
	// Default: 1,000 states
	MaxStates int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxStates: 1_000,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxStates <= int(firstFree) {
		return &BuildError{
			Kind:    InvalidConfig,
			Message: "MaxStates must leave room beyond the reserved states",
		}
	}
	return nil
}

// WithMaxStates returns a new config with the specified max states
func (c Config) WithMaxStates(maxStates int) Config {
	c.MaxStates = maxStates
	return c
}
