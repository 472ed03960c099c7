// Package meta ties the pattern pipeline together: it compiles pattern
// source, determinizes it, keeps the resulting table in a cache slot and
// runs the recognizer over editor text.
//
// The pipeline coordinates three stages:
//   - nfa: pattern source to a sectioned NFA and its canonical definition
//   - dfa: subset construction into a read-only table
//   - Recognizer: leftmost, longest search over one line of text
//
// A literal prefilter is added when the match body is a finite set of exact
// literals, so that most columns of a line are skipped without running the
// automaton.
package meta

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml"
)

// Config controls the resource budgets of the pattern pipeline.
//
// Example:
//
//	config := meta.DefaultConfig().WithMaxDFAStates(4000)
//	engine, err := meta.NewEngine(config, resolver, sink)
type Config struct {
	// MaxNFAStates caps the NFA arena built by the compiler.
	// Default: 4000
	MaxNFAStates int

	// MaxDFAStates caps the determinized table, reserved states included.
	// Default: 1000
	MaxDFAStates int

	// MaxRecursionDepth limits the nesting of groups during compilation.
	// Default: 100
	MaxRecursionDepth int

	// MaxDerefDepth limits how deeply dereferenced spans may refer to
	// further spans.
	// Default: 8
	MaxDerefDepth int

	// EnablePrefilter enables literal prefiltering of candidate columns.
	// Default: true
	EnablePrefilter bool
}

// DefaultConfig returns a configuration with the editor's usual budgets.
func DefaultConfig() Config {
	return Config{
		MaxNFAStates:      4000,
		MaxDFAStates:      1000,
		MaxRecursionDepth: 100,
		MaxDerefDepth:     8,
		EnablePrefilter:   true,
	}
}

// Validate checks if the configuration is valid.
//
// Valid ranges:
//   - MaxNFAStates: 16 to 1,000,000
//   - MaxDFAStates: 4 to 100,000
//   - MaxRecursionDepth: 1 to 1,000
//   - MaxDerefDepth: 1 to 64
func (c Config) Validate() error {
	if c.MaxNFAStates < 16 || c.MaxNFAStates > 1_000_000 {
		return &ConfigError{
			Field:   "MaxNFAStates",
			Message: "must be between 16 and 1,000,000",
		}
	}
	if c.MaxDFAStates < 4 || c.MaxDFAStates > 100_000 {
		return &ConfigError{
			Field:   "MaxDFAStates",
			Message: "must be between 4 and 100,000",
		}
	}
	if c.MaxRecursionDepth < 1 || c.MaxRecursionDepth > 1_000 {
		return &ConfigError{
			Field:   "MaxRecursionDepth",
			Message: "must be between 1 and 1,000",
		}
	}
	if c.MaxDerefDepth < 1 || c.MaxDerefDepth > 64 {
		return &ConfigError{
			Field:   "MaxDerefDepth",
			Message: "must be between 1 and 64",
		}
	}
	return nil
}

// WithMaxNFAStates returns a copy of c with the NFA budget set.
func (c Config) WithMaxNFAStates(n int) Config {
	c.MaxNFAStates = n
	return c
}

// WithMaxDFAStates returns a copy of c with the DFA budget set.
func (c Config) WithMaxDFAStates(n int) Config {
	c.MaxDFAStates = n
	return c
}

// WithMaxRecursionDepth returns a copy of c with the group nesting limit set.
func (c Config) WithMaxRecursionDepth(n int) Config {
	c.MaxRecursionDepth = n
	return c
}

// WithMaxDerefDepth returns a copy of c with the dereference nesting limit set.
func (c Config) WithMaxDerefDepth(n int) Config {
	c.MaxDerefDepth = n
	return c
}

// WithPrefilter returns a copy of c with prefiltering switched on or off.
func (c Config) WithPrefilter(enabled bool) Config {
	c.EnablePrefilter = enabled
	return c
}

// LoadConfig reads a TOML configuration. Keys that are absent keep their
// default values, unknown keys are an error, and the result is validated.
//
//	max-nfa-states = 4000
//	max-dfa-states = 1000
//	max-recursion-depth = 100
//	max-deref-depth = 8
//	enable-prefilter = true
func LoadConfig(r io.Reader) (Config, error) {
	tree, err := toml.LoadReader(r)
	if err != nil {
		return Config{}, fmt.Errorf("meta: load config: %w", err)
	}
	c := DefaultConfig()
	for _, key := range tree.Keys() {
		v := tree.Get(key)
		switch key {
		case "max-nfa-states":
			err = setInt(&c.MaxNFAStates, key, v)
		case "max-dfa-states":
			err = setInt(&c.MaxDFAStates, key, v)
		case "max-recursion-depth":
			err = setInt(&c.MaxRecursionDepth, key, v)
		case "max-deref-depth":
			err = setInt(&c.MaxDerefDepth, key, v)
		case "enable-prefilter":
			b, ok := v.(bool)
			if !ok {
				err = fmt.Errorf("meta: load config: %s must be a boolean", key)
			}
			c.EnablePrefilter = b
		default:
			err = fmt.Errorf("meta: load config: unknown key %q", key)
		}
		if err != nil {
			return Config{}, err
		}
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setInt(dst *int, key string, v interface{}) error {
	n, ok := v.(int64)
	if !ok {
		return fmt.Errorf("meta: load config: %s must be an integer", key)
	}
	*dst = int(n)
	return nil
}

// SampleConfig returns a commented TOML file holding the defaults.
func SampleConfig() string {
	return `# edpat pattern engine settings

# Largest NFA the pattern compiler may build.
#max-nfa-states=4000

# Largest determinized table, the KILL, FAIL and START states included.
#max-dfa-states=1000

# Deepest nesting of parenthesised groups.
#max-recursion-depth=100

# Deepest chain of spans referring to spans.
#max-deref-depth=8

# Skip columns that cannot start a literal match.
#enable-prefilter=true
`
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "meta: invalid config: " + e.Field + ": " + e.Message
}
