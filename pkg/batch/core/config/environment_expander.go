package config

import (
	"os"
	"strings"
)

// EnvironmentExpander expands environment variable placeholders in configuration bytes.
type EnvironmentExpander interface {
	// Expand replaces ${VAR}, ${VAR:-default} and $VAR placeholders in input.
	Expand(input []byte) ([]byte, error)
}

// OsEnvironmentExpander expands placeholders from the process environment.
// Unset or empty variables expand to their default, or to the empty string.
type OsEnvironmentExpander struct{}

// NewOsEnvironmentExpander creates and returns a new instance of OsEnvironmentExpander.
func NewOsEnvironmentExpander() *OsEnvironmentExpander {
	return &OsEnvironmentExpander{}
}

// Expand implements EnvironmentExpander. The returned error is always nil.
func (e *OsEnvironmentExpander) Expand(input []byte) ([]byte, error) {
	return []byte(os.Expand(string(input), lookupWithDefault)), nil
}

func lookupWithDefault(key string) string {
	name, def, _ := strings.Cut(key, ":-")
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
