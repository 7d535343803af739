package config

import (
	"os"
	"regexp"
)

// envRef matches ${VAR} and ${VAR:-default}.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*)?\}`)

// ExpandEnv substitutes ${VAR} and ${VAR:-default} references in input with
// environment variable values.
//
// An unset or empty variable takes its default when one is given. Unset
// variables without defaults expand to empty string (not an error); empty
// path fields then fall back to ApplyDefaults.
func ExpandEnv(input string) string {
	return envRef.ReplaceAllStringFunc(input, func(ref string) string {
		groups := envRef.FindStringSubmatch(ref)
		name, fallback := groups[1], groups[2]

		if value := os.Getenv(name); value != "" {
			return value
		}
		if fallback != "" {
			return fallback[len(":-"):]
		}
		return ""
	})
}
