package config

import "strings"

// Truthy is a bool that accepts the strings "1", "true", and "yes"
// (case-insensitive) as true when decoded from configuration sources.
// Any other value decodes to false rather than failing the load.
type Truthy bool

// ParseTruthy interprets s under the truthy contract.
func ParseTruthy(s string) Truthy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// Bool returns the plain bool value.
func (t Truthy) Bool() bool {
	return bool(t)
}
