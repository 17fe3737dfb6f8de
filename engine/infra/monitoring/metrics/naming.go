// Package metrics provides shared naming and bucket conventions for
// startrelay instruments.
package metrics

import "strings"

// Prefix is prepended to every metric the service exports.
const Prefix = "startrelay_"

// MetricName returns the metric name with the service prefix applied.
// Names that already carry the prefix pass through unchanged.
func MetricName(name string) string {
	if strings.HasPrefix(name, Prefix) {
		return name
	}
	return Prefix + name
}

// MetricNameWithSubsystem builds "<prefix><subsystem>_<name>", trimming
// stray underscores from the subsystem and tolerating empty parts.
func MetricNameWithSubsystem(subsystem, name string) string {
	if strings.HasPrefix(name, Prefix) {
		return name
	}
	sub := strings.Trim(subsystem, "_")
	switch {
	case sub == "":
		return MetricName(name)
	case name == "":
		return Prefix + sub
	default:
		return Prefix + sub + "_" + name
	}
}
